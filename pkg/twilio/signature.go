package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
)

// SignatureHeader carries the webhook signature on inbound requests.
const SignatureHeader = "X-Twilio-Signature"

// Validator checks that webhook requests were signed with the account's
// auth token. An empty token disables validation (local development).
type Validator struct {
	authToken string
	publicURL string
}

// NewValidator creates a Validator. publicURL overrides the request's own
// scheme/host when the service runs behind a proxy; pass "" to trust the
// request URL.
func NewValidator(authToken, publicURL string) *Validator {
	return &Validator{authToken: authToken, publicURL: publicURL}
}

// Validate reports whether the request carries a valid Twilio signature.
// The request's form must already be parsed.
func (v *Validator) Validate(r *http.Request) bool {
	if v.authToken == "" {
		return true
	}
	expected := v.sign(v.requestURL(r), r.PostForm)
	provided := r.Header.Get(SignatureHeader)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

// sign computes the signature Twilio documents: the full URL with the POST
// parameter names and values appended in parameter-name order, HMAC-SHA1
// keyed by the auth token, base64 encoded.
func (v *Validator) sign(fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload := fullURL
	for _, k := range keys {
		for _, val := range form[k] {
			payload += k + val
		}
	}

	mac := hmac.New(sha1.New, []byte(v.authToken))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (v *Validator) requestURL(r *http.Request) string {
	if v.publicURL != "" {
		return v.publicURL + r.URL.RequestURI()
	}
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
