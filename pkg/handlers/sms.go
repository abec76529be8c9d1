package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/auth"
	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/logging"
	"github.com/stokeshomestead/farmops/pkg/repositories"
	"github.com/stokeshomestead/farmops/pkg/services"
	"github.com/stokeshomestead/farmops/pkg/twilio"
)

// SMSHandler handles the Twilio SMS webhook.
type SMSHandler struct {
	pipeline  *messagePipeline
	validator *twilio.Validator
	senders   *auth.SenderAllowList
	logger    *zap.Logger
}

// NewSMSHandler creates a new SMSHandler with dependencies.
func NewSMSHandler(
	eng *engine.Engine,
	commands services.CommandService,
	messages repositories.MessageRepository,
	validator *twilio.Validator,
	senders *auth.SenderAllowList,
	logger *zap.Logger,
) *SMSHandler {
	return &SMSHandler{
		pipeline: &messagePipeline{
			engine:   eng,
			commands: commands,
			messages: messages,
			logger:   logger,
			now:      time.Now,
		},
		validator: validator,
		senders:   senders,
		logger:    logger,
	}
}

// RegisterRoutes registers the SMS handler's routes on the given mux.
func (h *SMSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /sms/incoming", h.Incoming)
}

// Incoming handles POST /sms/incoming, Twilio's inbound message webhook.
// The reply is delivered in the webhook response itself as TwiML.
func (h *SMSHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "malformed form body")
		return
	}

	if !h.validator.Validate(r) {
		h.logger.Warn("Rejected webhook with invalid signature",
			zap.String("remote_addr", r.RemoteAddr))
		_ = ErrorResponse(w, http.StatusForbidden, "invalid_signature", "request signature validation failed")
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	if !h.senders.Authorized(from) {
		h.logger.Warn("Rejected message from unauthorized sender",
			zap.String("sender", logging.SanitizePhone(from)))
		h.reply(w, unauthorizedReply)
		return
	}

	h.reply(w, h.pipeline.process(r.Context(), from, "sms", body))
}

func (h *SMSHandler) reply(w http.ResponseWriter, text string) {
	doc, err := twilio.RenderSMS(text)
	if err != nil {
		h.logger.Error("Failed to render TwiML reply", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to render reply")
		return
	}
	WriteTwiML(w, doc)
}
