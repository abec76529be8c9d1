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

const (
	voiceGreeting = "Welcome to FarmOps. Tell me what you'd like to record. " +
		"For example, say 'add calf born today' or 'cow 42 moved to north pasture'."
	voiceNoInput       = "I didn't catch that. Tell me what you'd like to record."
	voiceProcessAction = "/voice/process"
)

// VoiceHandler handles the Twilio voice webhooks. Speech transcriptions run
// through the same pipeline as SMS bodies.
type VoiceHandler struct {
	pipeline  *messagePipeline
	validator *twilio.Validator
	senders   *auth.SenderAllowList
	logger    *zap.Logger
}

// NewVoiceHandler creates a new VoiceHandler with dependencies.
func NewVoiceHandler(
	eng *engine.Engine,
	commands services.CommandService,
	messages repositories.MessageRepository,
	validator *twilio.Validator,
	senders *auth.SenderAllowList,
	logger *zap.Logger,
) *VoiceHandler {
	return &VoiceHandler{
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

// RegisterRoutes registers the voice handler's routes on the given mux.
func (h *VoiceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /voice/incoming", h.Incoming)
	mux.HandleFunc("POST /voice/process", h.Process)
}

// Incoming handles POST /voice/incoming, the start of an inbound call. It
// greets the caller and gathers speech for /voice/process.
func (h *VoiceHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	if !h.validateForm(w, r) {
		return
	}

	from := r.PostFormValue("From")
	if !h.senders.Authorized(from) {
		h.logger.Warn("Rejected call from unauthorized number",
			zap.String("caller", logging.SanitizePhone(from)))
		doc, err := twilio.RenderVoiceHangup("Sorry, this number is not authorized.")
		h.render(w, doc, err)
		return
	}

	doc, err := twilio.RenderVoicePrompt(voiceGreeting, voiceProcessAction)
	h.render(w, doc, err)
}

// Process handles POST /voice/process with Twilio's speech transcription.
func (h *VoiceHandler) Process(w http.ResponseWriter, r *http.Request) {
	if !h.validateForm(w, r) {
		return
	}

	from := r.PostFormValue("From")
	if !h.senders.Authorized(from) {
		doc, err := twilio.RenderVoiceHangup("Sorry, this number is not authorized.")
		h.render(w, doc, err)
		return
	}

	speech := r.PostFormValue("SpeechResult")
	if speech == "" {
		doc, err := twilio.RenderVoicePrompt(voiceNoInput, voiceProcessAction)
		h.render(w, doc, err)
		return
	}

	reply := h.pipeline.process(r.Context(), from, "voice", speech)
	doc, err := twilio.RenderVoiceReply(reply, voiceProcessAction)
	h.render(w, doc, err)
}

func (h *VoiceHandler) validateForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "malformed form body")
		return false
	}
	if !h.validator.Validate(r) {
		h.logger.Warn("Rejected webhook with invalid signature",
			zap.String("remote_addr", r.RemoteAddr))
		_ = ErrorResponse(w, http.StatusForbidden, "invalid_signature", "request signature validation failed")
		return false
	}
	return true
}

func (h *VoiceHandler) render(w http.ResponseWriter, doc []byte, err error) {
	if err != nil {
		h.logger.Error("Failed to render TwiML reply", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to render reply")
		return
	}
	WriteTwiML(w, doc)
}
