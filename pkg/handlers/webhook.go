package handlers

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/apperrors"
	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/logging"
	"github.com/stokeshomestead/farmops/pkg/metrics"
	"github.com/stokeshomestead/farmops/pkg/repositories"
	"github.com/stokeshomestead/farmops/pkg/services"
)

// unauthorizedReply is sent to senders not on the allow-list.
const unauthorizedReply = "Unauthorized. Contact admin to add your number."

// messagePipeline runs one inbound message through interpretation and
// execution and produces the reply text. SMS and voice webhooks share it;
// only the transport framing differs.
type messagePipeline struct {
	engine   *engine.Engine
	commands services.CommandService
	messages repositories.MessageRepository
	logger   *zap.Logger
	now      func() time.Time
}

// process interprets and executes one message. It always returns reply text
// for the sender; persistence failures degrade to an apologetic reply rather
// than an HTTP error, because Twilio retries webhook 5xx responses and the
// sender would see nothing in the meantime.
func (p *messagePipeline) process(ctx context.Context, sender, channel, text string) string {
	metrics.MessagesTotal.WithLabelValues(channel, "inbound").Inc()

	if err := p.messages.Log(ctx, sender, "inbound", text, ""); err != nil {
		p.logger.Error("Failed to log inbound message",
			zap.String("sender", logging.SanitizePhone(sender)),
			zap.Error(err))
	}

	today := dateOnly(p.now())
	reply, action := p.interpret(ctx, sender, text, today)

	if err := p.messages.Log(ctx, sender, "outbound", reply, action); err != nil {
		p.logger.Error("Failed to log outbound message",
			zap.String("sender", logging.SanitizePhone(sender)),
			zap.Error(err))
	}
	metrics.MessagesTotal.WithLabelValues(channel, "outbound").Inc()

	return reply
}

func (p *messagePipeline) interpret(ctx context.Context, sender, text string, today time.Time) (reply, action string) {
	cmd, failure := p.engine.Parse(engine.Request{Text: text, Today: today, SenderID: sender})
	if failure != nil {
		metrics.ParseFailures.WithLabelValues(string(failure.Reason)).Inc()
		p.logger.Info("Message not understood",
			zap.String("sender", logging.SanitizePhone(sender)),
			zap.String("body", logging.SanitizeBody(text)),
			zap.String("reason", string(failure.Reason)))
		return engine.FormatFailure(failure), string(failure.Reason)
	}

	metrics.CommandsParsed.WithLabelValues(string(cmd.Intent), string(cmd.Confidence)).Inc()

	start := time.Now()
	result, err := p.commands.Execute(ctx, cmd, today)
	metrics.CommandDuration.WithLabelValues(string(cmd.Intent)).Observe(time.Since(start).Seconds())

	if err != nil {
		p.logger.Error("Command execution failed",
			zap.String("intent", string(cmd.Intent)),
			zap.String("sender", logging.SanitizePhone(sender)),
			zap.Error(err))
		return executionErrorReply(err), string(cmd.Intent)
	}

	p.logger.Info("Command executed",
		zap.String("intent", string(cmd.Intent)),
		zap.String("confidence", string(cmd.Confidence)),
		zap.String("sender", logging.SanitizePhone(sender)))
	return engine.Format(cmd, result), string(cmd.Intent)
}

func executionErrorReply(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrDuplicateTag):
		return "That tag is already in use. Pick a different tag."
	case errors.Is(err, apperrors.ErrNotFound):
		return "Couldn't find that animal. Check the tag and try again."
	default:
		return "Something went wrong recording that. Try again, or text 'help'."
	}
}

// dateOnly truncates a timestamp to midnight UTC so relative dates in
// messages resolve against the calendar day, not the instant.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
