package worker

// email_worker.go
// Processes email jobs from QueueEmail via SMTP.

import (
	"context"
	"encoding/json"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends a plain-text email.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: empty recipient — skipping")
		return
	}

	if err := w.mailer.Send(payload.To, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", payload.To).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.To).Msg("email_worker: alert sent")
}
