package worker

import (
	"context"
	"encoding/json"

	"aseopro/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailWorker sends operational alert emails (stock bajo, drift de inventario)
// dequeued from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: empty to address — skipping")
		return
	}

	if err := w.mailer.SendAlerta(payload.To, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", payload.To).Msg("email_worker: failed to send alert")
		return
	}
	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: alert sent")
}
