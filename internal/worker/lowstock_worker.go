package worker

// lowstock_worker.go
// Processes low-stock jobs enqueued after a sale drops a product to or below
// its minimum stock, and mails a restock summary to the configured recipient.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type LowStockWorker struct {
	products   repository.ProductRepository
	dispatcher *Dispatcher
	alertEmail string
}

func NewLowStockWorker(products repository.ProductRepository, dispatcher *Dispatcher, alertEmail string) *LowStockWorker {
	return &LowStockWorker{products: products, dispatcher: dispatcher, alertEmail: alertEmail}
}

// Process re-checks the flagged products against current stock and enqueues a
// single alert email for those still at or below their minimum. Stock may
// have been restored between enqueue and processing, so the flag is advisory.
func (w *LowStockWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload LowStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: invalid payload")
		return
	}
	if w.alertEmail == "" {
		log.Debug().Msg("lowstock_worker: no alert recipient configured — skipping")
		return
	}

	var lines []string
	for _, idStr := range payload.ProductIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		p, err := w.products.FindByID(ctx, id)
		if err != nil {
			continue
		}
		if p.Stock <= p.MinStock {
			lines = append(lines, fmt.Sprintf("%s (%s) — stock %d, minimum %d", p.Name, p.Brand, p.Stock, p.MinStock))
		}
	}
	if len(lines) == 0 {
		return
	}

	body := "The following parts are at or below their minimum stock:\n\n" + strings.Join(lines, "\n")
	if err := w.dispatcher.EnqueueEmail(ctx, EmailPayload{
		To:      w.alertEmail,
		Subject: "Low stock alert",
		Body:    body,
	}); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: failed to enqueue alert email")
	}
}
