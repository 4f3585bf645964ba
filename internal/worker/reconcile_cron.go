package worker

// reconcile_cron.go
// Background goroutine that periodically compares the stock ledger against the
// cached stock_actual of every product. Drift is reported by email but never
// auto-corrected: correction is an explicit operator action.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aseopro/internal/service"

	"github.com/rs/zerolog/log"
)

// ReconcileCronConfig holds the dependencies for the reconciliation goroutine.
type ReconcileCronConfig struct {
	Inventario service.InventarioService
	Dispatcher *Dispatcher
	AlertEmail string
	Interval   time.Duration
}

// StartReconcileCron launches the periodic ledger-vs-cache check. It respects
// the context for graceful shutdown.
func StartReconcileCron(ctx context.Context, cfg ReconcileCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				runReconcileTick(ctx, cfg)
			}
		}
	}()
}

func runReconcileTick(ctx context.Context, cfg ReconcileCronConfig) {
	resultado, err := cfg.Inventario.Reconciliar(ctx, false)
	if err != nil {
		log.Error().Err(err).Msg("reconcile_cron: reconciliation failed")
		return
	}
	if len(resultado.Drift) == 0 {
		log.Debug().Int("revisados", resultado.ProductosRevisados).Msg("reconcile_cron: sin drift")
		return
	}

	log.Warn().
		Int("revisados", resultado.ProductosRevisados).
		Int("drift", len(resultado.Drift)).
		Msg("reconcile_cron: drift detected")

	if cfg.Dispatcher == nil || cfg.AlertEmail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Se detectaron %d productos con stock desincronizado:\n\n", len(resultado.Drift))
	for _, d := range resultado.Drift {
		fmt.Fprintf(&b, "- %s: cache=%d, ledger=%d (diferencia %+d)\n",
			d.Nombre, d.StockCache, d.StockLedger, d.Diferencia)
	}
	b.WriteString("\nEjecute la reconciliación con corrección desde el panel de inventario.\n")

	err = cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		To:      cfg.AlertEmail,
		Subject: fmt.Sprintf("Alerta de inventario: %d productos con drift", len(resultado.Drift)),
		Body:    b.String(),
	})
	if err != nil {
		log.Error().Err(err).Msg("reconcile_cron: failed to enqueue alert email")
	}
}
