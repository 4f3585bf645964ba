package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aseopro/internal/service"

	"github.com/rs/zerolog/log"
)

const alertaStockInterval = 24 * time.Hour

// StartAlertaStockCron sends a daily digest of products at or below their
// minimum stock. No email is sent on days without low-stock products.
func StartAlertaStockCron(ctx context.Context, inventario service.InventarioService, dispatcher *Dispatcher, alertEmail string) {
	if alertEmail == "" {
		log.Info().Msg("alerta_stock_cron: no alert email configured, disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(alertaStockInterval)
		defer ticker.Stop()

		log.Info().Msg("alerta_stock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_stock_cron: shutting down")
				return
			case <-ticker.C:
				runAlertaStockTick(ctx, inventario, dispatcher, alertEmail)
			}
		}
	}()
}

func runAlertaStockTick(ctx context.Context, inventario service.InventarioService, dispatcher *Dispatcher, alertEmail string) {
	alertas, err := inventario.ObtenerAlertas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alerta_stock_cron: failed to fetch alerts")
		return
	}
	if len(alertas) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Productos con stock en o por debajo del mínimo (%d):\n\n", len(alertas))
	for _, a := range alertas {
		fmt.Fprintf(&b, "- %s: actual=%d, mínimo=%d\n", a.Nombre, a.StockActual, a.StockMinimo)
	}

	err = dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		To:      alertEmail,
		Subject: fmt.Sprintf("Stock bajo: %d productos", len(alertas)),
		Body:    b.String(),
	})
	if err != nil {
		log.Error().Err(err).Msg("alerta_stock_cron: failed to enqueue digest")
	}
}
