// check_low_stock evalúa todos los ítems activos y crea las alertas de saldo bajo que falten.
// Es el contrato del job periódico: el planificador externo (cron, k8s CronJob) solo lo invoca.
//
// Uso: go run ./cmd/check_low_stock [--timeout 2m]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	timeout := pflag.Duration("timeout", 2*time.Minute, "tiempo máximo del barrido")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("abrir almacenamiento")
		os.Exit(1)
	}
	defer storage.Close()

	services := bootstrap.NewServices(storage, cfg.Ledger, bootstrap.NewNotifier(cfg.SMTP, log), log)
	res, err := services.Alerts.SweepActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("barrido de alertas")
		storage.Close()
		os.Exit(1)
	}

	log.Info().
		Int("evaluated", res.Evaluated).
		Int("created", res.Created).
		Int("errors", len(res.Errors)).
		Msg("revisión completada")
	fmt.Printf("Revisión completada. Ítems evaluados: %d. Alertas creadas: %d\n", res.Evaluated, res.Created)
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		storage.Close()
		os.Exit(2)
	}
}
