// escaner invoca periódicamente el escaneo síncrono de alertas (stock bajo y
// lotes por caducar). El núcleo del libro no tiene scheduler propio: este
// binario es el caller externo que dispara la pasada según ALERTAS_CRON.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/almacen-core/internal/application/alertas"
	"github.com/jhoicas/almacen-core/internal/application/inventario"
	"github.com/jhoicas/almacen-core/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-core/pkg/config"
	"github.com/jhoicas/almacen-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("cron", cfg.Alertas.CronExpr).
		Int("ventana_dias", cfg.Alertas.VentanaDias).
		Msg("iniciando escáner de alertas")

	if len(cfg.Alertas.Destinatarios) == 0 {
		log.Fatal().Msg("ALERTAS_DESTINATARIOS vacío: no hay a quién notificar")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	materialRepo := postgres.NewMaterialRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	alertaRepo := postgres.NewAlertaRepository(pool)

	consultasUC := inventario.NewConsultasUseCase(materialRepo, loteRepo, nil)
	alertasUC := alertas.NewUseCase(alertaRepo, alertas.Opciones{Dedup: cfg.Alertas.Dedup}, nil)
	escaneoUC := alertas.NewEscaneoUseCase(consultasUC, alertasUC, materialRepo, cfg.Alertas.VentanaDias, nil)

	ejecutar := func() {
		resumen, err := escaneoUC.Ejecutar(ctx, cfg.Alertas.Destinatarios)
		if err != nil {
			log.Error().Err(err).Msg("escaneo de alertas")
			return
		}
		log.Info().
			Int("bajo_stock", resumen.MaterialesBajoStock).
			Int("por_caducar", resumen.LotesPorCaducar).
			Int("alertas_creadas", resumen.AlertasCreadas).
			Msg("escaneo completado")
	}

	// Una pasada inmediata al arrancar y después según el cron.
	ejecutar()

	c := cron.New()
	if _, err := c.AddFunc(cfg.Alertas.CronExpr, ejecutar); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Alertas.CronExpr).Msg("expresión cron inválida")
	}
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando escáner")
	<-c.Stop().Done()
}
