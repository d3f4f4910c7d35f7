package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/clientes-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/clientes-admin/internal/interfaces/http"
	"github.com/jhoicas/clientes-admin/pkg/config"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Kind).
		Msg("iniciando aplicación")

	policy, err := entity.ParseValidationPolicy(cfg.Admin.ValidationPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de validación")
	}
	if cfg.Store.Kind == config.StoreRemote {
		// la API no puede ser cliente de sí misma
		log.Fatal().Msg("STORE_KIND=remote no es válido para el servidor")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de clientes")
	}
	defer st.Close()

	// Exportación: JSON, YAML, XLSX y PDF; importación desde XLSX
	encoders := append(export.Encoders(), infrapdf.NewMarotoCustomerPDF(""))
	ucOpts := []usecase.CustomerOption{
		usecase.WithEncoders(encoders...),
		usecase.WithSheetReader(export.XLSXReader{}),
		usecase.WithLogger(log),
	}
	if st.Batch != nil {
		ucOpts = append(ucOpts, usecase.WithBatchCreator(st.Batch))
	}
	customerUC := usecase.NewCustomerUseCase(st.Repo, policy, ucOpts...)

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      log,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Clientes API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC: customerUC,
		AppName:    cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
