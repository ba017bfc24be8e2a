package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawclinic/vet-api/internal/config"
	"github.com/pawclinic/vet-api/internal/handler"
	appointmentHandler "github.com/pawclinic/vet-api/internal/handler/appointment"
	clientHandler "github.com/pawclinic/vet-api/internal/handler/client"
	patientHandler "github.com/pawclinic/vet-api/internal/handler/patient"
	reminderHandler "github.com/pawclinic/vet-api/internal/handler/reminder"
	vetHandler "github.com/pawclinic/vet-api/internal/handler/vet"
	visitHandler "github.com/pawclinic/vet-api/internal/handler/visit"
	"github.com/pawclinic/vet-api/internal/middleware"
	"github.com/pawclinic/vet-api/internal/repository/postgres"
	"github.com/pawclinic/vet-api/internal/router"
	appointmentService "github.com/pawclinic/vet-api/internal/service/appointment"
	directoryService "github.com/pawclinic/vet-api/internal/service/directory"
	reminderService "github.com/pawclinic/vet-api/internal/service/reminder"
	visitService "github.com/pawclinic/vet-api/internal/service/visit"
	"github.com/pawclinic/vet-api/pkg/logger"
	"github.com/pawclinic/vet-api/pkg/messaging"
	redisSink "github.com/pawclinic/vet-api/pkg/messaging/redis"
	"github.com/pawclinic/vet-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "vet-api",
	})
	zerolog.DefaultContextLogger = &log

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	vetRepo := postgres.NewVetRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	var sink messaging.Sink = messaging.NoopSink{}
	if cfg.Redis.Enabled {
		sink, err = redisSink.NewSink(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}
	defer sink.Close()

	m := metrics.New("vet_api")

	directorySvc := directoryService.NewService(clientRepo, patientRepo, vetRepo, log)
	appointmentSvc := appointmentService.NewService(appointmentRepo, directorySvc, appointmentService.Config{
		AllowEditAfterTerminal: cfg.Scheduler.AllowEditAfterTerminal,
	}, log)
	visitSvc := visitService.NewService(visitRepo, directorySvc, log)
	reminderSvc := reminderService.NewService(reminderRepo, appointmentRepo, visitRepo, patientRepo, sink, m, log)

	r := router.New(router.Config{
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORS:           middleware.DefaultCORSConfig(),
	}, m,
		handler.NewHealth(db),
		appointmentHandler.NewHandler(appointmentSvc),
		clientHandler.NewHandler(directorySvc),
		patientHandler.NewHandler(directorySvc),
		vetHandler.NewHandler(directorySvc),
		visitHandler.NewHandler(visitSvc),
		reminderHandler.NewHandler(reminderSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
