package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"github.com/pawclinic/vet-api/internal/email"
	"github.com/pawclinic/vet-api/internal/model"
	"github.com/pawclinic/vet-api/internal/repository/postgres"
	reminderService "github.com/pawclinic/vet-api/internal/service/reminder"
	"github.com/pawclinic/vet-api/pkg/logger"
	"github.com/pawclinic/vet-api/pkg/messaging"
	redisSink "github.com/pawclinic/vet-api/pkg/messaging/redis"
	"github.com/pawclinic/vet-api/pkg/metrics"
)

type workerConfig struct {
	ScanInterval time.Duration `envconfig:"SCAN_INTERVAL" default:"15m"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"reminders@pawclinic.example"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("VETWORKER", &cfg); err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Service: "vet-worker"})

	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var sink messaging.Sink = messaging.NoopSink{}
	if cfg.RedisURL != "" {
		sink, err = redisSink.NewSink(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}
	defer sink.Close()

	var sender email.Sender
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	m := metrics.New("vet_worker")
	svc := reminderService.NewService(reminderRepo, appointmentRepo, visitRepo, patientRepo, sink, m, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", cfg.ScanInterval).Msg("starting reminder worker")

	runScan := func(now time.Time) {
		created, err := svc.Generate(ctx, now)
		if err != nil {
			log.Error().Err(err).Msg("reminder scan failed")
			return
		}
		log.Info().Int("created", len(created)).Msg("reminder scan complete")

		if sender == nil {
			return
		}
		for _, r := range created {
			if err := deliver(ctx, clientRepo, sender, r); err != nil {
				log.Error().Err(err).Str("reminder_id", r.ID.String()).Msg("failed to deliver reminder")
			}
		}
	}

	runScan(time.Now().UTC())

	for {
		select {
		case <-quit:
			log.Info().Msg("stopping reminder worker")
			return
		case t := <-ticker.C:
			runScan(t.UTC())
		}
	}
}

type clientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
}

func deliver(ctx context.Context, clients clientGetter, sender email.Sender, r *model.Reminder) error {
	client, err := clients.Get(ctx, r.ClientID)
	if err != nil {
		return err
	}
	if client.Email == "" {
		return nil
	}
	return sender.Send(client.Email, subjectFor(r.Type), r.Message)
}

func subjectFor(t model.ReminderType) string {
	switch t {
	case model.ReminderUpcomingAppointment:
		return "Upcoming appointment reminder"
	case model.ReminderUnconfirmedAppointment:
		return "Please confirm your appointment"
	case model.ReminderVaccinationDue:
		return "Vaccination due"
	case model.ReminderCheckupOverdue:
		return "Time for a checkup"
	default:
		return "Reminder from your vet clinic"
	}
}
