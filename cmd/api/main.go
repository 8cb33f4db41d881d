package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agendaflow/agenda-api/internal/config"
	"github.com/agendaflow/agenda-api/internal/email"
	appointmentHandler "github.com/agendaflow/agenda-api/internal/handler/appointment"
	authHandler "github.com/agendaflow/agenda-api/internal/handler/auth"
	healthHandler "github.com/agendaflow/agenda-api/internal/handler/health"
	patientHandler "github.com/agendaflow/agenda-api/internal/handler/patient"
	profileHandler "github.com/agendaflow/agenda-api/internal/handler/profile"
	publicHandler "github.com/agendaflow/agenda-api/internal/handler/public"
	workingHoursHandler "github.com/agendaflow/agenda-api/internal/handler/workinghours"
	"github.com/agendaflow/agenda-api/internal/middleware"
	"github.com/agendaflow/agenda-api/internal/repository/postgres"
	"github.com/agendaflow/agenda-api/internal/router"
	appointmentService "github.com/agendaflow/agenda-api/internal/service/appointment"
	authService "github.com/agendaflow/agenda-api/internal/service/auth"
	bookingService "github.com/agendaflow/agenda-api/internal/service/booking"
	eventService "github.com/agendaflow/agenda-api/internal/service/event"
	patientService "github.com/agendaflow/agenda-api/internal/service/patient"
	profileService "github.com/agendaflow/agenda-api/internal/service/profile"
	workingHoursService "github.com/agendaflow/agenda-api/internal/service/workinghours"
	"github.com/agendaflow/agenda-api/pkg/auth"
	"github.com/agendaflow/agenda-api/pkg/logger"
	"github.com/agendaflow/agenda-api/pkg/metrics"
	"github.com/agendaflow/agenda-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	hoursRepo := postgres.NewWorkingHoursRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	m := metrics.NewMetrics("agenda", "api")
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewService(cfg.SMTP, l)

	// Services
	eventSvc := eventService.NewService(outboxRepo, l)
	appointmentSvc := appointmentService.NewService(appointmentRepo, hoursRepo, eventSvc, m, l)
	bookingSvc := bookingService.NewService(profileRepo, appointmentSvc, emailSvc, l)
	patientSvc := patientService.NewService(patientRepo, l)
	profileSvc := profileService.NewService(profileRepo, l)
	hoursSvc := workingHoursService.NewService(hoursRepo, l)
	authSvc := authService.NewService(userRepo, profileRepo, hasher, jwtSvc, l)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		patientHandler.NewHandler(patientSvc),
		profileHandler.NewHandler(profileSvc),
		workingHoursHandler.NewHandler(hoursSvc),
		publicHandler.NewHandler(bookingSvc),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     corsConfig(cfg),
			MetricsPrefix:  "agenda_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return c
}
