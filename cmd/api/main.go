package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/smartclinic/booking-api/internal/cache"
	"github.com/smartclinic/booking-api/internal/config"
	"github.com/smartclinic/booking-api/internal/email"
	"github.com/smartclinic/booking-api/internal/handler"
	appointmentHandler "github.com/smartclinic/booking-api/internal/handler/appointment"
	authHandler "github.com/smartclinic/booking-api/internal/handler/auth"
	doctorHandler "github.com/smartclinic/booking-api/internal/handler/doctor"
	patientHandler "github.com/smartclinic/booking-api/internal/handler/patient"
	prescriptionHandler "github.com/smartclinic/booking-api/internal/handler/prescription"
	"github.com/smartclinic/booking-api/internal/middleware"
	"github.com/smartclinic/booking-api/internal/repository/postgres"
	"github.com/smartclinic/booking-api/internal/router"
	appointmentService "github.com/smartclinic/booking-api/internal/service/appointment"
	authService "github.com/smartclinic/booking-api/internal/service/auth"
	"github.com/smartclinic/booking-api/internal/service/authz"
	doctorService "github.com/smartclinic/booking-api/internal/service/doctor"
	patientService "github.com/smartclinic/booking-api/internal/service/patient"
	prescriptionService "github.com/smartclinic/booking-api/internal/service/prescription"
	"github.com/smartclinic/booking-api/internal/service/schedule"
	"github.com/smartclinic/booking-api/pkg/logger"
	"github.com/smartclinic/booking-api/pkg/metrics"
	"github.com/smartclinic/booking-api/pkg/security"
	"github.com/smartclinic/booking-api/pkg/token"
)

const bcryptCost = 12

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	adminRepo := postgres.NewAdminRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)

	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.Validity)

	var availCache cache.AvailabilityCache = cache.NoopCache{}
	if cfg.Redis.Enabled {
		availCache, err = cache.NewRedisAvailabilityCache(cfg.Redis.URL, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
	}

	var notifier email.Notifier = email.Noop{}
	if cfg.SMTP.Enabled {
		notifier = email.NewSMTPNotifier(cfg.SMTP)
	}

	m := metrics.NewMetrics("booking_api")
	hasher := security.NewBcryptHasher(bcryptCost)

	gate := authz.NewService(tokens, adminRepo, doctorRepo, patientRepo)
	scheduleSvc := schedule.NewService(appointmentRepo, doctorRepo, cfg.Schedule, availCache)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo,
		patientRepo, scheduleSvc, notifier, m, log)
	authSvc := authService.NewService(tokens, adminRepo, doctorRepo, patientRepo, hasher)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo, hasher, log)
	patientSvc := patientService.NewService(patientRepo, hasher, log)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, appointmentRepo)

	authMW := middleware.NewAuthMiddleware(gate)

	h := handler.NewHandler()
	r := router.NewRouter(
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORS:      middleware.DefaultCORSConfig(),
		},
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc, scheduleSvc, authMW),
		doctorHandler.NewHandler(doctorSvc, authMW),
		patientHandler.NewHandler(patientSvc, authMW),
		prescriptionHandler.NewHandler(prescriptionSvc, authMW),
	)
	r.Setup(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(fmt.Sprintf("listening on :%d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
