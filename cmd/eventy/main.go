package main

import (
	"github.com/julienschmidt/httprouter"

	authhandler "eventy/internal/auth/handler"
	authrepository "eventy/internal/auth/repository"
	authservice "eventy/internal/auth/service"
	"eventy/internal/auth/token"
	authvalidator "eventy/internal/auth/validator"
	bookinghandler "eventy/internal/bookings/handler"
	bookingrepository "eventy/internal/bookings/repository"
	bookingservice "eventy/internal/bookings/service"
	eventhandler "eventy/internal/events/handler"
	eventrepository "eventy/internal/events/repository"
	eventservice "eventy/internal/events/service"
	eventvalidator "eventy/internal/events/validator"
	uploadhandler "eventy/internal/uploads/handler"
	"eventy/pkg/app"
	"eventy/pkg/config"
	"eventy/pkg/contracts"
	"eventy/pkg/kafka"
	"eventy/pkg/middleware"
)

const ServiceName = "eventy"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Eventy service")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(buildHandlers(cfg, serverApp))
	serverApp.Run()
}

func buildHandlers(cfg *config.Config, serverApp *app.Application) contracts.Handler {
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticated := middleware.Authenticated(tokens, cfg.Log)
	adminOnly := middleware.AdminOnly(tokens, cfg.Log)

	userRepo := authrepository.NewMongoUserRepository(cfg)
	authSvc := authservice.NewAuthService(
		userRepo,
		tokens,
		authvalidator.NewCredentialsValidator(cfg.Log),
		cfg,
	)

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)

	eventRepo := eventrepository.NewMongoEventRepository(cfg)
	eventSvc := eventservice.NewEventService(
		eventRepo,
		bookingRepo,
		eventvalidator.NewEventValidator(cfg.Log),
		cfg,
	)

	var publisher bookingservice.EventPublisher
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		publisher = producer
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.KafkaBookingTopic)
	}

	bookingSvc := bookingservice.NewBookingService(bookingRepo, eventSvc, publisher, cfg)

	authHandler := authhandler.NewAuthHandler(authSvc, cfg.Log)
	eventHandler := eventhandler.NewEventHandler(eventSvc, cfg.Log)
	bookingHandler := bookinghandler.NewBookingHandler(bookingSvc, cfg.Log)
	uploadHandler := uploadhandler.NewUploadHandler(cfg, cfg.Log)

	cfg.Log.Info("Eventy services initialized", "database", cfg.MongoDatabaseName)

	return contracts.HandlerFunc(func(router *httprouter.Router) {
		authHandler.RegisterRoutes(router, authenticated)
		eventHandler.RegisterRoutes(router, adminOnly)
		bookingHandler.RegisterRoutes(router, authenticated, adminOnly)
		uploadHandler.RegisterRoutes(router, adminOnly)
	})
}
