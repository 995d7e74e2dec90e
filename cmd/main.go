package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/supplyhub/storefront-api/internal/checkout"
	"github.com/supplyhub/storefront-api/internal/events"
	"github.com/supplyhub/storefront-api/internal/router"
	"github.com/supplyhub/storefront-api/pkg/ai"
	"github.com/supplyhub/storefront-api/pkg/config"
	"github.com/supplyhub/storefront-api/pkg/email"
	"github.com/supplyhub/storefront-api/pkg/mongo"
	"github.com/supplyhub/storefront-api/pkg/payment"
	"github.com/supplyhub/storefront-api/pkg/redis"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	mongo.InitMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	mongo.EnsureIndexesOnStartup()
	redis.Init(cfg.RedisAddress, cfg.RedisPassword)
	ai.InitializeAIService()

	var paymentProvider payment.Provider
	if stripeProvider, err := payment.NewStripeProvider(cfg.StripeSecretKey); err != nil {
		logger.Warn("Stripe disabled, card checkout will be rejected", zap.Error(err))
	} else {
		paymentProvider = stripeProvider
	}

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	orderStore := mongo.NewOrderStore()
	checkoutService := checkout.NewService(orderStore, paymentProvider, producer, logger)
	mailer := email.NewLogMailer(logger)

	router.InitEngine(cfg, logger, checkoutService, orderStore, producer, mailer)
	router.InitializeRoutes()

	logger.Info("Server is running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	if err := router.Router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
