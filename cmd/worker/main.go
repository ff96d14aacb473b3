// Package main runs the archive worker. It consumes the ledger events the API
// publishes after each commit and stores them in MongoDB.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerpay/internal/archive"
	"ledgerpay/internal/config"
	"ledgerpay/internal/events"
	"ledgerpay/internal/logger"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log := logger.New("ledgerpay-worker", cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := archive.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect mongodb")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongodb connected")

	consumer, err := events.DialConsumer(cfg.RabbitMQ, []string{"audit.#", "transaction.#"}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer consumer.Close()

	processor := archive.NewProcessor(archive.NewMongoStore(mongoClient, cfg.Mongo), 5*time.Second, log)
	if err := consumer.Run(ctx, processor.Handle); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
		return
	}
	log.Info().Msg("worker stopped")
}
