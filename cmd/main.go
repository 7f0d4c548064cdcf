package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"loja-backend/internal/catalog"
	"loja-backend/internal/config"
	"loja-backend/internal/kafka"
	"loja-backend/internal/logger"
	"loja-backend/internal/payment"
	"loja-backend/internal/server"
	"loja-backend/internal/sheets"

	"github.com/urfave/cli/v2"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "1.0.0-go"

func main() {
	app := &cli.App{
		Name:    "loja-backend",
		Usage:   "Storefront backend: product catalog from Google Sheets and Mercado Pago checkout",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file (ignored when missing)",
				Value: ".env",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides PORT)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (overrides LOG_LEVEL)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Initialize configuration
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if c.IsSet("port") {
		cfg.AppPort = c.Int("port")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	clog, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := clog.Close(); err != nil {
			log.Printf("failed to close logger: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := build(cfg, clog)
	if err != nil {
		clog.Errorf("Startup failed: %v", err)
		return err
	}
	defer cleanup()

	clog.Infof("Starting loja-backend %s on port %d", Version, cfg.AppPort)
	if err := srv.Run(ctx, fmt.Sprintf(":%d", cfg.AppPort)); err != nil {
		clog.Errorf("Server stopped with error: %v", err)
		return err
	}
	clog.Infof("Server stopped")
	return nil
}

// build wires the external clients into the HTTP server.
func build(cfg *config.Config, clog logger.Logger) (*server.Server, func(), error) {
	cleanup := func() {}

	// Spreadsheet tokens are fetched lazily per request, so the client lives
	// for the whole process rather than the signal context.
	sheetClient, err := sheets.NewClient(context.Background(), sheets.Credentials{
		Email:      cfg.Google.ServiceAccountEmail,
		PrivateKey: cfg.Google.PrivateKey,
	}, cfg.Google.ProductsSheetID, clog)
	if err != nil {
		return nil, cleanup, err
	}

	gateway, err := payment.NewMercadoPago(cfg.MercadoPago.AccessToken, payment.BackURLs{
		Success: cfg.URLs.Success,
		Failure: cfg.URLs.Failure,
		Pending: cfg.URLs.Pending,
	}, clog)
	if err != nil {
		return nil, cleanup, err
	}

	opts := server.Options{
		Catalog:       catalog.New(sheetClient, clog),
		Payments:      gateway,
		WebhookSecret: cfg.MercadoPago.WebhookSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       Version,
		Logger:        clog,
	}

	// Set up the optional Kafka publisher for payment notifications
	if brokers := cfg.Kafka.Brokers(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers, cfg.Kafka.Topic, clog)
		if err != nil {
			return nil, cleanup, err
		}
		opts.Notifier = producer
		cleanup = func() {
			if err := producer.Close(); err != nil {
				clog.Errorf("Failed to close Kafka producer: %v", err)
			}
		}
	} else {
		clog.Infof("KAFKA_HOST not set, payment notifications are only logged")
	}

	return server.New(opts), cleanup, nil
}
