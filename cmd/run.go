package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"prizepool/config"
	"prizepool/database"
	"prizepool/domain/interfaces"
	"prizepool/httpapi"
	"prizepool/infrastructure"
	"prizepool/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the lottery service
func Run(ctx context.Context) error {
	log.Info("Starting prizepool service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event publishing. Without NATS configured the service still
	// runs, it just drops events.
	var basePublisher interfaces.EventPublisher
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		basePublisher = infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper(""))
		log.Info("NATS connection established successfully")
	} else {
		log.Warn("NATS_SERVERS not set, event publishing disabled")
		basePublisher = infrastructure.NewNoopEventPublisher()
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(basePublisher)
	})

	// Initialize HTTP server
	router := httpapi.NewRouter(uowFactory)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Infof("Service is running in %s mode...", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	if natsClient != nil {
		natsClient.Close()
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}
