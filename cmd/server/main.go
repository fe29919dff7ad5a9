package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/server"
	"expense-tracker-api/internal/storage/postgres"
)

// connectRetryInterval is how long to wait between storage connection attempts.
const connectRetryInterval = 5 * time.Second

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store := connectWithRetry(context.Background(), cfg.DatabaseURL)
	defer store.Close()

	srv := server.New(cfg, store)

	go func() {
		log.Printf("expense tracker API listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// connectWithRetry keeps trying the database at a fixed interval. The
// process never serves traffic without a working storage connection.
func connectWithRetry(ctx context.Context, databaseURL string) *postgres.Store {
	for attempt := 1; ; attempt++ {
		store, err := postgres.NewStore(ctx, databaseURL)
		if err == nil {
			if attempt > 1 {
				log.Printf("database connected after %d attempts", attempt)
			}
			return store
		}
		log.Printf("database connection attempt %d failed: %v (retrying in %s)", attempt, err, connectRetryInterval)
		time.Sleep(connectRetryInterval)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
