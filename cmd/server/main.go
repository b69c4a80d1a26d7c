package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/customer-portal/auth"
	"github.com/diewo77/customer-portal/internal/client"
	"github.com/diewo77/customer-portal/internal/config"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	// Load configuration from environment
	cfg := config.Load()
	if cfg.Session.Secret == "" {
		log.Println("SESSION_SECRET not set, using development secret")
	}

	api := client.New(cfg.API.BaseURL)
	store := auth.NewStore(cfg.Session.Secret)
	appHandler := NewApp(api, store)
	go sweepSessions(store, time.Duration(cfg.Session.IdleMinutes)*time.Minute)

	// Create server with config timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(withRecovery(appHandler)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Portal starting on port %s (api=%s dev=%v)", cfg.Server.Port, api.BaseURL(), cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// sweepSessions periodically forgets idle sessions.
func sweepSessions(store *auth.Store, idle time.Duration) {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for range t.C {
		if n := store.Sweep(idle); n > 0 {
			log.Printf("swept %d idle sessions", n)
		}
	}
}

// withLogging adds request logging middleware. Each request is tagged with an
// X-Request-ID, reusing the caller's when present.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s %s", id, r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecovery turns a handler panic into a 500.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				http.Error(w, fmt.Sprintf("%d internal error", http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
