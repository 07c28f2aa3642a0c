// Command mock-target serves a stub OpenAI-compatible chat completions API
// so the probe can be run without the real bridge.
//
// Configuration:
//
//	MOCK_PORT       listen port (default: 8080)
//	MOCK_SCENARIO   ok, empty, no-choices, malformed, server-error (default: ok)
//	MOCK_RATE_LIMIT chat requests per second, 0 disables (default: 50)
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"aetherbridge/compat-probe/mockserver"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	port := getEnvOrDefault("MOCK_PORT", "8080")

	scenario, ok := mockserver.ParseScenario(os.Getenv("MOCK_SCENARIO"))
	if !ok {
		log.Fatalf("unknown MOCK_SCENARIO %q", os.Getenv("MOCK_SCENARIO"))
	}

	limit, err := strconv.ParseFloat(getEnvOrDefault("MOCK_RATE_LIMIT", "50"), 64)
	if err != nil {
		log.Fatalf("invalid MOCK_RATE_LIMIT: %v", err)
	}

	handler := mockserver.New(mockserver.Options{
		Scenario:  scenario,
		RateLimit: rate.Limit(limit),
		Burst:     20,
	})

	// Configure server
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Mock target is running on http://localhost:%s/v1 (scenario: %s)", port, scenario)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("mock target failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Mock target shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
