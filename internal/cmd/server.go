package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/datajunqer/bidding-app/internal/gateway"
	"github.com/datajunqer/bidding-app/internal/session"
)

func setupServer(cfg Config, gatewayService *gateway.Service, sessionHandler *session.Handler) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Register routes
	gatewayService.RegisterRoutes(mux)
	sessionHandler.RegisterRoutes(mux)

	// Add health check endpoint
	setupHealthCheck(mux)

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
