package main

import (
	"os"
	"strconv"
	"time"
)

// Config collects everything the server reads from the environment.
type Config struct {
	Port string

	// Catalog and deadline schedule
	CatalogPath  string // optional YAML catalog; empty means built-in
	StartDelay   time.Duration
	SlotGap      time.Duration
	ImageBaseURL string

	// Fan-out queue depth for the websocket broadcast loop
	BroadcastBuffer int

	// Optional NATS mirroring of accepted bids
	NATSURL     string
	NATSSubject string
}

func loadConfig() Config {
	return Config{
		Port:         getEnv("PORT", "4000"),
		CatalogPath:  getEnv("CATALOG_PATH", ""),
		StartDelay:   getEnvAsDuration("AUCTION_START_DELAY", 10*time.Second),
		SlotGap:      getEnvAsDuration("SLOT_GAP", 45*time.Second),
		ImageBaseURL: getEnv("IMAGE_BASE_URL", "/images"),

		BroadcastBuffer: getEnvAsInt("BROADCAST_BUFFER", 1000),

		NATSURL:     getEnv("NATS_URL", ""),
		NATSSubject: getEnv("NATS_SUBJECT_PREFIX", "auction.bids"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
