// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, the sync engine, and
// the directory simulator.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	PollInterval  time.Duration
	FlashDuration time.Duration
	PageLimit     int

	SimListLatency   time.Duration
	SimGetLatency    time.Duration
	SimMutateLatency time.Duration
	SimFailureRate   float64
	SimSeed          int64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func int64env(key string, def int64) int64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:  durenvs("SHUTDOWN_TIMEOUT", 15),
		PollInterval:     durenvms("POLL_INTERVAL_MS", 8000),
		FlashDuration:    durenvms("FLASH_DURATION_MS", 800),
		PageLimit:        atoienv("PAGE_LIMIT", 10),
		SimListLatency:   durenvms("SIM_LATENCY_MS", 600),
		SimGetLatency:    durenvms("SIM_GET_LATENCY_MS", 300),
		SimMutateLatency: durenvms("SIM_MUTATE_LATENCY_MS", 400),
		SimFailureRate:   floatenv("SIM_FAILURE_RATE", 0.05),
		SimSeed:          int64env("SIM_SEED", 0),
	}
}
