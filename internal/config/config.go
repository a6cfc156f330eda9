package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ScenarioName string        // "books" (deployed gateway) or "books-local"
	TargetURL    string        // overrides the scenario's URL; checks stay as authored
	VUs          int           // virtual users running the iteration in parallel
	Duration     time.Duration // wall-clock bound; 0 means iteration-bound only
	Iterations   int           // per-VU iteration budget; 0 means duration-bound only
	Pause        time.Duration // pause at the end of each iteration
	HTTPTimeout  time.Duration // per-request client timeout

	APIAddr     string // control API bind address; empty disables the API
	LogDir      string // logs directory
	Debug       bool   // verbose per-iteration logging
	ResultsDB   string // sqlite file for run history; empty means in-memory only
	LatencyFile string // optional latency distribution output file

	SlackWebhook  string
	PublicAPIKeys []string
	AdminAPIKeys  []string
	PublicRPM     int
	PublicBurst   int
}

func FromEnv() Config {
	cfg := Config{
		ScenarioName:  envStr("SCENARIO", "books"),
		TargetURL:     os.Getenv("TARGET_URL"),
		VUs:           envInt("VUS", 1),
		Duration:      envMS("DURATION_MS", 0),
		Iterations:    envInt("ITERATIONS", 0),
		Pause:         envMS("PAUSE_MS", 1000),
		HTTPTimeout:   envMS("HTTP_TIMEOUT_MS", 10000),
		APIAddr:       os.Getenv("API_ADDR"),
		LogDir:        envStr("LOG_DIR", "logs"),
		Debug:         os.Getenv("LOG_DEBUG") == "1",
		ResultsDB:     os.Getenv("RESULTS_DB"),
		LatencyFile:   os.Getenv("LATENCY_FILE"),
		SlackWebhook:  os.Getenv("SLACK_WEBHOOK"),
		PublicAPIKeys: splitKeys(os.Getenv("PUBLIC_API_KEYS")),
		AdminAPIKeys:  splitKeys(os.Getenv("ADMIN_API_KEYS")),
		PublicRPM:     envInt("PUBLIC_RPM", 120),
		PublicBurst:   envInt("PUBLIC_BURST", 60),
	}

	// With neither bound set a run would never end; default to a single
	// iteration per VU so a bare invocation behaves like one scripted pass.
	if cfg.Duration == 0 && cfg.Iterations == 0 {
		cfg.Iterations = 1
	}
	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envMS(key string, defMS int) time.Duration {
	ms := defMS
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			ms = n
		}
	}
	return time.Duration(ms) * time.Millisecond
}

func splitKeys(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
