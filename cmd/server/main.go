package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"turbine_optimizer/internal/optimize"
	"turbine_optimizer/internal/store"
	"turbine_optimizer/internal/ws"
)

func main() {
	// .env is optional; flags and built-in defaults cover everything.
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("TURBINE_ADDR", ":8080"), "listen address")
	frontendDir := flag.String("frontend-dir", envOr("TURBINE_FRONTEND_DIR", "frontend/build"), "directory containing frontend build")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	})))

	defaults := defaultsFromEnv()
	log.Printf("Analysis defaults: threshold %.1f m/s, yaw ±%.0f°, pitch ±%.0f°",
		defaults.WindSpeedThresholdMS, defaults.YawAngleRangeDeg, defaults.PitchAngleRangeDeg)

	hub := ws.NewHub()
	datasets := store.New()
	handler := ws.NewHandler(hub, datasets, defaults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	// Serve frontend static files
	if _, err := os.Stat(*frontendDir); err == nil {
		log.Printf("Serving frontend from %s", *frontendDir)
		mux.Handle("/", http.FileServer(http.Dir(*frontendDir)))
	}

	log.Printf("Starting server on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}

// defaultsFromEnv builds the analysis defaults handed to clients that omit
// parameters, overridable per deployment via the environment.
func defaultsFromEnv() optimize.Config {
	cfg := optimize.DefaultConfig()
	cfg.WindSpeedThresholdMS = envFloatOr("TURBINE_WIND_SPEED_THRESHOLD", cfg.WindSpeedThresholdMS)
	cfg.YawAngleRangeDeg = envFloatOr("TURBINE_YAW_RANGE", cfg.YawAngleRangeDeg)
	cfg.PitchAngleRangeDeg = envFloatOr("TURBINE_PITCH_RANGE", cfg.PitchAngleRangeDeg)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return f
}
