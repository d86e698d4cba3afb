package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"health-assistant-agent/internal/agent"
	"health-assistant-agent/internal/config"
	"health-assistant-agent/internal/consultation"
	"health-assistant-agent/internal/patient"
	"health-assistant-agent/internal/platform/logger"
	"health-assistant-agent/internal/report"
)

func main() {
	// 1. Configuration
	var cfg *config.Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("Could not load config %s: %v", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadFromEnv()
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer logg.Sync()

	// 2. Patient store
	store, err := openStore(cfg, logg)
	if err != nil {
		logg.Fatal("could not open patient store", "driver", cfg.Storage.Driver, "error", err)
	}
	defer store.Close()

	// 3. Services
	reports := report.NewGenerator(cfg.Reports.Dir)

	var session consultation.SessionClient
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		session = agent.NewSession(apiKey, cfg.Session.Model)
	} else {
		logg.Warn("OPENAI_API_KEY is not set; replying with raw instructions")
	}

	svc := consultation.NewService(store, reports, session, logg)
	handler := consultation.NewHandler(svc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	}))

	r.Route("/api", func(r chi.Router) {
		consultation.RegisterRoutes(r, handler)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logg.Info("server starting", "addr", addr, "storage", cfg.Storage.Driver, "reports_dir", cfg.Reports.Dir)
	if err := http.ListenAndServe(addr, r); err != nil {
		logg.Fatal("server stopped", "error", err)
	}
}

func openStore(cfg *config.Config, logg *logger.Logger) (patient.Store, error) {
	if cfg.Storage.Driver != "postgres" {
		return patient.NewSQLiteStore(cfg.Storage.Path)
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.Storage.URL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		logg.Info("waiting for database", "attempt", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return patient.NewPostgresStore(db)
}
