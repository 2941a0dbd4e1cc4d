package main

import (
	"context"
	"net/http"
	"time"

	"briscola-game/internal/config"
	"briscola-game/internal/database"
	"briscola-game/internal/server"
	"briscola-game/internal/stats"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.Println("Starting Briscola server...")

	db, err := database.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.DBDriver, err)
	}
	defer db.Close()

	var tracker *stats.Tracker
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		tracker, err = stats.New(ctx, cfg.RedisAddr)
		cancel()
		if err != nil {
			log.Warnf("Stats disabled: %v", err)
			tracker = nil
		} else {
			defer tracker.Close()
		}
	}

	var recorder server.Recorder
	if tracker != nil {
		recorder = tracker
	}

	if cfg.InferenceURL != "" {
		log.Printf("Learned opponents served by %s", cfg.InferenceURL)
	}
	hub := server.NewHub(db, recorder, cfg.DefaultOpponent, server.InferenceScorers(cfg.InferenceURL))
	go hub.Run()

	router := server.NewRouter(hub, db, tracker, cfg.StaticDir)

	log.Printf("Listening on :%s (default opponent %s)", cfg.Port, cfg.DefaultOpponent)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
