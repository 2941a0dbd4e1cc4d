package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"briscola-game/internal/database"
	"briscola-game/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// ResultReader lists stored matches.
type ResultReader interface {
	GetAll() ([]database.MatchResult, error)
	GetByID(id string) (database.MatchResult, error)
	GetByPlayer(name string) ([]database.MatchResult, error)
}

// StatsReader reads outcome counters per opponent.
type StatsReader interface {
	Summary(ctx context.Context, opponent string) (game.Tally, error)
}

// NewRouter wires the websocket endpoint, the REST API and the static client.
func NewRouter(hub *Hub, results ResultReader, stats StatsReader, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"ok": true})
		})
		r.Get("/results", func(w http.ResponseWriter, r *http.Request) {
			GetResultsHandler(results, w, r)
		})
		r.Get("/results/{id}", func(w http.ResponseWriter, r *http.Request) {
			GetResultHandler(results, w, r)
		})
		r.Get("/results/player/{name}", func(w http.ResponseWriter, r *http.Request) {
			GetResultsByPlayerHandler(results, w, r)
		})
		r.Get("/stats/{opponent}", func(w http.ResponseWriter, r *http.Request) {
			GetStatsHandler(stats, w, r)
		})
	})
	log.Println("Registered routes: /ws, /api/health, /api/results, /api/results/{id}, /api/results/player/{name}, /api/stats/{opponent}")

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

func GetResultHandler(db ResultReader, w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := db.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch match %s: %v", id, err)
		http.Error(w, "Failed to fetch match", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

func GetResultsByPlayerHandler(db ResultReader, w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByPlayer(player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No results found for player", http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch results for %s: %v", player, err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}

	writeJSON(w, results)
}

func GetResultsHandler(db ResultReader, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		log.Printf("Failed to fetch results: %v", err)
		http.Error(w, "Failed to fetch results", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []database.MatchResult{}
	}

	writeJSON(w, results)
}

func GetStatsHandler(stats StatsReader, w http.ResponseWriter, r *http.Request) {
	opponent, err := opponentName(chi.URLParam(r, "opponent"))
	if err != nil {
		http.Error(w, "Unknown opponent", http.StatusNotFound)
		return
	}

	tally, err := stats.Summary(r.Context(), opponent)
	if err != nil {
		log.Printf("Failed to read stats for %s: %v", opponent, err)
		http.Error(w, "Failed to read stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"opponent": opponent,
		"win":      tally.Win,
		"loss":     tally.Loss,
		"draw":     tally.Draw,
		"win_rate": tally.WinRate(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
