package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"hazmerico/internal/ledger"
)

// App bundles what the HTTP handlers need.
type App struct {
	Ledger *ledger.Service
	Log    zerolog.Logger
}

func NewApp(svc *ledger.Service, log zerolog.Logger) *App {
	return &App{Ledger: svc, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the wire error body. Messages are the Spanish literals the
// deployed clients match on.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// NotFound doubles as the handler for unknown paths and methods; the
// original API answered both with the same body.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusNotFound, "no encontrado")
}
