package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hazmerico/internal/domain"
)

// Admin authorization happens in middleware; by the time these handlers
// run the caller has already presented a valid credential.

type decisionRequest struct {
	ID any `json:"id"`
}

// AdminPending lists the claims awaiting a decision, oldest first.
func (a *App) AdminPending(w http.ResponseWriter, r *http.Request) {
	pending, err := a.Ledger.Pending(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("list pending claims")
		a.error(w, http.StatusInternalServerError, "error interno")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"pending": pending})
}

// AdminApprove turns a pending claim into a contributor and moves the
// aggregates.
func (a *App) AdminApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := a.decisionID(w, r)
	if !ok {
		return
	}
	total, price, err := a.Ledger.Approve(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "no encontrado")
		return
	}
	if err != nil {
		a.Log.Error().Err(err).Str("claim_id", id).Msg("approve claim")
		a.error(w, http.StatusInternalServerError, "error interno")
		return
	}
	a.Log.Info().Str("claim_id", id).Float64("total", total).Float64("price", price).Msg("claim approved")
	a.json(w, http.StatusOK, map[string]any{"ok": true, "total": total, "price": price})
}

// AdminReject discards a pending claim.
func (a *App) AdminReject(w http.ResponseWriter, r *http.Request) {
	id, ok := a.decisionID(w, r)
	if !ok {
		return
	}
	err := a.Ledger.Reject(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "no encontrado")
		return
	}
	if err != nil {
		a.Log.Error().Err(err).Str("claim_id", id).Msg("reject claim")
		a.error(w, http.StatusInternalServerError, "error interno")
		return
	}
	a.Log.Info().Str("claim_id", id).Msg("claim rejected")
	a.json(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *App) decisionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "cuerpo inválido")
		return "", false
	}
	id, ok := req.ID.(string)
	if !ok || id == "" {
		a.error(w, http.StatusBadRequest, "id inválido")
		return "", false
	}
	return id, true
}
