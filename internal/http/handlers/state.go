package handlers

import "net/http"

// State serves the public ledger snapshot: total raised, current price
// and the contributor board.
func (a *App) State(w http.ResponseWriter, r *http.Request) {
	st, err := a.Ledger.State(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("read ledger state")
		a.error(w, http.StatusInternalServerError, "error interno")
		return
	}
	a.json(w, http.StatusOK, st)
}
