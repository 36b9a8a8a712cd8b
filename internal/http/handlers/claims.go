package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hazmerico/internal/domain"
	"hazmerico/internal/ledger"
)

// claimRequest mirrors the submission body loosely typed, so a wrong
// field type becomes a field-level validation error instead of a generic
// decode failure. The original API behaved the same way.
type claimRequest struct {
	Nombre      any `json:"nombre"`
	Importe     any `json:"importe"`
	PruebaURL   any `json:"pruebaURL"`
	ConsentName any `json:"consentName"`
}

// wireFieldErrors maps a rejected field to the message clients expect.
var wireFieldErrors = map[string]string{
	"importe":   "importe inválido",
	"nombre":    "nombre inválido",
	"pruebaURL": "pruebaURL inválida",
}

// ClaimCreate accepts a payment claim and queues it for admin review.
func (a *App) ClaimCreate(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}

	in, err := submitInput(req)
	if err != nil {
		a.claimError(w, err)
		return
	}
	id, err := a.Ledger.Submit(r.Context(), in)
	if err != nil {
		a.claimError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (a *App) claimError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		msg, ok := wireFieldErrors[vErr.Field]
		if !ok {
			msg = "cuerpo inválido"
		}
		a.error(w, http.StatusBadRequest, msg)
		return
	}
	a.Log.Error().Err(err).Msg("submit claim")
	a.error(w, http.StatusInternalServerError, "error interno")
}

// submitInput type-checks the loosely typed body. Value-level rules
// (amount floor, trimming, truncation) live in the ledger service.
func submitInput(req claimRequest) (ledger.SubmitInput, error) {
	var in ledger.SubmitInput

	importe, ok := req.Importe.(float64)
	if !ok {
		return in, domain.NewValidationError("importe")
	}
	in.Importe = importe

	// Falsy values pass through as "absent", matching the original API.
	if truthy(req.Nombre) {
		s, ok := req.Nombre.(string)
		if !ok {
			return in, domain.NewValidationError("nombre")
		}
		in.Nombre = &s
	}
	if truthy(req.PruebaURL) {
		s, ok := req.PruebaURL.(string)
		if !ok {
			return in, domain.NewValidationError("pruebaURL")
		}
		in.PruebaURL = &s
	}
	in.Consent = truthy(req.ConsentName)
	return in, nil
}

// truthy applies JSON-side truthiness: null, false, 0 and "" are false,
// everything else is true. Keeps consent coercion compatible with the
// original API, which accepted any JSON value there.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
