package domain

// Wire field names are Spanish because the deployed clients already speak
// that dialect; changing them would break every existing consumer.

const (
	// MaxNameLen bounds the display name of a claimant, in runes.
	MaxNameLen = 40
	// MaxProofURLLen bounds the payment-proof URL, in runes.
	MaxProofURLLen = 200
	// MaxContributors caps the public board; older entries are evicted.
	MaxContributors = 200
	// PriceStep is added to the price on every approval.
	PriceStep = 0.01
	// MinClaimAmount is the floor below which a claim is rejected outright.
	MinClaimAmount = 0.50
)

// Contributor is one approved contribution as shown on the public board.
// Nombre is present only when the claimant consented to being named;
// otherwise the entry renders as anonymous. Immutable once created.
type Contributor struct {
	Nombre  *string `json:"nombre,omitempty"`
	Importe float64 `json:"importe"`
	TS      int64   `json:"ts"`
}

// PendingClaim is an unverified payment claim waiting for an admin
// decision. It is created on submission and removed from the queue on
// approval or rejection, never edited in place.
type PendingClaim struct {
	ID          string  `json:"id"`
	Nombre      *string `json:"nombre,omitempty"`
	Importe     float64 `json:"importe"`
	PruebaURL   *string `json:"pruebaURL,omitempty"`
	ConsentName bool    `json:"consentName"`
	TS          int64   `json:"ts"`
}
