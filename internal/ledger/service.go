// Package ledger implements the contribution ledger: a running donation
// total, a per-contribution price that only ever goes up, a bounded public
// board of approved contributors, and the queue of payment claims waiting
// for a manual admin decision.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hazmerico/internal/domain"
	"hazmerico/internal/store"
)

// Service owns the four persisted ledger documents. Every operation
// re-reads the documents it touches and writes them back whole, the same
// way the first deployment used its KV namespace. There is no isolation
// between concurrent callers: two simultaneous decisions on the same
// claim can both see it pending and double-apply it. With a single admin
// acting serially that risk is accepted rather than papered over with
// locking the store cannot provide.
//
// Note that the contributor board is trimmed to MaxContributors while the
// total keeps the historical sum, so the visible board need not add up to
// the total once entries have been evicted. That divergence is intended.
type Service struct {
	kv         store.KV
	priceFloor float64

	// injected so tests can pin ids and timestamps
	newID func() string
	now   func() time.Time
}

// New builds a Service over kv. priceFloor is the price reported before
// any approval has happened (and the base the first increment applies to).
func New(kv store.KV, priceFloor float64) *Service {
	return &Service{
		kv:         kv,
		priceFloor: priceFloor,
		newID:      NewID,
		now:        time.Now,
	}
}

// NewID returns a short collision-resistant claim id: the first and last
// groups of a UUIDv4.
func NewID() string {
	parts := strings.Split(uuid.NewString(), "-")
	return parts[0] + parts[4]
}

// SubmitInput carries a claim as submitted, after boundary type checks.
// Nombre and PruebaURL are nil when absent.
type SubmitInput struct {
	Nombre    *string
	Importe   float64
	PruebaURL *string
	Consent   bool
}

// State is the public snapshot of the aggregates.
type State struct {
	Total        float64              `json:"total"`
	Price        float64              `json:"price"`
	Contributors []domain.Contributor `json:"contributors"`
}

// Submit validates in and appends a new claim to the pending queue. It
// returns the generated claim id. Aggregates are untouched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	if math.IsNaN(in.Importe) || math.IsInf(in.Importe, 0) || in.Importe < domain.MinClaimAmount {
		return "", domain.NewValidationError("importe")
	}

	pending, err := s.readPending(ctx)
	if err != nil {
		return "", err
	}

	claim := domain.PendingClaim{
		ID:          s.newID(),
		Importe:     domain.Round2(in.Importe),
		ConsentName: in.Consent,
		TS:          s.now().UnixMilli(),
	}
	if in.Nombre != nil {
		claim.Nombre = domain.NormalizeName(*in.Nombre)
	}
	if in.PruebaURL != nil {
		claim.PruebaURL = domain.NormalizeProofURL(*in.PruebaURL)
	}

	pending = append(pending, claim)
	if err := s.writeJSON(ctx, store.KeyPending, pending); err != nil {
		return "", err
	}
	return claim.ID, nil
}

// Pending returns the claims awaiting a decision, oldest first.
func (s *Service) Pending(ctx context.Context) ([]domain.PendingClaim, error) {
	return s.readPending(ctx)
}

// Approve removes the claim from the queue, adds its amount to the total,
// bumps the price by one step and appends the claimant to the contributor
// board. Returns the post-update total and price. domain.ErrNotFound when
// no pending claim has that id; approving or rejecting the same id twice
// therefore fails the second time.
func (s *Service) Approve(ctx context.Context, id string) (total, price float64, err error) {
	pending, err := s.readPending(ctx)
	if err != nil {
		return 0, 0, err
	}
	idx := indexOf(pending, id)
	if idx < 0 {
		return 0, 0, domain.ErrNotFound
	}
	claim := pending[idx]
	pending = append(pending[:idx], pending[idx+1:]...)
	if err := s.writeJSON(ctx, store.KeyPending, pending); err != nil {
		return 0, 0, err
	}

	total, err = s.readAmount(ctx, store.KeyTotal, 0)
	if err != nil {
		return 0, 0, err
	}
	price, err = s.readAmount(ctx, store.KeyPrice, s.priceFloor)
	if err != nil {
		return 0, 0, err
	}
	total = domain.Round2(total + claim.Importe)
	price = domain.Round2(price + domain.PriceStep)
	if err := s.writeAmount(ctx, store.KeyTotal, total); err != nil {
		return 0, 0, err
	}
	if err := s.writeAmount(ctx, store.KeyPrice, price); err != nil {
		return 0, 0, err
	}

	contributors, err := s.readContributors(ctx)
	if err != nil {
		return 0, 0, err
	}
	entry := domain.Contributor{Importe: claim.Importe, TS: claim.TS}
	if claim.ConsentName {
		entry.Nombre = claim.Nombre
	}
	contributors = append(contributors, entry)
	if n := len(contributors); n > domain.MaxContributors {
		contributors = contributors[n-domain.MaxContributors:]
	}
	if err := s.writeJSON(ctx, store.KeyContributors, contributors); err != nil {
		return 0, 0, err
	}
	return total, price, nil
}

// Reject removes the claim from the queue without touching any aggregate.
// domain.ErrNotFound when no pending claim has that id.
func (s *Service) Reject(ctx context.Context, id string) error {
	pending, err := s.readPending(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(pending, id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	pending = append(pending[:idx], pending[idx+1:]...)
	return s.writeJSON(ctx, store.KeyPending, pending)
}

// State reads the three public aggregates. Pure read, no auth, no side
// effects. Defaults apply when the ledger has never been written.
func (s *Service) State(ctx context.Context) (*State, error) {
	total, err := s.readAmount(ctx, store.KeyTotal, 0)
	if err != nil {
		return nil, err
	}
	price, err := s.readAmount(ctx, store.KeyPrice, s.priceFloor)
	if err != nil {
		return nil, err
	}
	contributors, err := s.readContributors(ctx)
	if err != nil {
		return nil, err
	}
	return &State{Total: total, Price: price, Contributors: contributors}, nil
}

func indexOf(pending []domain.PendingClaim, id string) int {
	for i, p := range pending {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) readPending(ctx context.Context) ([]domain.PendingClaim, error) {
	pending := []domain.PendingClaim{}
	if err := s.readJSON(ctx, store.KeyPending, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *Service) readContributors(ctx context.Context) ([]domain.Contributor, error) {
	contributors := []domain.Contributor{}
	if err := s.readJSON(ctx, store.KeyContributors, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

func (s *Service) readJSON(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Service) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Service) readAmount(ctx context.Context, key string, def float64) (float64, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

// Money aggregates are stored as fixed two-decimal strings for
// compatibility with existing deployments.
func (s *Service) writeAmount(ctx context.Context, key string, v float64) error {
	if err := s.kv.Put(ctx, key, strconv.FormatFloat(v, 'f', 2, 64)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
