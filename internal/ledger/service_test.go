package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hazmerico/internal/domain"
	"hazmerico/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := New(store.NewMemory(), 0.50)
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("claim-%03d", seq)
	}
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func strptr(s string) *string { return &s }

func TestSubmitAppearsInPendingQueue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, SubmitInput{
		Nombre:    strptr("Ana"),
		Importe:   1.25,
		PruebaURL: strptr("https://example.com/proof.png"),
		Consent:   true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id == "" {
		t.Fatal("Submit returned empty id")
	}

	pending, err := svc.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending length = %d, want 1", len(pending))
	}
	claim := pending[0]
	if claim.ID != id {
		t.Fatalf("claim id = %q, want %q", claim.ID, id)
	}
	if claim.Nombre == nil || *claim.Nombre != "Ana" {
		t.Fatalf("claim nombre = %v, want Ana", claim.Nombre)
	}
	if claim.Importe != 1.25 {
		t.Fatalf("claim importe = %v, want 1.25", claim.Importe)
	}
	if claim.PruebaURL == nil || *claim.PruebaURL != "https://example.com/proof.png" {
		t.Fatalf("claim pruebaURL = %v", claim.PruebaURL)
	}
	if !claim.ConsentName {
		t.Fatal("claim consentName = false, want true")
	}
	if claim.TS != time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli() {
		t.Fatalf("claim ts = %d", claim.TS)
	}
}

func TestSubmitAssignsFreshIDs(t *testing.T) {
	svc := New(store.NewMemory(), 0.50)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := svc.Submit(ctx, SubmitInput{Importe: 0.50})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if seen[id] {
			t.Fatalf("id %q assigned twice", id)
		}
		seen[id] = true
	}
}

func TestSubmitRejectsAmountBelowFloor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, importe := range []float64{0.10, 0.49, 0, -5} {
		_, err := svc.Submit(ctx, SubmitInput{Importe: importe})
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Submit(%v) err = %v, want ValidationError", importe, err)
		}
		if vErr.Field != "importe" {
			t.Fatalf("validation field = %q, want importe", vErr.Field)
		}
	}

	pending, err := svc.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("rejected submissions reached the queue: %d entries", len(pending))
	}
}

func TestSubmitRoundsAmountToTwoDecimals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, SubmitInput{Importe: 1.256})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pending, _ := svc.Pending(ctx)
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("unexpected pending queue: %+v", pending)
	}
	if pending[0].Importe != 1.26 {
		t.Fatalf("importe = %v, want 1.26", pending[0].Importe)
	}
}

func TestSubmitTreatsBlankNameAsAbsent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitInput{Nombre: strptr("   "), Importe: 2}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pending, _ := svc.Pending(ctx)
	if pending[0].Nombre != nil {
		t.Fatalf("nombre = %q, want absent", *pending[0].Nombre)
	}
}

func TestApproveMovesAggregates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, SubmitInput{Nombre: strptr("Ana"), Importe: 1.25, Consent: true})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	total, price, err := svc.Approve(ctx, id)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if total != 1.25 {
		t.Fatalf("total = %v, want 1.25", total)
	}
	if price != 0.51 {
		t.Fatalf("price = %v, want 0.51", price)
	}

	st, err := svc.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.Total != 1.25 || st.Price != 0.51 {
		t.Fatalf("state = %+v", st)
	}
	if len(st.Contributors) != 1 {
		t.Fatalf("contributors length = %d, want 1", len(st.Contributors))
	}
	c := st.Contributors[0]
	if c.Nombre == nil || *c.Nombre != "Ana" {
		t.Fatalf("contributor nombre = %v, want Ana", c.Nombre)
	}
	if c.Importe != 1.25 {
		t.Fatalf("contributor importe = %v, want 1.25", c.Importe)
	}

	pending, _ := svc.Pending(ctx)
	if len(pending) != 0 {
		t.Fatalf("approved claim still pending: %+v", pending)
	}
}

func TestApproveAccumulates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	amounts := []float64{0.50, 2.00, 10.25}
	wantTotal := 0.0
	wantPrice := 0.50
	for _, a := range amounts {
		id, err := svc.Submit(ctx, SubmitInput{Importe: a})
		if err != nil {
			t.Fatalf("Submit(%v): %v", a, err)
		}
		total, price, err := svc.Approve(ctx, id)
		if err != nil {
			t.Fatalf("Approve: %v", err)
		}
		wantTotal = domain.Round2(wantTotal + a)
		wantPrice = domain.Round2(wantPrice + domain.PriceStep)
		if total != wantTotal || price != wantPrice {
			t.Fatalf("after %v: total=%v price=%v, want %v/%v", a, total, price, wantTotal, wantPrice)
		}
	}
}

func TestApproveWithoutConsentDropsName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, SubmitInput{Nombre: strptr("Ana"), Importe: 3, Consent: false})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, _, err := svc.Approve(ctx, id); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	st, _ := svc.State(ctx)
	if len(st.Contributors) != 1 {
		t.Fatalf("contributors = %+v", st.Contributors)
	}
	if st.Contributors[0].Nombre != nil {
		t.Fatalf("nombre leaked without consent: %q", *st.Contributors[0].Nombre)
	}
}

func TestDecisionIsTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Submit(ctx, SubmitInput{Importe: 1})
	if _, _, err := svc.Approve(ctx, id); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	if _, _, err := svc.Approve(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Approve err = %v, want ErrNotFound", err)
	}
	if err := svc.Reject(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Reject after Approve err = %v, want ErrNotFound", err)
	}

	id2, _ := svc.Submit(ctx, SubmitInput{Importe: 1})
	if err := svc.Reject(ctx, id2); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := svc.Reject(ctx, id2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Reject err = %v, want ErrNotFound", err)
	}
}

func TestRejectLeavesAggregatesAlone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Submit(ctx, SubmitInput{Importe: 5})
	if err := svc.Reject(ctx, id); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	st, _ := svc.State(ctx)
	if st.Total != 0 || st.Price != 0.50 || len(st.Contributors) != 0 {
		t.Fatalf("reject mutated aggregates: %+v", st)
	}
	pending, _ := svc.Pending(ctx)
	if len(pending) != 0 {
		t.Fatalf("rejected claim still pending: %+v", pending)
	}
}

func TestStateDefaults(t *testing.T) {
	svc := New(store.NewMemory(), 0.50)
	st, err := svc.State(context.Background())
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.Total != 0 || st.Price != 0.50 {
		t.Fatalf("defaults = %+v", st)
	}
	if st.Contributors == nil || len(st.Contributors) != 0 {
		t.Fatalf("contributors default = %#v, want empty slice", st.Contributors)
	}
}

func TestContributorBoardEvictsOldestPast200(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < domain.MaxContributors+1; i++ {
		name := fmt.Sprintf("Donante %d", i)
		id, err := svc.Submit(ctx, SubmitInput{Nombre: &name, Importe: 1, Consent: true})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		if _, _, err := svc.Approve(ctx, id); err != nil {
			t.Fatalf("Approve %d: %v", i, err)
		}
	}

	st, err := svc.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(st.Contributors) != domain.MaxContributors {
		t.Fatalf("board length = %d, want %d", len(st.Contributors), domain.MaxContributors)
	}
	if got := *st.Contributors[0].Nombre; got != "Donante 1" {
		t.Fatalf("oldest visible contributor = %q, want the first entry evicted", got)
	}
	// Eviction never reduces the historical total.
	if st.Total != float64(domain.MaxContributors+1) {
		t.Fatalf("total = %v, want %d", st.Total, domain.MaxContributors+1)
	}
}
