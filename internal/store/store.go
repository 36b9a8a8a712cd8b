// Package store persists the ledger documents in a key-value shape. The
// contract mirrors the hosted KV namespace the service was first deployed
// on: string values under string keys, read-then-write, last write wins,
// and no transaction spanning more than one key.
package store

import "context"

// Keys of the persisted ledger documents. The money aggregates are stored
// as fixed two-decimal strings and the lists as JSON arrays, byte for byte
// the way the original deployment stored them, so existing data can be
// carried over by copying values.
const (
	KeyTotal        = "hzm:total"
	KeyPrice        = "hzm:price"
	KeyContributors = "hzm:contributors"
	KeyPending      = "hzm:pending"
)

// KV is the backing document store.
type KV interface {
	// Get returns the value under key. ok is false when the key has never
	// been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error
}
