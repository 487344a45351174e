// ABOUTME: Provider interface and data types for stash persistence
// ABOUTME: Defines Storable, the Longevity enumeration, and the error taxonomy

package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrBlankKey is returned when an operation requires a key and the caller
// supplied a blank one. Reported before any configuration check or I/O.
var ErrBlankKey = errors.New("blank key")

// ErrNoConnection is returned when the provider has no connection string.
var ErrNoConnection = errors.New("connection string not configured")

// ErrNoStoreName is returned when the provider has no store name.
var ErrNoStoreName = errors.New("store name not configured")

// ErrBootstrap is returned when creating the backing table did not result in
// a detectable table. The provider is unusable until its configuration is
// corrected.
var ErrBootstrap = errors.New("store bootstrap failed")

// ErrUnknownLongevity is returned when a longevity value does not match any
// known name. On read this signals corruption of previously written data and
// is never coerced to a default.
var ErrUnknownLongevity = errors.New("unknown longevity")

// Longevity classifies how durable a stored record is meant to be.
// It is persisted by name, not by ordinal.
type Longevity int

const (
	LongevityTransient Longevity = iota // short-lived, safe to evict
	LongevitySession                    // lives for a user session
	LongevityDurable                    // long-term data
)

var longevityNames = map[Longevity]string{
	LongevityTransient: "transient",
	LongevitySession:   "session",
	LongevityDurable:   "durable",
}

// String returns the persisted name for the longevity value.
func (l Longevity) String() string {
	if name, ok := longevityNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Longevity(%d)", int(l))
}

// Valid reports whether l is one of the known longevity values.
func (l Longevity) Valid() bool {
	_, ok := longevityNames[l]
	return ok
}

// ParseLongevity converts a persisted name back into a Longevity.
// Returns ErrUnknownLongevity (wrapped with the offending name) when the
// name is not in the known set.
func ParseLongevity(name string) (Longevity, error) {
	for l, n := range longevityNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLongevity, name)
}

// Storable is the unit of persistence: an opaque payload plus metadata,
// identified by a unique key.
type Storable struct {
	Key         string
	Contents    string
	ContentType string
	CachePeriod string // serialized duration, stored verbatim
	Longevity   Longevity
}

// Provider is the capability set exposed by a stash store. Callers depend on
// this interface rather than on the backing engine.
type Provider interface {
	// Init ensures the backing store exists. It is idempotent: calling it
	// against an existing store is a no-op that preserves data.
	Init(ctx context.Context) error

	// StoreExists reports whether the backing store is present. Read-only.
	StoreExists(ctx context.Context) (bool, error)

	// AddOrUpdate inserts the storable, or overwrites the non-key fields of
	// an existing record with the same key, as a single atomic statement.
	AddOrUpdate(ctx context.Context, item *Storable) error

	// Get returns the storable for key, or (nil, nil) when no record exists.
	Get(ctx context.Context, key string) (*Storable, error)

	// GetAll returns every record in the store, in no guaranteed order.
	GetAll(ctx context.Context) ([]*Storable, error)

	// Delete removes the record for key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// DeleteStore destroys the backing store. Init is required before
	// further use.
	DeleteStore(ctx context.Context) error
}
