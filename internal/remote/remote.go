// Package remote defines the provider-facing interfaces consumed by the
// sync engine: a paged CRUD client over one remote collection, a factory
// that binds clients to an owner's credentials, and a mapper translating
// between the provider wire shape and the local record shape.
//
// The interfaces are generic over the wire type W so that the engine stays
// identical across providers; only the mapper and client know what W is.
package remote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/opencrafts-io/keepup/internal/record"
)

// Client is a thin interface over a provider's record collection. Clients
// are bound to one owner's credentials and one collection at construction.
type Client[W any] interface {
	// ListPage fetches one page. An empty pageToken requests the first
	// page; an empty returned token means the collection is exhausted.
	// Pages include completed and hidden items so that status transitions
	// and soft deletions are observable.
	ListPage(ctx context.Context, pageToken string) (items []W, nextToken string, err error)

	// Get fetches the current remote object by id.
	Get(ctx context.Context, id string) (W, error)

	// Insert creates a remote object and returns the provider's confirmed
	// copy, including its assigned id and revision tag.
	Insert(ctx context.Context, payload W) (W, error)

	// Update replaces the remote object and returns the confirmed copy.
	Update(ctx context.Context, id string, payload W) (W, error)

	// Delete removes the remote object.
	Delete(ctx context.Context, id string) error
}

// Windowed is implemented by clients whose ListPage covers only a bounded
// time range rather than the whole collection. A record absent from a
// bounded listing may still exist remotely outside the window, so
// reconciliation must only treat records starting inside the window as
// deletion candidates.
type Windowed interface {
	// ListWindow returns the inclusive time range the listing covers.
	// The bounds are fixed for the lifetime of the client so that every
	// page of one run describes the same range.
	ListWindow() (start, end time.Time)
}

// Factory builds a Client bound to the given owner's provider credentials.
// It surfaces common.ErrNoLinkedAccount when the owner has no provider
// account and common.ErrUnauthorized when credentials are rejected.
type Factory[W any] interface {
	ClientFor(ctx context.Context, owner uuid.UUID) (Client[W], error)
}

// TokenProvider supplies per-owner OAuth token sources. Implemented by the
// identity-provider client.
type TokenProvider interface {
	TokenSource(ctx context.Context, owner uuid.UUID) (oauth2.TokenSource, error)
}

// Mapper is the pure translation layer between the provider wire shape and
// the local record shape. Implementations do no I/O.
type Mapper[W any] interface {
	// FromRemote translates a provider object into a local record,
	// applying the provider's defaulting rules. Objects missing their
	// identity field are an error.
	FromRemote(owner uuid.UUID, obj W) (*record.Record, error)

	// InsertPayload validates f and builds a creation payload.
	InsertPayload(f record.Fields) (W, error)

	// UpdatePayload merges f over the current local values into a full
	// update payload; fields absent from f retain their prior value.
	UpdatePayload(current *record.Record, f record.Fields) (W, error)

	// SetCompletion flips completion state on a freshly fetched remote
	// object: status plus completion timestamp, nothing else. Collections
	// without a completion concept return common.ErrValidation.
	SetCompletion(obj W, completed bool, completedAt string) error
}
