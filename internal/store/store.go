package store

import (
	"context"
	"errors"

	"ledger-service-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrEmptyBatch = errors.New("empty account batch")
)

// AccountStore is the persistence contract consumed by the ledger. Callers
// serialize access per account name; backends only need to make each call
// atomic on its own.
type AccountStore interface {
	// Get returns (nil, nil) when no account has that name.
	Get(ctx context.Context, name string) (*models.Account, error)

	// Set inserts or replaces a single account.
	Set(ctx context.Context, account models.Account) error

	// SetMany writes every account in one atomic commit: either all
	// writes become visible or none do.
	SetMany(ctx context.Context, accounts ...models.Account) error

	// List returns every account ordered by name.
	List(ctx context.Context) ([]models.Account, error)

	Close()
}

// TransferLog records committed transfers for later inspection.
type TransferLog interface {
	RecordTransfer(ctx context.Context, transfer models.Transfer) error

	// ListTransfers returns transfers in which name was giver or receiver,
	// most recent first.
	ListTransfers(ctx context.Context, name string, limit, offset int) ([]models.Transfer, error)
}

// Backend is what every concrete store (memory, SQL, redis) provides.
type Backend interface {
	AccountStore
	TransferLog
}
