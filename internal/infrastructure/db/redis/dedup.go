package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gameops/account-system/internal/core/ports"
)

const dedupTTL = 24 * time.Hour

// TransferDedup provides idempotency checks for transfer requests backed by
// Redis. Key format: transfer:<from_account_id>:<idempotency_key>
type TransferDedup struct {
	client *redis.Client
}

// NewTransferDedup creates a TransferDedup wrapping the given Redis client.
func NewTransferDedup(client *redis.Client) *TransferDedup {
	return &TransferDedup{client: client}
}

// Seen reports whether a transfer with this idempotency key was already
// accepted for the source account.
func (d *TransferDedup) Seen(ctx context.Context, fromAccountID int64, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(fromAccountID, key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this transfer request has been processed (expires after
// dedupTTL) and stores the resulting transfer id for replay responses.
func (d *TransferDedup) Mark(ctx context.Context, fromAccountID int64, key, transferID string) error {
	return d.client.Set(ctx, d.key(fromAccountID, key), transferID, dedupTTL).Err()
}

// TransferID returns the transfer id recorded for a seen key, or empty.
func (d *TransferDedup) TransferID(ctx context.Context, fromAccountID int64, key string) (string, error) {
	id, err := d.client.Get(ctx, d.key(fromAccountID, key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("dedup read: %w", err)
	}
	return id, nil
}

func (d *TransferDedup) key(fromAccountID int64, key string) string {
	return fmt.Sprintf("transfer:%d:%s", fromAccountID, key)
}

var _ ports.TransferDedup = (*TransferDedup)(nil)
