// Package snapshotrepo manages the persistence sink for committed ledger
// state. It is write-only from the ledger's point of view except at
// hydration: the in-memory ledger is the source of truth for the running
// session, the stored snapshot only survives restarts.
package snapshotrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
)

const keyPrefix = "wallet:snapshot:"

// RepoRedis stores ledger snapshots as JSON values keyed by account id.
type RepoRedis struct {
	client *redis.Client
}

// NewRepoRedis returns snapshot RepoRedis.
func NewRepoRedis(client *redis.Client) *RepoRedis {
	return &RepoRedis{client: client}
}

func key(accountID string) string {
	return keyPrefix + accountID
}

// Save overwrites the stored snapshot for the account. Snapshots have no
// TTL: the latest committed state must survive until the next write.
func (r *RepoRedis) Save(ctx context.Context, accountID string, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account_id", accountID).Msg("snapshot marshal failed")
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, key(accountID), payload, 0).Err(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account_id", accountID).Msg("snapshot set failed")
		return fmt.Errorf("store snapshot: %w", err)
	}

	return nil
}

// Load returns the stored snapshot for the account, or
// domain.ErrSnapshotNotFound when none has been written yet.
func (r *RepoRedis) Load(ctx context.Context, accountID string) (domain.Snapshot, error) {
	var snap domain.Snapshot

	payload, err := r.client.Get(ctx, key(accountID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return snap, domain.ErrSnapshotNotFound
		}

		zerolog.Ctx(ctx).Error().Err(err).Str("account_id", accountID).Msg("snapshot get failed")

		return snap, errorspkg.ErrInternal
	}

	if err := json.Unmarshal(payload, &snap); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account_id", accountID).Msg("snapshot unmarshal failed")
		return domain.Snapshot{}, errorspkg.ErrInternal
	}

	return snap, nil
}
