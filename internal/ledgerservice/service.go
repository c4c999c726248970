// Package ledgerservice is the single authority over wallet balances.
//
// Every balance mutation in the application goes through Credit or Debit.
// Each account's balance and transaction log are held in memory as one unit,
// guarded by one mutex, so a mutation is a single atomic transition: the
// balance never changes without the matching transaction being appended in
// the same critical section. After a mutation commits, the new snapshot is
// mirrored to the snapshot store outside the lock.
package ledgerservice

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/moneypkg"
)

var snapshotFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "wallet_snapshot_write_failures_total",
	Help: "Number of ledger snapshot writes that could not be persisted.",
})

// Accounts provides the account store interface needed to seed a ledger.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Accounts interface {
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
}

// Snapshotter provides the persistence sink interface for committed state.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Snapshotter interface {
	Save(ctx context.Context, accountID string, snap domain.Snapshot) error
	Load(ctx context.Context, accountID string) (domain.Snapshot, error)
}

// ledger holds the mutable state of one account. balance and transactions
// are only touched with mu held; transactions are stored oldest first. seq
// counts committed mutations so snapshot writes can be ordered after the
// lock is released.
type ledger struct {
	mu           sync.Mutex
	accountID    string
	hydrated     bool
	balance      int64 // minor units
	seq          uint64
	transactions []domain.Transaction

	persistMu sync.Mutex
	persisted uint64 // seq of the last snapshot written out
}

// Service facilitates ledger business logic for all signed-in accounts.
type Service struct {
	accounts  Accounts
	snapshots Snapshotter

	mu      sync.Mutex
	ledgers map[string]*ledger // keyed by account id

	now   func() time.Time
	newID func() string
}

// New returns a ledger Service backed by the given account store and
// snapshot sink.
func New(accounts Accounts, snapshots Snapshotter) *Service {
	return &Service{
		accounts:  accounts,
		snapshots: snapshots,
		ledgers:   make(map[string]*ledger),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Credit atomically increases the owner's balance by amount and appends the
// matching received transaction, which it returns.
func (s *Service) Credit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error) {
	minor, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	led, err := s.ledger(ctx, owner)
	if err != nil {
		return domain.Transaction{}, err
	}

	led.mu.Lock()
	if led.balance > math.MaxInt64-minor {
		led.mu.Unlock()
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	led.balance += minor
	tx := s.appendLocked(led, domain.DirectionReceived, minor, counterparty, category, description)
	snap, seq := snapshotLocked(led)
	led.mu.Unlock()

	s.persist(ctx, led, snap, seq)

	return tx, nil
}

// Debit atomically decreases the owner's balance by amount and appends the
// matching sent transaction. If the balance is smaller than amount it
// mutates nothing and returns domain.ErrInsufficientBalance.
func (s *Service) Debit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error) {
	minor, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	led, err := s.ledger(ctx, owner)
	if err != nil {
		return domain.Transaction{}, err
	}

	led.mu.Lock()
	if led.balance < minor {
		led.mu.Unlock()
		return domain.Transaction{}, domain.ErrInsufficientBalance
	}

	led.balance -= minor
	tx := s.appendLocked(led, domain.DirectionSent, minor, counterparty, category, description)
	snap, seq := snapshotLocked(led)
	led.mu.Unlock()

	s.persist(ctx, led, snap, seq)

	return tx, nil
}

// Balance returns the owner's current balance as a two-decimal string.
func (s *Service) Balance(ctx context.Context, owner string) (string, error) {
	led, err := s.ledger(ctx, owner)
	if err != nil {
		return "", err
	}

	led.mu.Lock()
	defer led.mu.Unlock()

	return moneypkg.FromMinorUnits(led.balance), nil
}

// Transactions returns a point-in-time copy of the owner's transaction log,
// newest first.
func (s *Service) Transactions(ctx context.Context, owner string) ([]domain.Transaction, error) {
	led, err := s.ledger(ctx, owner)
	if err != nil {
		return nil, err
	}

	led.mu.Lock()
	defer led.mu.Unlock()

	return newestFirst(led.transactions), nil
}

// parseAmount converts an amount string to minor units, folding every
// malformed or non-positive input into domain.ErrInvalidAmount.
func parseAmount(ctx context.Context, amount string) (int64, error) {
	minor, err := moneypkg.ToMinorUnits(amount)
	if err != nil || minor <= 0 {
		zerolog.Ctx(ctx).Info().Str("amount", amount).Msg("rejected amount")
		return 0, domain.ErrInvalidAmount
	}

	return minor, nil
}

// ledger returns the in-memory ledger for the owner's account, hydrating it
// from the snapshot store (or the account's starting balance) on first touch.
func (s *Service) ledger(ctx context.Context, owner string) (*ledger, error) {
	account, err := s.accounts.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	led, ok := s.ledgers[account.ID]
	if !ok {
		led = &ledger{accountID: account.ID}
		s.ledgers[account.ID] = led
	}
	s.mu.Unlock()

	led.mu.Lock()
	defer led.mu.Unlock()

	if led.hydrated {
		return led, nil
	}

	if err := s.hydrateLocked(ctx, led, account); err != nil {
		return nil, err
	}

	return led, nil
}

func (s *Service) hydrateLocked(ctx context.Context, led *ledger, account domain.Account) error {
	l := zerolog.Ctx(ctx)

	snap, err := s.snapshots.Load(ctx, account.ID)

	switch err {
	case nil:
		balance, convErr := moneypkg.ToMinorUnits(snap.Balance.String())
		if convErr != nil || balance < 0 {
			l.Error().Str("account_id", account.ID).Str("balance", snap.Balance.String()).Msg("corrupt snapshot balance")
			return errorspkg.ErrInternal
		}

		led.balance = balance
		led.transactions = newestFirst(snap.Transactions) // snapshots store newest first
	case domain.ErrSnapshotNotFound:
		balance, convErr := moneypkg.ToMinorUnits(account.StartingBalance)
		if convErr != nil || balance < 0 {
			l.Error().Str("account_id", account.ID).Msg("invalid starting balance")
			return errorspkg.ErrInternal
		}

		led.balance = balance
		led.transactions = nil
	default:
		l.Error().Err(err).Str("account_id", account.ID).Msg("snapshot load failed")
		return err
	}

	led.hydrated = true

	return nil
}

func (s *Service) appendLocked(led *ledger, direction domain.Direction, minor int64, counterparty, category, description string) domain.Transaction {
	tx := domain.Transaction{
		ID:           s.newID(),
		Direction:    direction,
		Amount:       moneypkg.FromMinorUnits(minor),
		Counterparty: counterparty,
		Category:     category,
		Description:  description,
		Status:       domain.StatusCompleted,
		CreatedAt:    s.now().UTC(),
	}

	led.transactions = append(led.transactions, tx)

	return tx
}

// snapshotLocked captures the committed state together with its mutation
// sequence number.
func snapshotLocked(led *ledger) (domain.Snapshot, uint64) {
	led.seq++

	snap := domain.Snapshot{
		Balance:      json.Number(moneypkg.FromMinorUnits(led.balance)),
		Transactions: newestFirst(led.transactions),
	}

	return snap, led.seq
}

// persist mirrors a committed snapshot to the snapshot store. Writes for one
// account are serialized and a snapshot older than the last one written is
// discarded, so concurrent mutations cannot leave the store holding stale
// state. A write failure never rolls back the in-memory commit: the session
// state is the source of truth and the next successful write catches up.
func (s *Service) persist(ctx context.Context, led *ledger, snap domain.Snapshot, seq uint64) {
	led.persistMu.Lock()
	defer led.persistMu.Unlock()

	if seq <= led.persisted {
		return
	}

	if err := s.snapshots.Save(ctx, led.accountID, snap); err != nil {
		snapshotFailures.Inc()
		zerolog.Ctx(ctx).Error().Err(err).Str("account_id", led.accountID).Msg("snapshot write failed")

		return
	}

	led.persisted = seq
}

func newestFirst(txs []domain.Transaction) []domain.Transaction {
	reversed := make([]domain.Transaction, len(txs))

	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}

	return reversed
}
