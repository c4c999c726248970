package ledgerservice

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/moneypkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/randompkg"
)

// memorySnapshots is an in-memory Snapshotter capturing every committed
// snapshot so tests can inspect the write-through.
type memorySnapshots struct {
	mu    sync.Mutex
	snaps map[string]domain.Snapshot
	saves int
	err   error
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{snaps: make(map[string]domain.Snapshot)}
}

func (m *memorySnapshots) Save(_ context.Context, accountID string, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.err != nil {
		return m.err
	}

	m.snaps[accountID] = snap

	return nil
}

func (m *memorySnapshots) Load(_ context.Context, accountID string) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.snaps[accountID]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}

	return snap, nil
}

func (m *memorySnapshots) last(accountID string) domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snaps[accountID]
}

func (m *memorySnapshots) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}

func testAccount(owner, startingBalance string) domain.Account {
	return domain.Account{
		ID:              "acc_" + owner,
		Owner:           owner,
		StartingBalance: startingBalance,
		CreatedAt:       time.Now().Truncate(time.Second).UTC(),
	}
}

func newTestService(t *testing.T, account domain.Account, snaps Snapshotter) *Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	accounts := NewMockAccounts(ctrl)
	accounts.EXPECT().
		GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
		Return(account, nil).
		AnyTimes()

	return New(accounts, snaps)
}

func TestCredit(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "75.00")

	testCases := []struct {
		name        string
		amount      string
		wantBalance string
		wantErr     error
	}{
		{name: "OK", amount: "50.00", wantBalance: "125.00"},
		{name: "WholeNumber", amount: "50", wantBalance: "125.00"},
		{name: "Zero", amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "Negative", amount: "-5.00", wantErr: domain.ErrInvalidAmount},
		{name: "ThreeDecimals", amount: "5.999", wantErr: domain.ErrInvalidAmount},
		{name: "NotANumber", amount: "fifty", wantErr: domain.ErrInvalidAmount},
		{name: "NotFinite", amount: "Inf", wantErr: domain.ErrInvalidAmount},
		{name: "BeyondMinorUnitRange", amount: "184467440737095517.16", wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := newTestService(t, account, newMemorySnapshots())
			ctx := context.Background()

			tx, err := service.Credit(ctx, owner, tc.amount, "Add Money", domain.CategoryTopUp, "")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				txs, err := service.Transactions(ctx, owner)
				require.NoError(t, err)
				require.Empty(t, txs)

				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, tx.ID)
			require.Equal(t, domain.DirectionReceived, tx.Direction)
			require.Equal(t, domain.StatusCompleted, tx.Status)

			balance, err := service.Balance(ctx, owner)
			require.NoError(t, err)
			require.Equal(t, tc.wantBalance, balance)
		})
	}
}

func TestDebit(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "100.00")

	testCases := []struct {
		name        string
		amount      string
		wantBalance string
		wantErr     error
	}{
		{name: "OK", amount: "25.00", wantBalance: "75.00"},
		{name: "ExactBalance", amount: "100.00", wantBalance: "0.00"},
		{name: "Insufficient", amount: "200.00", wantErr: domain.ErrInsufficientBalance},
		{name: "Zero", amount: "0.00", wantErr: domain.ErrInvalidAmount},
		{name: "Negative", amount: "-5.00", wantErr: domain.ErrInvalidAmount},
		{name: "Malformed", amount: "1,000", wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := newTestService(t, account, newMemorySnapshots())
			ctx := context.Background()

			tx, err := service.Debit(ctx, owner, tc.amount, "Sarah Johnson", domain.CategoryTransfer, "")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				// Failed debits must leave balance and log untouched.
				balance, err := service.Balance(ctx, owner)
				require.NoError(t, err)
				require.Equal(t, "100.00", balance)

				txs, err := service.Transactions(ctx, owner)
				require.NoError(t, err)
				require.Empty(t, txs)

				return
			}

			require.NoError(t, err)
			require.Equal(t, domain.DirectionSent, tx.Direction)
			require.Equal(t, tc.amount, tx.Amount)

			balance, err := service.Balance(ctx, owner)
			require.NoError(t, err)
			require.Equal(t, tc.wantBalance, balance)
		})
	}
}

func TestUnknownOwner(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	accounts := NewMockAccounts(ctrl)
	accounts.EXPECT().
		GetByOwner(gomock.Any(), gomock.Any()).
		Return(domain.Account{}, domain.ErrAccountNotFound).
		AnyTimes()

	service := New(accounts, newMemorySnapshots())

	_, err := service.Credit(context.Background(), "nobody", "10.00", "x", domain.CategoryTopUp, "")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

// TestBalanceMatchesLog checks the ledger equation after every step of a
// random mutation sequence: balance == starting + sum(received) - sum(sent).
func TestBalanceMatchesLog(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "500.00")
	service := newTestService(t, account, newMemorySnapshots())
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		amount := randompkg.MoneyAmountBetween(0.01, 50)

		if randompkg.Intn(2) == 0 {
			_, err := service.Credit(ctx, owner, amount, "Add Money", domain.CategoryTopUp, "")
			require.NoError(t, err)
		} else {
			_, err := service.Debit(ctx, owner, amount, "Sarah Johnson", domain.CategoryTransfer, "")
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			}
		}

		balance, err := service.Balance(ctx, owner)
		require.NoError(t, err)

		txs, err := service.Transactions(ctx, owner)
		require.NoError(t, err)

		sum, err := moneypkg.ToMinorUnits(account.StartingBalance)
		require.NoError(t, err)

		for _, tx := range txs {
			minor, err := moneypkg.ToMinorUnits(tx.Amount)
			require.NoError(t, err)

			if tx.Direction == domain.DirectionReceived {
				sum += minor
			} else {
				sum -= minor
			}
		}

		require.Equal(t, moneypkg.FromMinorUnits(sum), balance)
		require.GreaterOrEqual(t, sum, int64(0))
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "100.00")
	service := newTestService(t, account, newMemorySnapshots())
	ctx := context.Background()

	_, err := service.Debit(ctx, owner, "10.00", "first", domain.CategoryTransfer, "")
	require.NoError(t, err)

	_, err = service.Credit(ctx, owner, "20.00", "second", domain.CategoryTopUp, "")
	require.NoError(t, err)

	txs, err := service.Transactions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "second", txs[0].Counterparty)
	require.Equal(t, "first", txs[1].Counterparty)

	// Reads without an intervening mutation are idempotent.
	again, err := service.Transactions(ctx, owner)
	require.NoError(t, err)

	if diff := cmp.Diff(txs, again); diff != "" {
		t.Errorf("service.Transactions mismatch between consecutive reads (-first +second):\n%s", diff)
	}
}

// TestConcurrentDebits issues N debits whose amounts sum to exactly the
// starting balance. All of them must succeed with no lost update: final
// balance zero and exactly N transactions.
func TestConcurrentDebits(t *testing.T) {
	t.Parallel()

	const n = 50

	owner := randompkg.Owner()
	account := testAccount(owner, moneypkg.FromMinorUnits(n*100))
	service := newTestService(t, account, newMemorySnapshots())
	ctx := context.Background()

	var wg sync.WaitGroup

	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := service.Debit(ctx, owner, "1.00", "Sarah Johnson", domain.CategoryTransfer, "")
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := service.Balance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "0.00", balance)

	txs, err := service.Transactions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, txs, n)
}

// TestCreditOverflow credits a valid in-range amount against a balance at the
// top of the representable range. The mutation must be rejected whole:
// wrapping the balance negative would break the non-negative invariant.
func TestCreditOverflow(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, moneypkg.FromMinorUnits(math.MaxInt64))
	service := newTestService(t, account, newMemorySnapshots())
	ctx := context.Background()

	_, err := service.Credit(ctx, owner, "1.00", "Add Money", domain.CategoryTopUp, "")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	balance, err := service.Balance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, moneypkg.FromMinorUnits(math.MaxInt64), balance)

	txs, err := service.Transactions(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestHydrateFromSnapshot(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "1000.00")

	snaps := newMemorySnapshots()
	service := newTestService(t, account, snaps)
	ctx := context.Background()

	_, err := service.Debit(ctx, owner, "25.00", "Sarah Johnson", domain.CategoryTransfer, "rent")
	require.NoError(t, err)

	_, err = service.Credit(ctx, owner, "50.00", "Add Money", domain.CategoryTopUp, "")
	require.NoError(t, err)

	want, err := service.Transactions(ctx, owner)
	require.NoError(t, err)

	// A fresh service instance simulates a reload. It must restore the
	// committed state from the snapshot, not the starting balance.
	restored := newTestService(t, account, snaps)

	balance, err := restored.Balance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "1025.00", balance)

	got, err := restored.Transactions(ctx, owner)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("restored transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotWrittenPerMutation(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "100.00")

	snaps := newMemorySnapshots()
	service := newTestService(t, account, snaps)
	ctx := context.Background()

	_, err := service.Debit(ctx, owner, "40.00", "Sarah Johnson", domain.CategoryTransfer, "")
	require.NoError(t, err)

	snap := snaps.last(account.ID)
	require.Equal(t, "60.00", snap.Balance.String())
	require.Len(t, snap.Transactions, 1)
	require.Equal(t, domain.DirectionSent, snap.Transactions[0].Direction)
}

// TestStaleSnapshotWriteDiscarded replays the slow-writer interleaving: the
// snapshot of an earlier mutation reaches the store after a later mutation
// already wrote its own. The late write must be dropped so a reload restores
// the newest committed state.
func TestStaleSnapshotWriteDiscarded(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "100.00")

	snaps := newMemorySnapshots()
	service := newTestService(t, account, snaps)
	ctx := context.Background()

	_, err := service.Debit(ctx, owner, "10.00", "Sarah Johnson", domain.CategoryTransfer, "")
	require.NoError(t, err)

	stale := snaps.last(account.ID)
	require.Equal(t, "90.00", stale.Balance.String())

	_, err = service.Credit(ctx, owner, "30.00", "Add Money", domain.CategoryTopUp, "")
	require.NoError(t, err)

	// Deliver the first mutation's snapshot again, as a goroutine that lost
	// the race to the store would.
	service.persist(ctx, service.ledgers[account.ID], stale, 1)

	require.Equal(t, 2, snaps.saveCount())
	require.Equal(t, "120.00", snaps.last(account.ID).Balance.String())

	restored := newTestService(t, account, snaps)

	balance, err := restored.Balance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "120.00", balance)

	txs, err := restored.Transactions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, txs, 2)
}

func TestSnapshotFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	account := testAccount(owner, "100.00")

	snaps := newMemorySnapshots()
	snaps.err = context.DeadlineExceeded

	service := newTestService(t, account, snaps)
	ctx := context.Background()

	tx, err := service.Credit(ctx, owner, "10.00", "Add Money", domain.CategoryTopUp, "")
	require.NoError(t, err)
	require.NotEmpty(t, tx.ID)

	balance, err := service.Balance(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "110.00", balance)
}
