package complaintservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/randompkg"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repo, ledger Ledger) *Service {
	s := New(repo, ledger)
	s.now = func() time.Time { return testNow }
	return s
}

func TestFile(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()

	arg := domain.CreateComplaintParams{
		Owner:       owner,
		Against:     "Sneaky Pete",
		Description: "goods never arrived",
	}

	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	ledger := NewMockLedger(ctrl)

	// Filing a plain complaint never touches the ledger.
	ledger.EXPECT().
		Debit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(0)
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, c domain.Complaint) (domain.Complaint, error) {
			c.ID = "cm1"
			c.CreatedAt = testNow
			return c, nil
		})

	complaint, err := newTestService(repo, ledger).File(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, domain.KindComplaint, complaint.Kind)
	require.Equal(t, domain.ComplaintPending, complaint.Status)
	require.Len(t, complaint.Timeline, 1)
	require.Equal(t, "Complaint registered", complaint.Timeline[0].Action)
	require.Equal(t, testNow, complaint.Timeline[0].Date)
}

func TestReportFraud(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()

	arg := domain.CreateComplaintParams{
		Owner:          owner,
		Against:        "Sneaky Pete",
		TransactionRef: "tx42",
		Description:    "unauthorized payment",
	}

	testCases := []struct {
		name          string
		buildStubs    func(repo *MockRepo, ledger *MockLedger)
		checkResponse func(t *testing.T, complaint domain.Complaint, err error)
	}{
		{
			name: "OK",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Eq(owner), gomock.Eq(Fee), gomock.Eq("Fraud Authority"), gomock.Eq(domain.CategoryFraudFee), gomock.Eq("Fraud report fee")).
					Times(1).
					Return(domain.Transaction{Amount: Fee}, nil)
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, c domain.Complaint) (domain.Complaint, error) {
						c.ID = "cm2"
						return c, nil
					})
			},
			checkResponse: func(t *testing.T, complaint domain.Complaint, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.KindFraudReport, complaint.Kind)
				require.Equal(t, domain.ComplaintPending, complaint.Status)
				require.Equal(t, "Fraud report registered", complaint.Timeline[0].Action)
			},
		},
		{
			name: "InsufficientBalanceRecordsNoReport",
			buildStubs: func(repo *MockRepo, ledger *MockLedger) {
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, domain.ErrInsufficientBalance)
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(t *testing.T, complaint domain.Complaint, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
				require.Empty(t, complaint)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			ledger := NewMockLedger(ctrl)
			tc.buildStubs(repo, ledger)

			complaint, err := newTestService(repo, ledger).ReportFraud(context.Background(), arg)
			tc.checkResponse(t, complaint, err)
		})
	}
}
