package qrservice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/randompkg"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

const (
	testNonce = "nonce-1"
	testTTL   = 5 * time.Minute
)

func newTestService(ledger Ledger) (*Service, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()

	s := New(client, ledger, testTTL)
	s.now = func() time.Time { return testNow }
	s.newNonce = func() string { return testNonce }

	return s, mock
}

func testRequest(merchant string) domain.PaymentRequest {
	return domain.PaymentRequest{
		Merchant:    merchant,
		Amount:      "42.50",
		Description: "veg box",
		Nonce:       testNonce,
		IssuedAt:    testNow.Unix(),
	}
}

func encode(t *testing.T, request domain.PaymentRequest) string {
	t.Helper()

	payload, err := json.Marshal(request)
	require.NoError(t, err)

	return base64.RawURLEncoding.EncodeToString(payload)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	merchant := randompkg.Owner()
	want := testRequest(merchant)

	payload, err := json.Marshal(want)
	require.NoError(t, err)

	service, mock := newTestService(nil)
	mock.ExpectSet("wallet:qr:"+testNonce, payload, testTTL).SetVal("OK")

	code, err := service.Generate(context.Background(), merchant, want.Amount, want.Description)
	require.NoError(t, err)
	require.Equal(t, want, code.Request)
	require.Equal(t, base64.RawURLEncoding.EncodeToString(payload), code.Code)
	require.NoError(t, mock.ExpectationsWereMet())

	// The image must be decodable base64 holding a PNG.
	png, err := base64.StdEncoding.DecodeString(code.PNG)
	require.NoError(t, err)
	require.Equal(t, "\x89PNG", string(png[:4]))
}

func TestGenerateInvalidAmount(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(nil)

	for _, amount := range []string{"", "0.00", "-5.00", "1.005", "abc"} {
		_, err := service.Generate(context.Background(), "merchant", amount, "")
		require.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %q", amount)
	}
}

func TestPay(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()
	merchant := randompkg.Owner()
	request := testRequest(merchant)

	stored, err := json.Marshal(request)
	require.NoError(t, err)

	storedPayload := string(stored)

	paidTx := domain.Transaction{
		ID:           "tx1",
		Direction:    domain.DirectionSent,
		Amount:       request.Amount,
		Counterparty: merchant,
		Category:     domain.CategoryQRPayment,
		Status:       domain.StatusCompleted,
	}

	testCases := []struct {
		name           string
		code           func(t *testing.T) string
		overrideAmount string
		buildStubs     func(mock redismock.ClientMock, ledger *MockLedger)
		checkResponse  func(t *testing.T, tx domain.Transaction, err error)
	}{
		{
			name: "OK",
			code: func(t *testing.T) string { return encode(t, request) },
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				mock.ExpectGetDel("wallet:qr:" + testNonce).SetVal("1")
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Eq(owner), gomock.Eq(request.Amount), gomock.Eq(merchant), gomock.Eq(domain.CategoryQRPayment), gomock.Eq("veg box")).
					Times(1).
					Return(paidTx, nil)
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, paidTx, tx)
			},
		},
		{
			name: "ExpiredNonce",
			code: func(t *testing.T) string { return encode(t, request) },
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				mock.ExpectGetDel("wallet:qr:" + testNonce).RedisNil()
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrQRExpired)
			},
		},
		{
			name:           "OverrideAmount",
			code:           func(t *testing.T) string { return encode(t, request) },
			overrideAmount: "10.00",
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				mock.ExpectGetDel("wallet:qr:" + testNonce).SetVal("1")
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Eq(owner), gomock.Eq("10.00"), gomock.Eq(merchant), gomock.Eq(domain.CategoryQRPayment), gomock.Eq("veg box")).
					Times(1).
					Return(paidTx, nil)
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "LegacyCodeSkipsNonce",
			code: func(t *testing.T) string { return "vpa:" + merchant + ":42.50:veg box" },
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				// No Redis expectations: legacy codes carry no nonce.
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Eq(owner), gomock.Eq("42.50"), gomock.Eq(merchant), gomock.Eq(domain.CategoryQRPayment), gomock.Eq("veg box")).
					Times(1).
					Return(paidTx, nil)
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "MalformedCode",
			code: func(t *testing.T) string { return "!!not a code!!" },
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrQRMalformed)
			},
		},
		{
			name: "MalformedLegacyCode",
			code: func(t *testing.T) string { return "vpa:merchant-only" },
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrQRMalformed)
			},
		},
		{
			name: "InsufficientBalanceRearmsNonce",
			code: func(t *testing.T) string { return encode(t, request) },
			buildStubs: func(mock redismock.ClientMock, ledger *MockLedger) {
				mock.ExpectGetDel("wallet:qr:" + testNonce).SetVal(storedPayload)
				ledger.EXPECT().
					Debit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, domain.ErrInsufficientBalance)
				// The failed debit restores the nonce so the payer can top up
				// and scan the same code again.
				mock.ExpectSet("wallet:qr:"+testNonce, storedPayload, testTTL).SetVal("OK")
			},
			checkResponse: func(t *testing.T, tx domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ledger := NewMockLedger(ctrl)

			service, mock := newTestService(ledger)
			tc.buildStubs(mock, ledger)

			tx, err := service.Pay(context.Background(), owner, tc.code(t), tc.overrideAmount)
			tc.checkResponse(t, tx, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
