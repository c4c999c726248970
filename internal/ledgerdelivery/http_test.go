package ledgerdelivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/internal/middleware"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/randompkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/tokenpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/web"
)

func newTestServer(t *testing.T, service Service) (*gin.Engine, tokenpkg.Maker) {
	t.Helper()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	handler := NewHandler(service)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.GET("/balance", handler.Balance)
	authRoutes.GET("/transactions", handler.Transactions)

	return server, tokenMaker
}

func TestBalance(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()

	testCases := []struct {
		name          string
		setupAuth     func(t *testing.T, r *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			setupAuth: func(t *testing.T, r *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, owner, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Balance(gomock.Any(), gomock.Eq(owner)).
					Times(1).
					Return("75.00", nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got balanceResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, "75.00", got.Data.Balance)
			},
		},
		{
			name:      "NoAuthorization",
			setupAuth: func(t *testing.T, r *http.Request, tokenMaker tokenpkg.Maker) {},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Balance(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "AccountNotFound",
			setupAuth: func(t *testing.T, r *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, owner, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Balance(gomock.Any(), gomock.Any()).
					Times(1).
					Return("", domain.ErrAccountNotFound)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "InternalError",
			setupAuth: func(t *testing.T, r *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, owner, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Balance(gomock.Any(), gomock.Any()).
					Times(1).
					Return("", errorspkg.ErrInternal)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)

				var got web.Response
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, errorspkg.ErrInternal.Error(), got.Error)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server, tokenMaker := newTestServer(t, service)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, "/balance", nil)
			require.NoError(t, err)

			tc.setupAuth(t, request, tokenMaker)
			server.ServeHTTP(recorder, request)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestTransactions(t *testing.T) {
	t.Parallel()

	owner := randompkg.Owner()

	txs := []domain.Transaction{
		{
			ID:           "tx2",
			Direction:    domain.DirectionReceived,
			Amount:       "100.00",
			Counterparty: "Visa •4242",
			Category:     domain.CategoryTopUp,
			Status:       domain.StatusCompleted,
			CreatedAt:    time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:           "tx1",
			Direction:    domain.DirectionSent,
			Amount:       "25.00",
			Counterparty: "Sarah Johnson",
			Category:     domain.CategoryTransfer,
			Status:       domain.StatusCompleted,
			CreatedAt:    time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	service.EXPECT().
		Transactions(gomock.Any(), gomock.Eq(owner)).
		Times(1).
		Return(txs, nil)

	server, tokenMaker := newTestServer(t, service)

	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodGet, "/transactions", nil)
	require.NoError(t, err)

	err = middleware.AddAuthorization(request, tokenMaker, middleware.AuthTypeBearer, owner, time.Minute)
	require.NoError(t, err)

	server.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var got transactionsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
	require.Len(t, got.Data.Transactions, 2)
	require.Equal(t, "tx2", got.Data.Transactions[0].ID)
	require.Equal(t, "tx1", got.Data.Transactions[1].ID)
}
