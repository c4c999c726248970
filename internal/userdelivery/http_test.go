package userdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/configpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/randompkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/web"
)

func newTestServer(service Service, accounts AccountOpener, sessionMaker SessionMaker) *gin.Engine {
	config := configpkg.Config{StartingBalance: "1000.00"}
	handler := NewHandler(service, accounts, sessionMaker, config)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.POST("/users", handler.Create)
	server.POST("/users/login", handler.Login)

	return server
}

func TestCreate(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()
	email := randompkg.Email()

	user := domain.UserWithoutPassword{
		Username: username,
		FullName: "Test User",
		Email:    email,
	}

	testCases := []struct {
		name           string
		body           gin.H
		buildStubs     func(service *MockService, accounts *MockAccountOpener, sessionMaker *MockSessionMaker)
		wantStatusCode int
		checkResponse  func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			body: gin.H{
				"username": username,
				"password": "secret123",
				"fullname": "Test User",
				"email":    email,
			},
			buildStubs: func(service *MockService, accounts *MockAccountOpener, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq("secret123"), gomock.Eq("Test User"), gomock.Eq(email), gomock.Eq("")).
					Times(1).
					Return(user, nil)
				accounts.EXPECT().
					Create(gomock.Any(), gomock.Eq(username), gomock.Eq("1000.00")).
					Times(1).
					Return(domain.Account{ID: "acc1", Owner: username, StartingBalance: "1000.00"}, nil)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("access", time.Now().Add(time.Minute), domain.Session{RefreshToken: "refresh"}, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				var got web.Response
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, "access", got.AccessToken)
				require.Equal(t, "refresh", got.RefreshToken)
				require.Empty(t, got.Error)
			},
		},
		{
			name: "UsernameTaken",
			body: gin.H{
				"username": username,
				"password": "secret123",
				"fullname": "Test User",
				"email":    email,
			},
			buildStubs: func(service *MockService, accounts *MockAccountOpener, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWithoutPassword{}, domain.ErrUsernameAlreadyExists)
				accounts.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "InvalidEmail",
			body: gin.H{
				"username": username,
				"password": "secret123",
				"fullname": "Test User",
				"email":    "not-an-email",
			},
			buildStubs: func(service *MockService, accounts *MockAccountOpener, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "AccountOpenFailure",
			body: gin.H{
				"username": username,
				"password": "secret123",
				"fullname": "Test User",
				"email":    email,
			},
			buildStubs: func(service *MockService, accounts *MockAccountOpener, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(user, nil)
				accounts.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			accounts := NewMockAccountOpener(ctrl)
			sessionMaker := NewMockSessionMaker(ctrl)
			tc.buildStubs(service, accounts, sessionMaker)

			server := newTestServer(service, accounts, sessionMaker)

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
			require.NoError(t, err)

			server.ServeHTTP(recorder, request)
			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, recorder)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()

	user := domain.UserWithoutPassword{
		Username: username,
		FullName: "Test User",
	}

	testCases := []struct {
		name           string
		body           gin.H
		buildStubs     func(service *MockService, sessionMaker *MockSessionMaker)
		wantStatusCode int
	}{
		{
			name: "OK",
			body: gin.H{"username": username, "password": "secret123"},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					CheckPassword(gomock.Any(), gomock.Eq(username), gomock.Eq("secret123")).
					Times(1).
					Return(user, nil)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("access", time.Now().Add(time.Minute), domain.Session{RefreshToken: "refresh"}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "WrongPassword",
			body: gin.H{"username": username, "password": "badpass1"},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWithoutPassword{}, domain.ErrWrongPassword)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "UserNotFound",
			body: gin.H{"username": username, "password": "secret123"},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWithoutPassword{}, domain.ErrUserNotFound)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			accounts := NewMockAccountOpener(ctrl)
			sessionMaker := NewMockSessionMaker(ctrl)
			tc.buildStubs(service, sessionMaker)

			server := newTestServer(service, accounts, sessionMaker)

			body, err := json.Marshal(tc.body)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(body))
			require.NoError(t, err)

			server.ServeHTTP(recorder, request)
			require.Equal(t, tc.wantStatusCode, recorder.Code)
		})
	}
}
