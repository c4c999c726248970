// Package ledgerdelivery manages delivery layer of balances and transaction
// history.
package ledgerdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/internal/middleware"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/tokenpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Balance(ctx context.Context, owner string) (string, error)
	Transactions(ctx context.Context, owner string) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type balanceData struct {
	Balance string `json:"balance"`
}
type balanceResponse struct {
	Data balanceData `json:"data,omitempty"`
}

// Balance handles http request to get the owner's current balance.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	balance, err := h.service.Balance(ctx, authPayload.Username)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, balanceResponse{Data: balanceData{balance}})
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}
type transactionsResponse struct {
	Data transactionsData `json:"data,omitempty"`
}

// Transactions handles http request to list the owner's transactions, newest
// first.
func (h *Handler) Transactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.Transactions(ctx, authPayload.Username)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, transactionsResponse{Data: transactionsData{transactions}})
}
