// Package carddelivery manages delivery layer of saved cards and top-ups.
package carddelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/internal/middleware"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/tokenpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/web"
)

// Service provides service layer interface needed by card delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package carddelivery
type Service interface {
	Add(ctx context.Context, arg domain.CreateCardParams) (domain.Card, error)
	List(ctx context.Context, owner string) ([]domain.Card, error)
	Remove(ctx context.Context, owner, id string) error
	TopUp(ctx context.Context, owner, cardID, amount string) (domain.Transaction, error)
}

// Handler facilitates card delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns card handler.
func NewHandler(cs Service) *Handler {
	return &Handler{service: cs}
}

type addRequest struct {
	HolderName string `json:"holder_name" binding:"required"`
	Last4      string `json:"last4" binding:"required,len=4,numeric"`
	Brand      string `json:"brand" binding:"required,oneof=Visa Mastercard Amex Discover Other"`
	ExpMonth   int32  `json:"exp_month" binding:"required,min=1,max=12"`
	ExpYear    int32  `json:"exp_year" binding:"required,min=2000"`
}

type cardData struct {
	Card domain.Card `json:"card"`
}
type cardResponse struct {
	Data cardData `json:"data,omitempty"`
}

// Add handles http request to save a card.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	card, err := h.service.Add(ctx, domain.CreateCardParams{
		Owner:      authPayload.Username,
		HolderName: req.HolderName,
		Last4:      req.Last4,
		Brand:      req.Brand,
		ExpMonth:   req.ExpMonth,
		ExpYear:    req.ExpYear,
	})
	if err != nil {
		if err == domain.ErrCardExpired {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, cardResponse{Data: cardData{card}})
}

type cardsData struct {
	Cards []domain.Card `json:"cards"`
}
type cardsResponse struct {
	Data cardsData `json:"data,omitempty"`
}

// List handles http request to list the owner's saved cards.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	cards, err := h.service.List(ctx, authPayload.Username)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, cardsResponse{Data: cardsData{cards}})
}

type removeRequest struct {
	ID string `uri:"id" binding:"required"`
}

// Remove handles http request to delete a saved card.
func (h *Handler) Remove(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req removeRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	if err := h.service.Remove(ctx, authPayload.Username, req.ID); err != nil {
		if err == domain.ErrCardNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}

type topUpRequest struct {
	CardID string `json:"card_id" binding:"required"`
	Amount string `json:"amount" binding:"required,amount"`
}

type topUpData struct {
	Transaction domain.Transaction `json:"transaction"`
}
type topUpResponse struct {
	Data topUpData `json:"data,omitempty"`
}

// TopUp handles http request to credit the wallet from a saved card.
func (h *Handler) TopUp(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req topUpRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	tx, err := h.service.TopUp(ctx, authPayload.Username, req.CardID, req.Amount)
	if err != nil {
		switch err {
		case domain.ErrCardNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrCardExpired, domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, topUpResponse{Data: topUpData{tx}})
}
