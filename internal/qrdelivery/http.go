// Package qrdelivery manages delivery layer of QR payment requests.
package qrdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/internal/middleware"
	"github.com/shobh123/pay-securely-and-carefree/internal/qrservice"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/tokenpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/web"
)

// Service provides service layer interface needed by QR delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package qrdelivery
type Service interface {
	Generate(ctx context.Context, merchant, amount, description string) (qrservice.Code, error)
	Pay(ctx context.Context, owner, code, overrideAmount string) (domain.Transaction, error)
}

// Handler facilitates QR delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns QR handler.
func NewHandler(qs Service) *Handler {
	return &Handler{service: qs}
}

type generateRequest struct {
	Amount      string `json:"amount" binding:"required,amount"`
	Description string `json:"description" binding:"max=140"`
}

type generateData struct {
	Code qrservice.Code `json:"code"`
}
type generateResponse struct {
	Data generateData `json:"data,omitempty"`
}

// Generate handles http request to create a payment request QR for the
// authenticated user.
func (h *Handler) Generate(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req generateRequest
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

	code, err := h.service.Generate(ctx, authPayload.Username, req.Amount, req.Description)
	if err != nil {
		if err == domain.ErrInvalidAmount {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, generateResponse{Data: generateData{code}})
}

type payRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount string `json:"amount" binding:"omitempty,amount"`
}

type payData struct {
	Transaction domain.Transaction `json:"transaction"`
}
type payResponse struct {
	Data payData `json:"data,omitempty"`
}

// Pay handles http request to pay a scanned code.
func (h *Handler) Pay(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req payRequest
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

	tx, err := h.service.Pay(ctx, authPayload.Username, req.Code, req.Amount)
	if err != nil {
		switch err {
		case domain.ErrQRMalformed, domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrQRExpired:
			gctx.JSON(http.StatusGone, web.Error(err))
			return
		case domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, payResponse{Data: payData{tx}})
}
