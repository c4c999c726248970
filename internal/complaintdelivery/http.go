// Package complaintdelivery manages delivery layer of complaints and fraud
// reports.
package complaintdelivery

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

// Service provides service layer interface needed by complaint delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package complaintdelivery
type Service interface {
	File(ctx context.Context, arg domain.CreateComplaintParams) (domain.Complaint, error)
	ReportFraud(ctx context.Context, arg domain.CreateComplaintParams) (domain.Complaint, error)
	List(ctx context.Context, owner string) ([]domain.Complaint, error)
}

// Handler facilitates complaint delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns complaint handler.
func NewHandler(cs Service) *Handler {
	return &Handler{service: cs}
}

type createRequest struct {
	Against        string `json:"against" binding:"required"`
	TransactionRef string `json:"transaction_ref"`
	Description    string `json:"description" binding:"required,max=1000"`
}

type data struct {
	Complaint domain.Complaint `json:"complaint"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

func (h *Handler) bind(gctx *gin.Context) (domain.CreateComplaintParams, bool) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		} else {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		}

		return domain.CreateComplaintParams{}, false
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	return domain.CreateComplaintParams{
		Owner:          authPayload.Username,
		Against:        req.Against,
		TransactionRef: req.TransactionRef,
		Description:    req.Description,
	}, true
}

// Create handles http request to file a complaint.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	arg, ok := h.bind(gctx)
	if !ok {
		return
	}

	complaint, err := h.service.File(ctx, arg)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{complaint}})
}

// ReportFraud handles http request to file a fraud report. The processing
// fee is debited before the report is recorded.
func (h *Handler) ReportFraud(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	arg, ok := h.bind(gctx)
	if !ok {
		return
	}

	complaint, err := h.service.ReportFraud(ctx, arg)
	if err != nil {
		switch err {
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

	gctx.JSON(http.StatusOK, response{Data: data{complaint}})
}

type listData struct {
	Complaints []domain.Complaint `json:"complaints"`
}
type listResponse struct {
	Data listData `json:"data,omitempty"`
}

// List handles http request to list the owner's complaints, newest first.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	complaints, err := h.service.List(ctx, authPayload.Username)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{complaints}})
}
