// Package reviewdelivery manages delivery layer of contacts and reviews.
package reviewdelivery

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

// Service provides service layer interface needed by review delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package reviewdelivery
type Service interface {
	AddContact(ctx context.Context, owner, name, email string) (domain.Contact, error)
	Contacts(ctx context.Context, owner string) ([]domain.Contact, error)
	Reviews(ctx context.Context, owner, contactID string) ([]domain.Review, error)
	Submit(ctx context.Context, owner string, arg domain.CreateReviewParams) (domain.Review, domain.Contact, error)
}

// Handler facilitates review delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns review handler.
func NewHandler(rs Service) *Handler {
	return &Handler{service: rs}
}

type addContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

type contactData struct {
	Contact domain.Contact `json:"contact"`
}
type contactResponse struct {
	Data contactData `json:"data,omitempty"`
}

// AddContact handles http request to add a contact.
func (h *Handler) AddContact(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addContactRequest
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

	contact, err := h.service.AddContact(ctx, authPayload.Username, req.Name, req.Email)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, contactResponse{Data: contactData{contact}})
}

type contactsData struct {
	Contacts []domain.Contact `json:"contacts"`
}
type contactsResponse struct {
	Data contactsData `json:"data,omitempty"`
}

// Contacts handles http request to list the owner's contacts with their
// trust data.
func (h *Handler) Contacts(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	contacts, err := h.service.Contacts(ctx, authPayload.Username)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, contactsResponse{Data: contactsData{contacts}})
}

type contactURI struct {
	ID string `uri:"id" binding:"required"`
}

type reviewsData struct {
	Reviews []domain.Review `json:"reviews"`
}
type reviewsResponse struct {
	Data reviewsData `json:"data,omitempty"`
}

// Reviews handles http request to list a contact's reviews, newest first.
func (h *Handler) Reviews(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri contactURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	reviews, err := h.service.Reviews(ctx, authPayload.Username, uri.ID)
	if err != nil {
		if err == domain.ErrContactNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, reviewsResponse{Data: reviewsData{reviews}})
}

type submitRequest struct {
	Rating     int16    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string   `json:"comment" binding:"max=500"`
	Categories []string `json:"categories" binding:"omitempty,dive,oneof=spam fraud criminal"`
}

type submitData struct {
	Review  domain.Review  `json:"review"`
	Contact domain.Contact `json:"contact"`
}
type submitResponse struct {
	Data submitData `json:"data,omitempty"`
}

// Submit handles http request to review a contact. The review fee is charged
// before the review is recorded.
func (h *Handler) Submit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri contactURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req submitRequest
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

	arg := domain.CreateReviewParams{
		ContactID:  uri.ID,
		Author:     authPayload.Username,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Categories: req.Categories,
	}

	review, contact, err := h.service.Submit(ctx, authPayload.Username, arg)
	if err != nil {
		switch err {
		case domain.ErrContactNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidRating:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
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

	gctx.JSON(http.StatusOK, submitResponse{Data: submitData{Review: review, Contact: contact}})
}
