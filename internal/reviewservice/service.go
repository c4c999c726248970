// Package reviewservice manages business logic layer of contacts and their
// community reviews.
package reviewservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
)

// Fee charged for submitting a review.
const Fee = "5.00"

// Trust score thresholds over the running review average.
const (
	trustHighMin   = 4.0
	trustMediumMin = 3.0
)

// Repo provides data access layer interface needed by review service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package reviewservice
type Repo interface {
	Create(ctx context.Context, owner, name, email string) (domain.Contact, error)
	Get(ctx context.Context, owner, id string) (domain.Contact, error)
	List(ctx context.Context, owner string) ([]domain.Contact, error)
	UpdateTrust(ctx context.Context, c domain.Contact) (domain.Contact, error)
	CreateReview(ctx context.Context, arg domain.CreateReviewParams, verified bool) (domain.Review, error)
	ListReviews(ctx context.Context, contactID string) ([]domain.Review, error)
}

// Ledger provides the balance mutation interface needed by review service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package reviewservice
type Ledger interface {
	Debit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error)
}

// Service facilitates review service layer logic.
type Service struct {
	repo   Repo
	ledger Ledger
}

// New returns review service struct to manage review business logic.
func New(cr Repo, ledger Ledger) *Service {
	return &Service{
		repo:   cr,
		ledger: ledger,
	}
}

// AddContact creates a contact for the owner.
func (s *Service) AddContact(ctx context.Context, owner, name, email string) (domain.Contact, error) {
	return s.repo.Create(ctx, owner, name, email)
}

// Contacts returns the owner's contacts.
func (s *Service) Contacts(ctx context.Context, owner string) ([]domain.Contact, error) {
	return s.repo.List(ctx, owner)
}

// Reviews returns the reviews of the owner's contact, newest first.
func (s *Service) Reviews(ctx context.Context, owner, contactID string) ([]domain.Review, error) {
	// Scope check: the contact must belong to the owner.
	if _, err := s.repo.Get(ctx, owner, contactID); err != nil {
		return nil, err
	}

	return s.repo.ListReviews(ctx, contactID)
}

// Submit records a review of the owner's contact. The review fee is debited
// first; when the debit fails the review is not recorded at all. The
// contact's rating average, trust score and flag counters are recomputed
// from the accepted review.
func (s *Service) Submit(ctx context.Context, owner string, arg domain.CreateReviewParams) (domain.Review, domain.Contact, error) {
	l := zerolog.Ctx(ctx)

	if arg.Rating < 1 || arg.Rating > 5 {
		return domain.Review{}, domain.Contact{}, domain.ErrInvalidRating
	}

	contact, err := s.repo.Get(ctx, owner, arg.ContactID)
	if err != nil {
		return domain.Review{}, domain.Contact{}, err
	}

	if _, err := s.ledger.Debit(ctx, owner, Fee, contact.Name, domain.CategoryReviewFee, "Review fee"); err != nil {
		return domain.Review{}, domain.Contact{}, err
	}

	review, err := s.repo.CreateReview(ctx, arg, true)
	if err != nil {
		// The fee is already committed; the ledger never rolls back.
		l.Error().Err(err).Str("contact_id", arg.ContactID).Msg("review fee charged but review not recorded")
		return domain.Review{}, domain.Contact{}, err
	}

	updated, err := s.repo.UpdateTrust(ctx, applyReview(contact, review))
	if err != nil {
		return review, contact, err
	}

	return review, updated, nil
}

// applyReview folds one new review into the contact's aggregates.
func applyReview(c domain.Contact, review domain.Review) domain.Contact {
	total := c.Rating*float64(c.ReviewCount) + float64(review.Rating)
	c.ReviewCount++
	c.Rating = total / float64(c.ReviewCount)

	for _, category := range review.Categories {
		switch category {
		case domain.ReviewFlagSpam:
			c.SpamCount++
		case domain.ReviewFlagFraud:
			c.FraudCount++
		case domain.ReviewFlagCriminal:
			c.CriminalCount++
		}
	}

	c.Flagged = c.FraudCount > 0 || c.CriminalCount > 0 || c.SpamCount >= 2

	switch {
	case c.Rating >= trustHighMin:
		c.TrustScore = domain.TrustHigh
	case c.Rating >= trustMediumMin:
		c.TrustScore = domain.TrustMedium
	default:
		c.TrustScore = domain.TrustLow
	}

	return c
}
