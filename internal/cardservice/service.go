// Package cardservice manages business logic layer of saved cards and
// card-funded wallet top-ups.
package cardservice

import (
	"context"
	"time"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
)

// Repo provides data access layer interface needed by card service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package cardservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateCardParams) (domain.Card, error)
	Get(ctx context.Context, owner, id string) (domain.Card, error)
	List(ctx context.Context, owner string) ([]domain.Card, error)
	Delete(ctx context.Context, owner, id string) error
}

// Ledger provides the balance mutation interface needed by card service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package cardservice
type Ledger interface {
	Credit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error)
}

// Service facilitates card service layer logic.
type Service struct {
	repo   Repo
	ledger Ledger
	now    func() time.Time
}

// New returns card service struct to manage card business logic.
func New(cr Repo, ledger Ledger) *Service {
	return &Service{
		repo:   cr,
		ledger: ledger,
		now:    time.Now,
	}
}

// Add saves a card after checking that its expiry date has not passed.
func (s *Service) Add(ctx context.Context, arg domain.CreateCardParams) (domain.Card, error) {
	if s.expired(arg.ExpMonth, arg.ExpYear) {
		return domain.Card{}, domain.ErrCardExpired
	}

	card, err := s.repo.Create(ctx, arg)
	if err != nil {
		return card, err
	}

	return card, nil
}

// List returns the owner's saved cards.
func (s *Service) List(ctx context.Context, owner string) ([]domain.Card, error) {
	return s.repo.List(ctx, owner)
}

// Remove deletes the owner's card.
func (s *Service) Remove(ctx context.Context, owner, id string) error {
	return s.repo.Delete(ctx, owner, id)
}

// TopUp credits the wallet with a simulated charge against one of the
// owner's saved cards.
func (s *Service) TopUp(ctx context.Context, owner, cardID, amount string) (domain.Transaction, error) {
	card, err := s.repo.Get(ctx, owner, cardID)
	if err != nil {
		return domain.Transaction{}, err
	}

	if s.expired(card.ExpMonth, card.ExpYear) {
		return domain.Transaction{}, domain.ErrCardExpired
	}

	counterparty := card.Brand + " •" + card.Last4

	tx, err := s.ledger.Credit(ctx, owner, amount, counterparty, domain.CategoryTopUp, "Wallet top-up")
	if err != nil {
		return domain.Transaction{}, err
	}

	return tx, nil
}

// expired reports whether the expiry month has fully passed.
func (s *Service) expired(month, year int32) bool {
	now := s.now().UTC()

	if year != int32(now.Year()) {
		return year < int32(now.Year())
	}

	return month < int32(now.Month())
}
