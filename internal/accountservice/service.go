// Package accountservice manages business logic layer of wallet accounts.
package accountservice

import (
	"context"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, owner, startingBalance string) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates and returns the wallet account for the given owner, seeded
// with the given starting balance.
func (s *Service) Create(ctx context.Context, owner, startingBalance string) (domain.Account, error) {
	account, err := s.repo.Create(ctx, owner, startingBalance)
	if err != nil {
		return account, err
	}

	return account, nil
}

// GetByOwner returns the wallet account of the given owner.
func (s *Service) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	account, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return account, err
	}

	return account, nil
}
