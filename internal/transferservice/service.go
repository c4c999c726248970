// Package transferservice manages business logic layer of send-money transfers.
package transferservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
)

// Ledger provides the balance mutation interface needed by transfer service
// layer. All arithmetic happens inside the ledger; this service never
// touches a balance itself.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Ledger interface {
	Debit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error)
}

// Contacts provides the contact bookkeeping interface needed by transfer
// service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Contacts interface {
	UpdateLastSentByName(ctx context.Context, owner, name, amount string) error
}

// Service facilitates transfer service layer logic.
type Service struct {
	ledger   Ledger
	contacts Contacts
}

// New returns transfer service struct to manage transfer business logic.
func New(ledger Ledger, contacts Contacts) *Service {
	return &Service{
		ledger:   ledger,
		contacts: contacts,
	}
}

// Send debits the owner's wallet in favour of the given counterparty label
// (a contact name, phone number, UPI id or bank descriptor). The debit is
// all-or-nothing: on insufficient balance nothing is recorded.
func (s *Service) Send(ctx context.Context, owner, counterparty, amount, description string) (domain.Transaction, error) {
	tx, err := s.ledger.Debit(ctx, owner, amount, counterparty, domain.CategoryTransfer, description)
	if err != nil {
		return domain.Transaction{}, err
	}

	// Contact bookkeeping is best effort; the transfer is already committed.
	if err := s.contacts.UpdateLastSentByName(ctx, owner, counterparty, tx.Amount); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("counterparty", counterparty).Msg("last sent update failed")
	}

	return tx, nil
}
