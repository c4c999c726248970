// Package complaintservice manages business logic layer of complaints and
// fraud reports.
package complaintservice

import (
	"context"
	"time"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
)

// Fee charged for filing a fraud report. Plain complaints are free.
const Fee = "5.00"

// Repo provides data access layer interface needed by complaint service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package complaintservice
type Repo interface {
	Create(ctx context.Context, c domain.Complaint) (domain.Complaint, error)
	List(ctx context.Context, owner string) ([]domain.Complaint, error)
}

// Ledger provides the balance mutation interface needed by complaint service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package complaintservice
type Ledger interface {
	Debit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error)
}

// Service facilitates complaint service layer logic.
type Service struct {
	repo   Repo
	ledger Ledger

	now func() time.Time
}

// New returns complaint service struct to manage complaint business logic.
func New(cr Repo, ledger Ledger) *Service {
	return &Service{
		repo:   cr,
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// File records a plain complaint. Filing is free and the complaint starts in
// the pending state with a single timeline entry.
func (s *Service) File(ctx context.Context, arg domain.CreateComplaintParams) (domain.Complaint, error) {
	return s.repo.Create(ctx, s.build(arg, domain.KindComplaint, "Complaint registered"))
}

// ReportFraud records a fraud report. The processing fee is debited first;
// when the debit fails the report is not recorded at all.
func (s *Service) ReportFraud(ctx context.Context, arg domain.CreateComplaintParams) (domain.Complaint, error) {
	if _, err := s.ledger.Debit(ctx, arg.Owner, Fee, "Fraud Authority", domain.CategoryFraudFee, "Fraud report fee"); err != nil {
		return domain.Complaint{}, err
	}

	return s.repo.Create(ctx, s.build(arg, domain.KindFraudReport, "Fraud report registered"))
}

// List returns the owner's complaints and fraud reports, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]domain.Complaint, error) {
	return s.repo.List(ctx, owner)
}

func (s *Service) build(arg domain.CreateComplaintParams, kind domain.ComplaintKind, action string) domain.Complaint {
	return domain.Complaint{
		Owner:          arg.Owner,
		Kind:           kind,
		Against:        arg.Against,
		TransactionRef: arg.TransactionRef,
		Description:    arg.Description,
		Status:         domain.ComplaintPending,
		Timeline: []domain.TimelineEvent{
			{
				Date:    s.now(),
				Action:  action,
				Officer: "System",
			},
		},
	}
}
