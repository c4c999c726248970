// Package complaintrepo manages repository layer of complaints and fraud reports.
package complaintrepo

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/dbpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
)

// RepoPGS facilitates complaint repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns complaint RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO complaints (
    id, owner, kind, against, transaction_ref, description, reply_from_authority, status, timeline
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
) RETURNING id, owner, kind, against, transaction_ref, description, reply_from_authority, status, timeline, created_at
`

// Create files the complaint and then returns it. The timeline is stored as
// a JSON document alongside the row.
func (r *RepoPGS) Create(ctx context.Context, c domain.Complaint) (domain.Complaint, error) {
	l := zerolog.Ctx(ctx)

	timeline, err := json.Marshal(c.Timeline)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Complaint{}, errorspkg.ErrInternal
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		uuid.NewString(),
		c.Owner,
		c.Kind,
		c.Against,
		c.TransactionRef,
		c.Description,
		c.ReplyFromAuthority,
		c.Status,
		timeline,
	)

	created, err := scanComplaint(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "complaints_owner_fkey" {
				return created, domain.ErrOwnerNotFound
			}
		}

		return created, errorspkg.ErrInternal
	}

	return created, nil
}

const listQuery = `
SELECT
    id, owner, kind, against, transaction_ref, description, reply_from_authority, status, timeline, created_at
FROM complaints
WHERE owner = $1
ORDER BY created_at DESC
`

// List returns all complaints filed by the owner, newest first.
func (r *RepoPGS) List(ctx context.Context, owner string) ([]domain.Complaint, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Complaint{}

	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

func scanComplaint(row interface{ Scan(...interface{}) error }) (domain.Complaint, error) {
	var (
		c        domain.Complaint
		timeline []byte
	)

	err := row.Scan(
		&c.ID,
		&c.Owner,
		&c.Kind,
		&c.Against,
		&c.TransactionRef,
		&c.Description,
		&c.ReplyFromAuthority,
		&c.Status,
		&timeline,
		&c.CreatedAt,
	)
	if err != nil {
		return c, err
	}

	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &c.Timeline); err != nil {
			return c, err
		}
	}

	return c, nil
}
