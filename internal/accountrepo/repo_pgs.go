// Package accountrepo manages repository layer of wallet accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/dbpkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO accounts (
    id,
    owner,
    starting_balance
) VALUES (
    $1, $2, $3
) RETURNING id, owner, starting_balance, created_at
`

// Create creates the wallet account for the owner and then returns it.
func (r *RepoPGS) Create(ctx context.Context, owner, startingBalance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, uuid.NewString(), owner, startingBalance)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Owner,
		&a.StartingBalance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %v, %v)", owner, startingBalance)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_owner_key":
				return a, domain.ErrAccountAlreadyExists
			case "accounts_owner_fkey":
				return a, domain.ErrOwnerNotFound
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByOwnerQuery = `
SELECT
    id, owner, starting_balance, created_at
FROM accounts
WHERE owner = $1
`

// GetByOwner returns the wallet account of the given owner.
func (r *RepoPGS) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByOwnerQuery, owner)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Owner,
		&a.StartingBalance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
