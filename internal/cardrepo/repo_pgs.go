// Package cardrepo manages repository layer of saved cards.
package cardrepo

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

// RepoPGS facilitates card repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns card RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO cards (
    id, owner, holder_name, last4, brand, exp_month, exp_year
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
) RETURNING id, owner, holder_name, last4, brand, exp_month, exp_year, created_at
`

// Create saves the card and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateCardParams) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		uuid.NewString(),
		arg.Owner,
		arg.HolderName,
		arg.Last4,
		arg.Brand,
		arg.ExpMonth,
		arg.ExpYear,
	)

	var c domain.Card

	err := row.Scan(
		&c.ID,
		&c.Owner,
		&c.HolderName,
		&c.Last4,
		&c.Brand,
		&c.ExpMonth,
		&c.ExpYear,
		&c.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "cards_owner_fkey" {
				return c, domain.ErrOwnerNotFound
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT
    id, owner, holder_name, last4, brand, exp_month, exp_year, created_at
FROM cards
WHERE owner = $1 AND id = $2
`

// Get returns the owner's card with the given id.
func (r *RepoPGS) Get(ctx context.Context, owner, id string) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, owner, id)

	var c domain.Card

	err := row.Scan(
		&c.ID,
		&c.Owner,
		&c.HolderName,
		&c.Last4,
		&c.Brand,
		&c.ExpMonth,
		&c.ExpYear,
		&c.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return c, domain.ErrCardNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listQuery = `
SELECT
    id, owner, holder_name, last4, brand, exp_month, exp_year, created_at
FROM cards
WHERE owner = $1
ORDER BY created_at DESC
`

// List returns all saved cards of the owner, newest first.
func (r *RepoPGS) List(ctx context.Context, owner string) ([]domain.Card, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Card{}

	for rows.Next() {
		var c domain.Card

		err := rows.Scan(
			&c.ID,
			&c.Owner,
			&c.HolderName,
			&c.Last4,
			&c.Brand,
			&c.ExpMonth,
			&c.ExpYear,
			&c.CreatedAt,
		)
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

const deleteQuery = `
DELETE FROM cards
WHERE owner = $1 AND id = $2
`

// Delete removes the owner's card with the given id.
func (r *RepoPGS) Delete(ctx context.Context, owner, id string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, owner, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	affected, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if affected == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}
