// Package contactrepo manages repository layer of contacts and their reviews.
package contactrepo

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

// RepoPGS facilitates contact repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns contact RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const contactColumns = `
    id, owner, name, email, last_sent, rating, review_count, trust_score,
    flagged, spam_count, fraud_count, criminal_count, created_at
`

func scanContact(row interface{ Scan(...interface{}) error }) (domain.Contact, error) {
	var (
		c        domain.Contact
		lastSent sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.Owner,
		&c.Name,
		&c.Email,
		&lastSent,
		&c.Rating,
		&c.ReviewCount,
		&c.TrustScore,
		&c.Flagged,
		&c.SpamCount,
		&c.FraudCount,
		&c.CriminalCount,
		&c.CreatedAt,
	)

	c.LastSent = lastSent.String

	return c, err
}

const createQuery = `
INSERT INTO contacts (
    id, owner, name, email, trust_score
) VALUES (
    $1, $2, $3, $4, $5
) RETURNING` + contactColumns

// Create creates a contact for the owner and then returns it.
func (r *RepoPGS) Create(ctx context.Context, owner, name, email string) (domain.Contact, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, uuid.NewString(), owner, name, email, domain.TrustMedium)

	c, err := scanContact(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %v, %v, %v)", owner, name, email)

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "contacts_owner_fkey" {
				return c, domain.ErrOwnerNotFound
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT` + contactColumns + `
FROM contacts
WHERE owner = $1 AND id = $2
`

// Get returns the owner's contact with the given id.
func (r *RepoPGS) Get(ctx context.Context, owner, id string) (domain.Contact, error) {
	l := zerolog.Ctx(ctx)

	c, err := scanContact(r.db.QueryRowContext(ctx, getQuery, owner, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return c, domain.ErrContactNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listQuery = `
SELECT` + contactColumns + `
FROM contacts
WHERE owner = $1
ORDER BY name
`

// List returns all contacts of the owner ordered by name.
func (r *RepoPGS) List(ctx context.Context, owner string) ([]domain.Contact, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Contact{}

	for rows.Next() {
		c, err := scanContact(rows)
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

const updateLastSentQuery = `
UPDATE contacts
SET last_sent = $3
WHERE owner = $1 AND name = $2
`

// UpdateLastSentByName records the latest amount sent to the contact with
// the given display name. A missing contact is not an error: transfers to
// counterparties outside the contact list are allowed.
func (r *RepoPGS) UpdateLastSentByName(ctx context.Context, owner, name, amount string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, updateLastSentQuery, owner, name, amount); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const updateTrustQuery = `
UPDATE contacts
SET
    rating = $3,
    review_count = $4,
    trust_score = $5,
    flagged = $6,
    spam_count = $7,
    fraud_count = $8,
    criminal_count = $9
WHERE owner = $1 AND id = $2
RETURNING` + contactColumns

// UpdateTrust writes the recomputed review aggregates of the contact and
// returns the updated row.
func (r *RepoPGS) UpdateTrust(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateTrustQuery,
		c.Owner,
		c.ID,
		c.Rating,
		c.ReviewCount,
		c.TrustScore,
		c.Flagged,
		c.SpamCount,
		c.FraudCount,
		c.CriminalCount,
	)

	updated, err := scanContact(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return updated, domain.ErrContactNotFound
		}

		l.Error().Err(err).Send()

		return updated, errorspkg.ErrInternal
	}

	return updated, nil
}

const createReviewQuery = `
INSERT INTO reviews (
    id, contact_id, author, rating, comment, categories, verified
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
) RETURNING id, contact_id, author, rating, comment, categories, verified, created_at
`

// CreateReview appends a review for a contact and then returns it.
func (r *RepoPGS) CreateReview(ctx context.Context, arg domain.CreateReviewParams, verified bool) (domain.Review, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createReviewQuery,
		uuid.NewString(),
		arg.ContactID,
		arg.Author,
		arg.Rating,
		arg.Comment,
		pq.Array(arg.Categories),
		verified,
	)

	var rev domain.Review

	err := row.Scan(
		&rev.ID,
		&rev.ContactID,
		&rev.Author,
		&rev.Rating,
		&rev.Comment,
		pq.Array(&rev.Categories),
		&rev.Verified,
		&rev.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "reviews_contact_id_fkey" {
				return rev, domain.ErrContactNotFound
			}
		}

		return rev, errorspkg.ErrInternal
	}

	return rev, nil
}

const listReviewsQuery = `
SELECT
    id, contact_id, author, rating, comment, categories, verified, created_at
FROM reviews
WHERE contact_id = $1
ORDER BY created_at DESC
`

// ListReviews returns all reviews of the contact, newest first.
func (r *RepoPGS) ListReviews(ctx context.Context, contactID string) ([]domain.Review, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listReviewsQuery, contactID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Review{}

	for rows.Next() {
		var rev domain.Review

		err := rows.Scan(
			&rev.ID,
			&rev.ContactID,
			&rev.Author,
			&rev.Rating,
			&rev.Comment,
			pq.Array(&rev.Categories),
			&rev.Verified,
			&rev.CreatedAt,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, rev)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
