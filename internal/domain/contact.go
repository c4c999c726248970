package domain

import (
	"errors"
	"time"
)

var (
	// ErrContactNotFound indicates that the contact is not found.
	ErrContactNotFound = errors.New("contact not found")
	// ErrInvalidRating indicates a rating outside the 1 to 5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// TrustScore buckets a contact by its running review average.
type TrustScore string

// All trust scores.
const (
	TrustHigh   TrustScore = "high"
	TrustMedium TrustScore = "medium"
	TrustLow    TrustScore = "low"
)

// Review flag categories.
const (
	ReviewFlagSpam     = "spam"
	ReviewFlagFraud    = "fraud"
	ReviewFlagCriminal = "criminal"
)

// Contact is a payee known to one wallet owner, together with the community
// trust data shown before sending money.
type Contact struct {
	ID            string     `json:"id"`
	Owner         string     `json:"owner"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	LastSent      string     `json:"last_sent,omitempty"` // two-decimal amount
	Rating        float64    `json:"rating"`
	ReviewCount   int32      `json:"review_count"`
	TrustScore    TrustScore `json:"trust_score"`
	Flagged       bool       `json:"flagged"`
	SpamCount     int32      `json:"spam_count"`
	FraudCount    int32      `json:"fraud_count"`
	CriminalCount int32      `json:"criminal_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Review is one user's rating of a contact.
type Review struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contact_id"`
	Author     string    `json:"author"`
	Rating     int16     `json:"rating"` // 1..5
	Comment    string    `json:"comment"`
	Categories []string  `json:"categories,omitempty"` // spam, fraud, criminal
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateReviewParams is the input data to submit a review.
type CreateReviewParams struct {
	ContactID  string   `json:"contact_id"`
	Author     string   `json:"author"`
	Rating     int16    `json:"rating"`
	Comment    string   `json:"comment"`
	Categories []string `json:"categories"`
}
