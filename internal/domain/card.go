package domain

import (
	"errors"
	"time"
)

var (
	// ErrCardNotFound indicates that the card is not found.
	ErrCardNotFound = errors.New("card not found")
	// ErrCardExpired indicates that the card expiry date has passed.
	ErrCardExpired = errors.New("card expired")
)

// Card brands accepted for top-ups.
const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "Amex"
	BrandDiscover   = "Discover"
	BrandOther      = "Other"
)

// Card is a saved card used to top up the wallet. Only the display data is
// kept; full card numbers never reach the backend.
type Card struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	HolderName string    `json:"holder_name"`
	Last4      string    `json:"last4"`
	Brand      string    `json:"brand"`
	ExpMonth   int32     `json:"exp_month"`
	ExpYear    int32     `json:"exp_year"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCardParams is the input data to save a card.
type CreateCardParams struct {
	Owner      string `json:"owner"`
	HolderName string `json:"holder_name"`
	Last4      string `json:"last4"`
	Brand      string `json:"brand"`
	ExpMonth   int32  `json:"exp_month"`
	ExpYear    int32  `json:"exp_year"`
}
