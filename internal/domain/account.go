package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the owner already has a wallet account.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
)

// Account holds the wallet account of one user. The running balance lives in
// the ledger service; the row only carries the balance the ledger is seeded
// with when no snapshot exists yet.
type Account struct {
	ID              string    `json:"id"`
	Owner           string    `json:"owner"`
	StartingBalance string    `json:"starting_balance"`
	CreatedAt       time.Time `json:"created_at"`
}
