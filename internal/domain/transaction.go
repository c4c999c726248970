// Package domain provides definitions of all entities.
package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates a non-positive, non-finite or malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Direction tells whether a transaction moved money out of or into the account.
type Direction string

// All transaction directions.
const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Status of a transaction. Every mutation commits immediately, so the ledger
// only ever produces StatusCompleted; the other values are accepted when
// restoring snapshots written by older clients.
type Status string

// All transaction statuses.
const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Common transaction categories used by the feature services. The field is
// free text; these are the labels the built-in flows attach.
const (
	CategoryTransfer  = "Transfer"
	CategoryTopUp     = "Top-up"
	CategoryQRPayment = "QR Payment"
	CategoryReviewFee = "Review Fee"
	CategoryFraudFee  = "Fraud Fee"
)

// Transaction is an immutable record of one balance change.
type Transaction struct {
	ID           string    `json:"id"`
	Direction    Direction `json:"direction"`
	Amount       string    `json:"amount"` // positive, two decimals
	Counterparty string    `json:"counterparty"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Snapshot is the persisted state of one account: the balance and the full
// transaction log, newest first.
type Snapshot struct {
	Balance      json.Number   `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// ErrSnapshotNotFound indicates that no snapshot exists for the account.
var ErrSnapshotNotFound = errors.New("snapshot not found")
