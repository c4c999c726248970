package domain

import "errors"

var (
	// ErrQRExpired indicates that the payment request nonce is unknown or expired.
	ErrQRExpired = errors.New("payment request expired")
	// ErrQRMalformed indicates that the scanned code is not a payment request.
	ErrQRMalformed = errors.New("malformed payment request")
)

// PaymentRequest is the payload carried by a payment QR code.
type PaymentRequest struct {
	Merchant    string `json:"merchant"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Nonce       string `json:"nonce"`
	IssuedAt    int64  `json:"issued_at"`
}
