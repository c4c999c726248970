// Package qrservice manages business logic layer of QR payment requests.
package qrservice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/shobh123/pay-securely-and-carefree/internal/domain"
	"github.com/shobh123/pay-securely-and-carefree/pkg/errorspkg"
	"github.com/shobh123/pay-securely-and-carefree/pkg/moneypkg"
)

const (
	noncePrefix = "wallet:qr:"

	// legacyPrefix marks the old colon-separated code format still produced
	// by printed stickers: "vpa:<merchant>:<amount>:<description>".
	legacyPrefix = "vpa"

	qrImageSize = 256
)

// Ledger provides the balance mutation interface needed by QR service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package qrservice
type Ledger interface {
	Debit(ctx context.Context, owner, amount, counterparty, category, description string) (domain.Transaction, error)
}

// Code is a generated payment request together with its scannable image.
type Code struct {
	Request domain.PaymentRequest `json:"request"`
	Code    string                `json:"code"`
	PNG     string                `json:"png"` // base64-encoded image
}

// Service facilitates QR service layer logic.
type Service struct {
	client *redis.Client
	ledger Ledger
	ttl    time.Duration

	now      func() time.Time
	newNonce func() string
}

// New returns QR service struct to manage payment request business logic.
// Generated requests stay payable for ttl.
func New(client *redis.Client, ledger Ledger, ttl time.Duration) *Service {
	return &Service{
		client:   client,
		ledger:   ledger,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		newNonce: uuid.NewString,
	}
}

func nonceKey(nonce string) string {
	return noncePrefix + nonce
}

// Generate creates a single-use payment request for the merchant. The nonce
// is armed in Redis with the configured TTL; a code whose nonce has expired
// or was already spent is rejected at payment time.
func (s *Service) Generate(ctx context.Context, merchant, amount, description string) (Code, error) {
	minor, err := moneypkg.ToMinorUnits(amount)
	if err != nil || minor <= 0 {
		return Code{}, domain.ErrInvalidAmount
	}

	request := domain.PaymentRequest{
		Merchant:    merchant,
		Amount:      amount,
		Description: description,
		Nonce:       s.newNonce(),
		IssuedAt:    s.now().Unix(),
	}

	payload, err := json.Marshal(request)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("payment request marshal failed")
		return Code{}, errorspkg.ErrInternal
	}

	if err := s.client.Set(ctx, nonceKey(request.Nonce), payload, s.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("payment request nonce set failed")
		return Code{}, errorspkg.ErrInternal
	}

	code := base64.RawURLEncoding.EncodeToString(payload)

	png, err := qrcode.Encode(code, qrcode.Medium, qrImageSize)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("qr image encode failed")
		return Code{}, errorspkg.ErrInternal
	}

	return Code{
		Request: request,
		Code:    code,
		PNG:     base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Pay settles a scanned code by debiting the payer. When overrideAmount is
// non-empty it replaces the requested amount (open-amount stickers). The
// nonce is consumed atomically, so a request can only ever be paid once; if
// the debit then fails the nonce is re-armed so the payer can retry.
func (s *Service) Pay(ctx context.Context, owner, code, overrideAmount string) (domain.Transaction, error) {
	request, armed, err := s.decode(ctx, code)
	if err != nil {
		return domain.Transaction{}, err
	}

	var payload string
	if armed {
		payload, err = s.consumeNonce(ctx, request.Nonce)
		if err != nil {
			return domain.Transaction{}, err
		}
	}

	amount := request.Amount
	if overrideAmount != "" {
		amount = overrideAmount
	}

	description := request.Description
	if description == "" {
		description = "QR payment"
	}

	tx, err := s.ledger.Debit(ctx, owner, amount, request.Merchant, domain.CategoryQRPayment, description)
	if err != nil && armed {
		s.rearmNonce(ctx, request.Nonce, payload)
	}

	return tx, err
}

// decode parses either code format. The second return reports whether the
// request carries a nonce that must be consumed before paying.
func (s *Service) decode(ctx context.Context, code string) (domain.PaymentRequest, bool, error) {
	if strings.HasPrefix(code, legacyPrefix+":") {
		request, err := parseLegacy(code)
		return request, false, err
	}

	payload, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return domain.PaymentRequest{}, false, domain.ErrQRMalformed
	}

	var request domain.PaymentRequest
	if err := json.Unmarshal(payload, &request); err != nil || request.Merchant == "" || request.Nonce == "" {
		return domain.PaymentRequest{}, false, domain.ErrQRMalformed
	}

	return request, true, nil
}

func parseLegacy(code string) (domain.PaymentRequest, error) {
	parts := strings.SplitN(code, ":", 4)
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return domain.PaymentRequest{}, domain.ErrQRMalformed
	}

	request := domain.PaymentRequest{
		Merchant: parts[1],
		Amount:   parts[2],
	}
	if len(parts) == 4 {
		request.Description = parts[3]
	}

	return request, nil
}

func (s *Service) consumeNonce(ctx context.Context, nonce string) (string, error) {
	payload, err := s.client.GetDel(ctx, nonceKey(nonce)).Result()
	if err == redis.Nil {
		return "", domain.ErrQRExpired
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("payment request nonce getdel failed")
		return "", errorspkg.ErrInternal
	}

	return payload, nil
}

// rearmNonce restores a consumed nonce after a failed debit. The request gets
// a fresh full TTL; losing the remaining one is preferable to burning the
// request on an insufficient balance.
func (s *Service) rearmNonce(ctx context.Context, nonce, payload string) {
	if err := s.client.Set(ctx, nonceKey(nonce), payload, s.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("nonce", nonce).Msg("payment request nonce re-arm failed")
	}
}
