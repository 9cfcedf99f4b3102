package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
)

// IdempotencyStore claims processor event ids so at-least-once deliveries
// are handled once. A claim is released when handling fails, so the
// processor's retry of the same event id gets a fresh claim.
type IdempotencyStore interface {
	SetIfAbsent(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ProcessorEvent is the envelope of a payment processor webhook.
type ProcessorEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Account string          `json:"account"`
	Data    json.RawMessage `json:"data"`
}

type payoutCreatedData struct {
	AmountCents int64 `json:"amount_cents"`
}

type accountUpdatedData struct {
	PaymentsEnabled bool `json:"payments_enabled"`
}

// WebhookService processes payment processor webhooks. Signature failures
// are terminal; every other failure is surfaced so the processor retries
// with backoff.
type WebhookService struct {
	secret  []byte
	idem    IdempotencyStore
	vendors repositories.VendorRepository
	ledger  *LedgerService
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(secret string, idem IdempotencyStore, vendors repositories.VendorRepository, ledger *LedgerService) *WebhookService {
	return &WebhookService{
		secret:  []byte(secret),
		idem:    idem,
		vendors: vendors,
		ledger:  ledger,
	}
}

// VerifySignature checks the hex-encoded HMAC-SHA256 signature of the body.
func (s *WebhookService) VerifySignature(body []byte, signature string) error {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// PayoutDeduction is returned for payout events so the caller can tell the
// processor how much to withhold.
type PayoutDeduction struct {
	VendorID      string `json:"vendor_id"`
	DeductedCents int64  `json:"deducted_cents"`
}

// Process verifies, deduplicates and dispatches one webhook delivery.
// A duplicate event id is a success no-op.
func (s *WebhookService) Process(ctx context.Context, body []byte, signature string) (*PayoutDeduction, error) {
	if err := s.VerifySignature(body, signature); err != nil {
		return nil, err
	}

	var event ProcessorEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed event payload: %v", ErrValidation, err)
	}
	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: event id and type are required", ErrValidation)
	}

	key := "processor_event:" + event.ID
	fresh, err := s.idem.SetIfAbsent(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed for event %s: %w", event.ID, err)
	}
	if !fresh {
		log.Printf("Skipping duplicate processor event %s", event.ID)
		return nil, nil
	}

	var deduction *PayoutDeduction
	switch event.Type {
	case "payout.created":
		deduction, err = s.handlePayoutCreated(event)
	case "account.updated":
		err = s.handleAccountUpdated(event)
	default:
		log.Printf("Ignoring unhandled processor event type %s", event.Type)
	}
	if err != nil {
		// The event was not handled; release the claim so the processor's
		// retry is not swallowed as a duplicate.
		if relErr := s.idem.Release(ctx, key); relErr != nil {
			log.Printf("Warning: failed to release claim for event %s: %v", event.ID, relErr)
		}
		return nil, err
	}
	return deduction, nil
}

func (s *WebhookService) handlePayoutCreated(event ProcessorEvent) (*PayoutDeduction, error) {
	var data payoutCreatedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed payout data: %v", ErrValidation, err)
	}
	vendor, err := s.vendors.GetByProcessorAccountID(event.Account)
	if err != nil {
		return nil, err
	}
	deducted, err := s.ledger.ApplyAutoDeduction(vendor.ID, data.AmountCents)
	if err != nil {
		return nil, fmt.Errorf("auto-deduction failed for vendor %s: %w", vendor.ID, err)
	}
	log.Printf("Auto-deducted %d cents from payout of %d cents for vendor %s", deducted, data.AmountCents, vendor.ID)
	return &PayoutDeduction{VendorID: vendor.ID, DeductedCents: deducted}, nil
}

func (s *WebhookService) handleAccountUpdated(event ProcessorEvent) error {
	var data accountUpdatedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("%w: malformed account data: %v", ErrValidation, err)
	}
	vendor, err := s.vendors.GetByProcessorAccountID(event.Account)
	if err != nil {
		return err
	}
	return s.vendors.SetPaymentsEnabled(vendor.ID, data.PaymentsEnabled)
}
