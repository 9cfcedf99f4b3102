package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

const webhookSecret = "test-webhook-secret"

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// memoryIdempotencyStore claims keys in a map, standing in for Redis.
type memoryIdempotencyStore struct {
	seen map[string]bool
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{seen: make(map[string]bool)}
}

func (s *memoryIdempotencyStore) SetIfAbsent(_ context.Context, key string) (bool, error) {
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	delete(s.seen, key)
	return nil
}

func newWebhookService(vendors *MockVendorRepository, ledgerRepo *MockLedgerRepository) *services.WebhookService {
	ledger := services.NewLedgerService(ledgerRepo, services.NewFeeService(testSettlement()))
	return services.NewWebhookService(webhookSecret, newMemoryIdempotencyStore(), vendors, ledger)
}

func TestWebhookService_RejectsBadSignature(t *testing.T) {
	svc := newWebhookService(new(MockVendorRepository), new(MockLedgerRepository))

	body := []byte(`{"id":"evt-1","type":"payout.created","account":"acct-1","data":{}}`)
	_, err := svc.Process(context.Background(), body, "deadbeef")
	assert.ErrorIs(t, err, services.ErrInvalidSignature)

	_, err = svc.Process(context.Background(), body, "")
	assert.ErrorIs(t, err, services.ErrInvalidSignature)
}

func TestWebhookService_RejectsMalformedEvents(t *testing.T) {
	svc := newWebhookService(new(MockVendorRepository), new(MockLedgerRepository))

	body := []byte(`not json`)
	_, err := svc.Process(context.Background(), body, signBody(body))
	assert.ErrorIs(t, err, services.ErrValidation)

	// Valid JSON but no event id.
	body = []byte(`{"type":"payout.created","account":"acct-1","data":{}}`)
	_, err = svc.Process(context.Background(), body, signBody(body))
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestWebhookService_PayoutCreatedAppliesDeduction(t *testing.T) {
	vendors := new(MockVendorRepository)
	ledgerRepo := new(MockLedgerRepository)
	svc := newWebhookService(vendors, ledgerRepo)

	vendors.On("GetByProcessorAccountID", "acct-1").Return(&models.Vendor{ID: "vendor-1", ProcessorAccountID: "acct-1"}, nil).Once()
	// Payout 1000 against 3000 owed deducts 500 at the 50% cap.
	ledgerRepo.On("UnpaidByVendor", "vendor-1").Return([]models.VendorFeeLedgerEntry{
		unpaidEntry("e1", 3000, 0),
	}, nil).Once()
	ledgerRepo.On("MarkPaid", mock.Anything).Return(nil).Once()
	ledgerRepo.On("Append", mock.Anything).Return(nil).Once()

	body := []byte(`{"id":"evt-1","type":"payout.created","account":"acct-1","data":{"amount_cents":1000}}`)
	deduction, err := svc.Process(context.Background(), body, signBody(body))
	assert.NoError(t, err)
	assert.NotNil(t, deduction)
	assert.Equal(t, "vendor-1", deduction.VendorID)
	assert.Equal(t, int64(500), deduction.DeductedCents)
	vendors.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestWebhookService_DuplicateEventIsNoOp(t *testing.T) {
	vendors := new(MockVendorRepository)
	ledgerRepo := new(MockLedgerRepository)
	svc := newWebhookService(vendors, ledgerRepo)

	vendors.On("GetByProcessorAccountID", "acct-1").Return(&models.Vendor{ID: "vendor-1"}, nil).Once()
	ledgerRepo.On("UnpaidByVendor", "vendor-1").Return([]models.VendorFeeLedgerEntry{}, nil).Once()

	body := []byte(`{"id":"evt-1","type":"payout.created","account":"acct-1","data":{"amount_cents":1000}}`)
	_, err := svc.Process(context.Background(), body, signBody(body))
	assert.NoError(t, err)

	// Redelivery of the same event id does nothing further.
	deduction, err := svc.Process(context.Background(), body, signBody(body))
	assert.NoError(t, err)
	assert.Nil(t, deduction)
	vendors.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestWebhookService_RetryAfterHandlerFailureIsHandled(t *testing.T) {
	vendors := new(MockVendorRepository)
	ledgerRepo := new(MockLedgerRepository)
	svc := newWebhookService(vendors, ledgerRepo)

	// First delivery fails inside the handler; the error must surface so the
	// processor retries.
	vendors.On("GetByProcessorAccountID", "acct-1").Return(nil, fmt.Errorf("storage unreachable")).Once()

	body := []byte(`{"id":"evt-retry","type":"payout.created","account":"acct-1","data":{"amount_cents":1000}}`)
	_, err := svc.Process(context.Background(), body, signBody(body))
	assert.Error(t, err)
	ledgerRepo.AssertNotCalled(t, "Append", mock.Anything)

	// The failed delivery released its claim, so the retry of the same event
	// id is handled in full rather than skipped as a duplicate.
	vendors.On("GetByProcessorAccountID", "acct-1").Return(&models.Vendor{ID: "vendor-1", ProcessorAccountID: "acct-1"}, nil).Once()
	ledgerRepo.On("UnpaidByVendor", "vendor-1").Return([]models.VendorFeeLedgerEntry{
		unpaidEntry("e1", 3000, 0),
	}, nil).Once()
	ledgerRepo.On("MarkPaid", mock.Anything).Return(nil).Once()
	ledgerRepo.On("Append", mock.Anything).Return(nil).Once()

	deduction, err := svc.Process(context.Background(), body, signBody(body))
	assert.NoError(t, err)
	assert.NotNil(t, deduction)
	assert.Equal(t, int64(500), deduction.DeductedCents)
	vendors.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestWebhookService_AccountUpdatedTogglesPayments(t *testing.T) {
	vendors := new(MockVendorRepository)
	svc := newWebhookService(vendors, new(MockLedgerRepository))

	vendors.On("GetByProcessorAccountID", "acct-1").Return(&models.Vendor{ID: "vendor-1", ProcessorAccountID: "acct-1"}, nil).Once()
	vendors.On("SetPaymentsEnabled", "vendor-1", true).Return(nil).Once()

	body := []byte(`{"id":"evt-2","type":"account.updated","account":"acct-1","data":{"payments_enabled":true}}`)
	deduction, err := svc.Process(context.Background(), body, signBody(body))
	assert.NoError(t, err)
	assert.Nil(t, deduction)
	vendors.AssertExpectations(t)
}

func TestWebhookService_IgnoresUnknownEventTypes(t *testing.T) {
	vendors := new(MockVendorRepository)
	svc := newWebhookService(vendors, new(MockLedgerRepository))

	body := []byte(`{"id":"evt-3","type":"invoice.finalized","account":"acct-1","data":{}}`)
	deduction, err := svc.Process(context.Background(), body, signBody(body))
	assert.NoError(t, err)
	assert.Nil(t, deduction)
	vendors.AssertNotCalled(t, "GetByProcessorAccountID", mock.Anything)
}
