package services_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetItem(itemID string) (*models.OrderItem, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ItemsByOrderID(orderID string) ([]models.OrderItem, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) TransitionItemStatus(itemID string, from, to models.ItemStatus) error {
	args := m.Called(itemID, from, to)
	return args.Error(0)
}

func (m *MockOrderRepository) CancelItem(itemID string, from, to models.ItemStatus, settlement models.ItemSettlement) error {
	args := m.Called(itemID, from, to, settlement)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	args := m.Called(orderID, status)
	return args.Error(0)
}

// MockListingRepository is a mock implementation of repositories.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(listing *models.Listing) error {
	args := m.Called(listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(id string) (*models.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) ReserveQuantity(id string, qty int) (bool, error) {
	args := m.Called(id, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) RestoreQuantity(id string, qty int) error {
	args := m.Called(id, qty)
	return args.Error(0)
}

// MockVendorRepository is a mock implementation of repositories.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(vendor *models.Vendor) error {
	args := m.Called(vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) GetByID(id string) (*models.Vendor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetByProcessorAccountID(accountID string) (*models.Vendor, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) SetPaymentsEnabled(id string, enabled bool) error {
	args := m.Called(id, enabled)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of repositories.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(entry *models.VendorFeeLedgerEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) UnpaidByVendor(vendorID string) ([]models.VendorFeeLedgerEntry, error) {
	args := m.Called(vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VendorFeeLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) MarkPaid(entryIDs []string) error {
	args := m.Called(entryIDs)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ByRecipient(recipientID string) ([]models.Notification, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(id, recipientID string, at time.Time) error {
	args := m.Called(id, recipientID, at)
	return args.Error(0)
}

// MockPayoutRecorder is a mock implementation of services.PayoutRecorder
type MockPayoutRecorder struct {
	mock.Mock
}

func (m *MockPayoutRecorder) CreditVendorShare(vendorID, orderItemID string, amountCents int64) error {
	args := m.Called(vendorID, orderItemID, amountCents)
	return args.Error(0)
}

// recordingPublisher captures enqueued deliveries for assertions.
type recordingPublisher struct {
	published []models.Channel
	failWith  error
}

func (p *recordingPublisher) PublishDelivery(channel models.Channel, body []byte) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, channel)
	return nil
}
