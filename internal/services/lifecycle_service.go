package services

import (
	"fmt"
	"log"
	"time"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
)

// LifecycleEvent is an externally triggered transition request.
type LifecycleEvent string

const (
	EventConfirm   LifecycleEvent = "confirm"
	EventMarkReady LifecycleEvent = "mark_ready"
	EventFulfill   LifecycleEvent = "fulfill"
	EventComplete  LifecycleEvent = "complete"
	EventCancel    LifecycleEvent = "cancel"
	EventExpire    LifecycleEvent = "expire"
)

// transitions is the explicit state machine: state x event -> next state.
// A pair absent from the table is a conflict; terminal states have no
// entries at all.
var transitions = map[models.ItemStatus]map[LifecycleEvent]models.ItemStatus{
	models.ItemStatusPending: {
		EventConfirm: models.ItemStatusConfirmed,
		EventCancel:  models.ItemStatusCancelled,
		EventExpire:  models.ItemStatusExpired,
	},
	models.ItemStatusConfirmed: {
		EventMarkReady: models.ItemStatusReady,
		EventCancel:    models.ItemStatusCancelled,
		EventExpire:    models.ItemStatusExpired,
	},
	models.ItemStatusReady: {
		EventFulfill: models.ItemStatusFulfilled,
		EventCancel:  models.ItemStatusCancelled,
		EventExpire:  models.ItemStatusExpired,
	},
	models.ItemStatusFulfilled: {
		EventComplete: models.ItemStatusCompleted,
		EventCancel:   models.ItemStatusCancelled,
		EventExpire:   models.ItemStatusExpired,
	},
}

// NextStatus resolves the transition table.
func NextStatus(current models.ItemStatus, event LifecycleEvent) (models.ItemStatus, bool) {
	next, ok := transitions[current][event]
	return next, ok
}

// LifecycleService drives an order item through its lifecycle. Each
// transition is guarded by the stored status, so of any set of concurrent
// triggers on the same item exactly one succeeds and the rest are rejected
// as conflicts.
type LifecycleService struct {
	orders    repositories.OrderRepository
	vendors   repositories.VendorRepository
	listings  repositories.ListingRepository
	fees      *FeeService
	inventory *InventoryService
	ledger    *LedgerService
	payouts   PayoutRecorder
	notifier  *NotificationService
	now       func() time.Time
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	orders repositories.OrderRepository,
	vendors repositories.VendorRepository,
	listings repositories.ListingRepository,
	fees *FeeService,
	inventory *InventoryService,
	ledger *LedgerService,
	payouts PayoutRecorder,
	notifier *NotificationService,
) *LifecycleService {
	return &LifecycleService{
		orders:    orders,
		vendors:   vendors,
		listings:  listings,
		fees:      fees,
		inventory: inventory,
		ledger:    ledger,
		payouts:   payouts,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Confirm moves a pending item to confirmed. The vendor must have completed
// payment onboarding; callers receive ErrVendorOnboardingIncomplete
// otherwise so they can direct the vendor to finish it.
func (s *LifecycleService) Confirm(itemID, actorVendorID string) error {
	return s.apply(EventConfirm, itemID, actorVendorID)
}

// MarkReady moves a confirmed item to ready for pickup.
func (s *LifecycleService) MarkReady(itemID, actorVendorID string) error {
	return s.apply(EventMarkReady, itemID, actorVendorID)
}

// Fulfill records the in-person handoff.
func (s *LifecycleService) Fulfill(itemID, actorVendorID string) error {
	return s.apply(EventFulfill, itemID, actorVendorID)
}

// Complete finalizes a fulfilled item. For externally paid orders this is
// the point the platform's fees are owed, recorded on the vendor ledger.
func (s *LifecycleService) Complete(itemID, actorVendorID string) error {
	return s.apply(EventComplete, itemID, actorVendorID)
}

// Cancel cancels an item on behalf of the buyer or vendor and returns the
// settlement outcome.
func (s *LifecycleService) Cancel(itemID, actorID string) (*CancellationOutcome, error) {
	return s.settle(EventCancel, itemID, actorID)
}

// Expire cancels an item that was never picked up; triggered by the
// scheduler, not an owner, so there is no actor check.
func (s *LifecycleService) Expire(itemID string) (*CancellationOutcome, error) {
	return s.settle(EventExpire, itemID, "")
}

// apply performs a non-settling transition.
func (s *LifecycleService) apply(event LifecycleEvent, itemID, actorVendorID string) error {
	item, err := s.orders.GetItem(itemID)
	if err != nil {
		return err
	}
	if actorVendorID != "" && actorVendorID != item.VendorID {
		return fmt.Errorf("item %s belongs to another vendor: %w", itemID, ErrForbidden)
	}

	to, ok := NextStatus(item.Status, event)
	if !ok {
		return fmt.Errorf("cannot %s item %s in status %s: %w", event, itemID, item.Status, repositories.ErrConflict)
	}

	if event == EventConfirm {
		vendor, err := s.vendors.GetByID(item.VendorID)
		if err != nil {
			return err
		}
		if !vendor.PaymentsEnabled {
			return fmt.Errorf("vendor %s: %w", vendor.ID, ErrVendorOnboardingIncomplete)
		}
	}

	if err := s.orders.TransitionItemStatus(item.ID, item.Status, to); err != nil {
		return err
	}

	order, err := s.orders.GetByID(item.OrderID)
	if err != nil {
		return err
	}

	if to == models.ItemStatusCompleted && order.PaymentMethod == models.PaymentExternal {
		fee := s.fees.ExternalTotalFee(item.SubtotalCents)
		desc := fmt.Sprintf("fees for externally paid item %s", item.ID)
		if err := s.ledger.RecordCharge(item.VendorID, order.ID, fee, desc); err != nil {
			// The completion is already persisted but the platform's fee
			// claim does not exist yet; that cannot be swallowed as a side
			// effect. Surface it so the caller reconciles the charge (a
			// manual_adjustment entry) instead of losing it.
			return fmt.Errorf("item %s completed but fee charge was not recorded: %w", item.ID, err)
		}
	}

	s.finish(order, item, to)
	return nil
}

// settle performs a cancel or expire transition: compute the settlement
// with the status prior to the transition, persist both atomically, restore
// inventory, and credit the vendor's payout with its share of any retained
// fee.
func (s *LifecycleService) settle(event LifecycleEvent, itemID, actorID string) (*CancellationOutcome, error) {
	item, err := s.orders.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	to, ok := NextStatus(item.Status, event)
	if !ok {
		return nil, fmt.Errorf("cannot %s item %s in status %s: %w", event, itemID, item.Status, repositories.ErrConflict)
	}

	order, err := s.orders.GetByID(item.OrderID)
	if err != nil {
		return nil, err
	}
	if actorID != "" && actorID != order.BuyerID && actorID != item.VendorID {
		return nil, fmt.Errorf("item %s is not owned by actor %s: %w", itemID, actorID, ErrForbidden)
	}

	now := s.now()
	outcome := s.fees.CancellationFee(item.SubtotalCents, len(order.Items), item.Status, order.CreatedAt, now)
	settlement := models.ItemSettlement{
		RefundCents:          outcome.RefundCents,
		CancellationFeeCents: outcome.FeeCents,
		PlatformShareCents:   outcome.PlatformShareCents,
		VendorShareCents:     outcome.VendorShareCents,
		CancelledAt:          now,
	}
	if err := s.orders.CancelItem(item.ID, item.Status, to, settlement); err != nil {
		return nil, err
	}
	item.RefundCents = outcome.RefundCents
	item.CancellationFeeCents = outcome.FeeCents
	item.PlatformShareCents = outcome.PlatformShareCents
	item.VendorShareCents = outcome.VendorShareCents
	item.CancelledAt = &now

	if err := s.inventory.Restore(item.ListingID, item.Quantity); err != nil {
		log.Printf("Warning: failed to restore %d to listing %s after %s of item %s: %v",
			item.Quantity, item.ListingID, event, item.ID, err)
	}

	// The retained fee was captured from the buyer's payment and split
	// immediately; the vendor's share goes to its payout record, not the
	// fee ledger.
	if outcome.VendorShareCents > 0 {
		if err := s.payouts.CreditVendorShare(item.VendorID, item.ID, outcome.VendorShareCents); err != nil {
			log.Printf("Warning: failed to credit vendor %s share for item %s: %v", item.VendorID, item.ID, err)
		}
	}

	s.finish(order, item, to)
	return &outcome, nil
}

// finish dispatches notifications and refreshes the aggregate order status.
func (s *LifecycleService) finish(order *models.Order, item *models.OrderItem, to models.ItemStatus) {
	payload := NotificationPayload{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		Quantity:    item.Quantity,
		RefundCents: item.RefundCents,
		FeeCents:    item.CancellationFeeCents,
	}
	if listing, err := s.listings.GetByID(item.ListingID); err == nil {
		payload.ListingName = listing.Name
	}
	if vendor, err := s.vendors.GetByID(item.VendorID); err == nil {
		payload.VendorName = vendor.DisplayName
	}
	s.notifier.DispatchTransition(order, item, to, payload)

	items, err := s.orders.ItemsByOrderID(order.ID)
	if err != nil {
		log.Printf("Warning: failed to refresh items for order %s: %v", order.ID, err)
		return
	}
	derived := models.DeriveOrderStatus(items)
	if derived != order.Status {
		if err := s.orders.UpdateOrderStatus(order.ID, derived); err != nil {
			log.Printf("Warning: failed to update order %s status: %v", order.ID, err)
		}
	}
}
