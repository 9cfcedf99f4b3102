package services

import "errors"

var (
	// ErrValidation is returned for malformed or out-of-range input,
	// rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden is returned when the actor does not own the resource.
	ErrForbidden = errors.New("actor does not own resource")
	// ErrVendorOnboardingIncomplete is returned when a confirm transition
	// is attempted before the vendor can accept payments.
	ErrVendorOnboardingIncomplete = errors.New("vendor payment onboarding incomplete")
	// ErrInvalidSignature is returned for webhook payloads that fail
	// signature verification. Terminal; the processor must not retry.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
