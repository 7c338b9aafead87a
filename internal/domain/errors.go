package domain

import "errors"

var (
	ErrUnauthenticated      = errors.New("caller is not authenticated")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrEventNotFound        = errors.New("event not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrDeadlinePassed       = errors.New("registration deadline has passed")
	ErrEventFull            = errors.New("event is full")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrAlreadyCancelled     = errors.New("registration already cancelled")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidDate          = errors.New("invalid date")
	ErrCategoryRequired     = errors.New("category is required")
	ErrMemberIDRequired     = errors.New("member id is required")
	ErrEventIDRequired      = errors.New("event id is required")
	ErrPayerNameRequired    = errors.New("payer name is required")
	ErrNameRequired         = errors.New("name is required")
	ErrMobileRequired       = errors.New("mobile is required")
	ErrTitleRequired        = errors.New("title is required")
)
