package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskFinished  = errors.New("task already finished")
	ErrStageConflict = errors.New("task stage changed concurrently")

	// Permission errors
	ErrPermissionDenied = errors.New("permission denied")

	// Staff errors
	ErrStaffNotFound = errors.New("staff not found")
	ErrStaffInactive = errors.New("staff member is inactive")
	ErrInvalidToken  = errors.New("invalid authentication token")

	// Shop errors
	ErrShopNotFound = errors.New("shop not found")

	// Validation errors
	ErrInvalidStage  = errors.New("invalid stage")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidAmount = errors.New("assessment amount must not be negative")
	ErrEmptyField    = errors.New("required field is empty")
)
