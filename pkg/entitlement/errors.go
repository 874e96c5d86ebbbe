package entitlement

import "errors"

var (
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrLimitExceeded       = errors.New("plan limit exceeded")
	ErrNoCounterRegistered = errors.New("no usage counter registered for resource")
	ErrFailedToCountUsage  = errors.New("failed to count resource usage")
)
