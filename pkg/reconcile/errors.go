package reconcile

import "errors"

var (
	// ErrProviderUnavailable means the provider listing itself failed; the
	// only error that aborts a pass.
	ErrProviderUnavailable = errors.New("failed to list subscriptions from billing provider")
)
