package domain

import (
	"errors"
	"fmt"
	"time"
)

// Identity-gate failures, checked in this order on every mutating call.
var ErrNoIdentityCredential = errors.New("account holds no identity credential")
var ErrSuspended = errors.New("account credential is suspended")

// ErrZeroAuthority rejects an empty identity-authority endpoint.
var ErrZeroAuthority = errors.New("identity authority endpoint must not be empty")

// ErrAttributeExpired is part of the public error taxonomy. No current code
// path raises it; it is reserved for credential attributes with expiry.
var ErrAttributeExpired = errors.New("credential attribute expired")

// AttributeExpiredError carries which attribute expired and when.
type AttributeExpiredError struct {
	Attribute string
	Expiry    time.Time
}

func (e *AttributeExpiredError) Error() string {
	return fmt.Sprintf("credential attribute %q expired at %s", e.Attribute, e.Expiry.UTC().Format(time.RFC3339))
}

func (e *AttributeExpiredError) Unwrap() error { return ErrAttributeExpired }
