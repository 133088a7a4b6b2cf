package apperror

import (
	"errors"
	"fmt"
)

// ErrCredentialUnavailable means no access token and no refresh token are
// stored for the account. There is no path to a usable token, so callers
// must not retry.
var ErrCredentialUnavailable = errors.New("credential unavailable: no access or refresh token on file")

// ErrNotTaskOwner is returned when a caller tries to mutate a follow-up
// task owned by another user. Visibility is per-team, ownership is per-user.
var ErrNotTaskOwner = errors.New("caller does not own this task")

// ErrNotFound is the generic "row does not exist" error for ledger reads.
var ErrNotFound = errors.New("record not found")

// CredentialRefreshError means the identity provider rejected a refresh
// token exchange. Terminal from the caller's perspective.
type CredentialRefreshError struct {
	Status int
	Body   string
}

func (e *CredentialRefreshError) Error() string {
	return fmt.Sprintf("credential refresh failed: provider returned %d: %s", e.Status, e.Body)
}

// RemoteAPIError means a remote surface rejected the request, after the
// single refresh-and-retry cycle if one applied.
type RemoteAPIError struct {
	Surface string
	Status  int
	Body    string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Surface, e.Status, e.Body)
}

// LedgerWriteError means the store was unavailable while recording a
// transition or its event. The event log must never be silently dropped,
// so this always propagates.
type LedgerWriteError struct {
	Op  string
	Err error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger write failed during %s: %v", e.Op, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }

// InvalidTransitionError rejects a state-machine mutation before any
// side-effecting call is attempted.
type InvalidTransitionError struct {
	From string
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a task in status %q", e.Op, e.From)
}
