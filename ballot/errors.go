// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnauthorized         = errors.New("caller is not the administrator")
	ErrAlreadyRegistered    = errors.New("voter already registered")
	ErrNotRegistered        = errors.New("not a registered voter")
	ErrAlreadyVoted         = errors.New("already voted")
	ErrInvalidCandidate     = errors.New("invalid candidate index")

	// ErrRegistrationClosed is only returned by authorities built with
	// WithStrictRegistration.
	ErrRegistrationClosed = errors.New("registration is closed")

	// ErrJournal wraps a failure of the attached Journal. State is unchanged.
	ErrJournal = errors.New("journal append failed")
)

// Error kinds, stable strings for logs, metric labels and API bodies.
const (
	KindInvalidConfiguration = "invalid_configuration"
	KindUnauthorized         = "unauthorized"
	KindAlreadyRegistered    = "already_registered"
	KindNotRegistered        = "not_registered"
	KindAlreadyVoted         = "already_voted"
	KindInvalidCandidate     = "invalid_candidate"
	KindRegistrationClosed   = "registration_closed"
	KindJournal              = "journal"
	KindUnknown              = "unknown"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidConfiguration, KindInvalidConfiguration},
	{ErrUnauthorized, KindUnauthorized},
	{ErrAlreadyRegistered, KindAlreadyRegistered},
	{ErrNotRegistered, KindNotRegistered},
	{ErrAlreadyVoted, KindAlreadyVoted},
	{ErrInvalidCandidate, KindInvalidCandidate},
	{ErrRegistrationClosed, KindRegistrationClosed},
	{ErrJournal, KindJournal},
}

// Kind classifies err into one of the Kind* constants.
// Returns "" for a nil error.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// IsRejection reports whether err is a rejected operation (the caller did
// something not allowed) rather than a storage failure.
func IsRejection(err error) bool {
	switch Kind(err) {
	case "", KindJournal, KindUnknown:
		return false
	}
	return true
}
