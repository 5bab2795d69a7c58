package domain

import "errors"

// ErrEmptyURL is returned when an action is submitted without a target URL.
var ErrEmptyURL = errors.New("action url is empty")

// ErrTransport wraps every network or HTTP level failure of an action round trip.
var ErrTransport = errors.New("action transport failed")

// ErrMalformedEnvelope is returned when the reply body is not a JSON object.
var ErrMalformedEnvelope = errors.New("malformed action envelope")

// ErrDispatcherClosed is returned for submissions made after the dispatcher was closed.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// ErrCallbackPanic is reported when a success callback panics.
var ErrCallbackPanic = errors.New("success callback panicked")

// ErrNotFound is returned by vote stores when the post or comment does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned by vote stores when the user may not perform the action.
var ErrForbidden = errors.New("not allowed")
