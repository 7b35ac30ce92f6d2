package heartbeat

import "errors"

var (
	// ErrSerializeFailed is returned when a request cannot be encoded.
	ErrSerializeFailed = errors.New("heartbeat: request serialization failed")
	// ErrZeroPayload is returned when a request encodes to zero bytes.
	ErrZeroPayload = errors.New("heartbeat: request serializes to an empty payload")
	// ErrIO wraps network failures of a probe: refused or closed connection, malformed reply.
	ErrIO = errors.New("heartbeat: io error")
	// ErrTimeout is returned when a probe did not complete within its timeout.
	ErrTimeout = errors.New("heartbeat: probe timed out")
	// ErrStopped is returned by Worker and Timer after Stop.
	ErrStopped = errors.New("heartbeat: worker stopped")
	// ErrHubStopped is returned by Hub and Handle after Stop.
	ErrHubStopped = errors.New("heartbeat: hub stopped")
	// ErrTargetNotFound is returned by RemoveTarget for an id the hub does not hold.
	ErrTargetNotFound = errors.New("heartbeat: target not found")
	// ErrAlreadyStarted is returned by Server.Start on a running server.
	ErrAlreadyStarted = errors.New("heartbeat: server already started")
	// ErrMalformedFrame is returned for frames exceeding MaxFrameSize.
	ErrMalformedFrame = errors.New("heartbeat: malformed frame")
)
