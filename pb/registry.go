// Package pb holds the wire types of the registry RPC API and the heartbeat protocol.
//
// The registry API is served over gRPC with the JSON codec registered in codec.go, so the
// request and response messages are plain structs. Heartbeat payloads are protobuf messages.
package pb

// RegisterRequest opens a registration session for a service.
type RegisterRequest struct {
	ServiceId uint64 `json:"service_id"`
	Meta      string `json:"meta,omitempty"`
}

// RegisterResponse carries the first candidate ports of a new session.
type RegisterResponse struct {
	HeartbeatPort uint32 `json:"heartbeat_port"`
	ServicePort   uint32 `json:"service_port"`
	SessionId     uint64 `json:"session_id"`
}

// StatusRequest reports whether the service and heartbeat responder could bind the candidate ports.
type StatusRequest struct {
	SessionId        uint64 `json:"session_id"`
	ServiceSucceed   bool   `json:"service_succeed"`
	HeartbeatSucceed bool   `json:"heartbeat_succeed"`
}

// StatusResponse carries the next candidates, or the final ports once both attempts succeeded.
// Succeed is false when the session is unknown to the registry.
type StatusResponse struct {
	Succeed       bool   `json:"succeed"`
	HeartbeatPort uint32 `json:"heartbeat_port"`
	ServicePort   uint32 `json:"service_port"`
	SessionId     uint64 `json:"session_id"`
}

// ResumeRequest re-announces a service on ports it already holds.
type ResumeRequest struct {
	ServiceId     uint64 `json:"service_id"`
	ServicePort   uint32 `json:"service_port"`
	HeartbeatPort uint32 `json:"heartbeat_port"`
	Meta          string `json:"meta,omitempty"`
}

type ResumeResponse struct {
	Succeed bool   `json:"succeed"`
	Msg     string `json:"msg,omitempty"`
}

// DeregisterRequest removes a live service identified by its id and service port.
type DeregisterRequest struct {
	ServiceId   uint64 `json:"service_id"`
	ServicePort uint32 `json:"service_port"`
}

type DeregisterResponse struct {
	Succeed bool `json:"succeed"`
}
