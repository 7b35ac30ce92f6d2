package pb

import "google.golang.org/protobuf/types/known/wrapperspb"

// HeartbeatRequest is the probe payload: field 1 carries a non-zero message code.
type HeartbeatRequest = wrapperspb.UInt32Value

// HeartbeatResponse is the answer of a heartbeat responder, same layout as the request.
type HeartbeatResponse = wrapperspb.UInt32Value

// HeartbeatMsg is the message code used by the registry probes and the container responder.
const HeartbeatMsg uint32 = 1

func NewHeartbeatRequest() *HeartbeatRequest {
	return wrapperspb.UInt32(HeartbeatMsg)
}

func NewHeartbeatResponse() *HeartbeatResponse {
	return wrapperspb.UInt32(HeartbeatMsg)
}
