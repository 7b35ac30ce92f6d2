package domain

import (
	"net"
	"testing"

	"myregistry/helpers"

	"github.com/stretchr/testify/assert"
)

func TestSession_Step(t *testing.T) {
	s := Session{ID: 1, ServiceID: 1, Host: net.IPv4zero, ServicePort: 20000, HeartbeatPort: 25000}

	assert.True(t, s.StepHeartbeatPort())
	assert.True(t, s.StepServicePort())
	assert.Equal(t, uint16(20001), s.ServicePort)
	assert.Equal(t, uint16(25001), s.HeartbeatPort)

	assert.True(t, s.StepServicePort())
	assert.Equal(t, uint16(20002), s.ServicePort)
	assert.Equal(t, uint16(25001), s.HeartbeatPort)
}

func TestSession_StepStopsAtLastPort(t *testing.T) {
	s := Session{ServicePort: 65534, HeartbeatPort: 65535}

	assert.False(t, s.StepHeartbeatPort())
	assert.Equal(t, uint16(65535), s.HeartbeatPort)

	assert.True(t, s.StepServicePort())
	assert.False(t, s.StepServicePort())
	assert.Equal(t, uint16(65535), s.ServicePort)
}

func TestService_Addrs(t *testing.T) {
	tests := []struct {
		name          string
		host          net.IP
		wantService   string
		wantHeartbeat string
	}{
		{name: "ipv4", host: net.IPv4(10, 0, 0, 1), wantService: "10.0.0.1:21000", wantHeartbeat: "10.0.0.1:25000"},
		{name: "ipv6", host: net.ParseIP("::1"), wantService: "[::1]:21000", wantHeartbeat: "[::1]:25000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ServiceID: 7, Host: tt.host, ServicePort: 21000, HeartbeatPort: 25000}.Service(helpers.TestNow())
			assert.Equal(t, tt.wantService, s.ServiceAddr())
			assert.Equal(t, tt.wantHeartbeat, s.HeartbeatAddr())
			assert.Equal(t, ServiceID(7), s.ID)
			assert.Equal(t, helpers.TestNow(), s.RegisteredAt)
		})
	}
}
