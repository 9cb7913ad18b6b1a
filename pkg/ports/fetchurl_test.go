package ports

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRejectUnsafeIP(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1":    true,
		"10.0.0.5":     true,
		"169.254.1.1":  true,
		"224.0.0.1":    true,
		"0.0.0.0":      true,
		"192.0.2.10":   true, // TEST-NET-1
		"100.64.0.1":   true, // carrier-grade NAT
		"8.8.8.8":      false,
		"93.184.216.34": false,
		"::1":          true,
	}
	for addr, wantErr := range cases {
		ip := net.ParseIP(addr)
		if !assert.NotNil(t, ip, addr) {
			continue
		}
		err := rejectUnsafeIP(ip)
		if wantErr {
			assert.Error(t, err, addr)
		} else {
			assert.NoError(t, err, addr)
		}
	}
}

func TestGuardHost_DomainAllowlist(t *testing.T) {
	err := guardHost("evil.example", []string{"trusted.example"})
	assert.Error(t, err)
}
