package netutil_test

import (
	"net"
	"testing"

	"github.com/kofuk/mclaunch/internal/netutil"
	"github.com/stretchr/testify/assert"
)

func TestLocalAddress(t *testing.T) {
	addr := netutil.LocalAddress()
	assert.NotNil(t, net.ParseIP(addr), "%q is not an IP address", addr)
}

func TestAdvertisedAddressOverride(t *testing.T) {
	assert.Equal(t, "mc.example.com", netutil.AdvertisedAddress("mc.example.com"))
}
