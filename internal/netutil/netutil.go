package netutil

import (
	"net"
	"os"
)

// LocalAddress returns the address other machines on the network can reach this host
// at. The probe address is never contacted; dialing UDP only selects a route.
func LocalAddress() string {
	conn, err := net.Dial("udp", "10.255.255.255:1")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && !addr.IP.IsUnspecified() {
			return addr.IP.String()
		}
	}

	hostname, err := os.Hostname()
	if err == nil {
		if addrs, err := net.LookupHost(hostname); err == nil && len(addrs) > 0 {
			return addrs[0]
		}
	}

	return "127.0.0.1"
}

// AdvertisedAddress prefers override and falls back to LocalAddress.
func AdvertisedAddress(override string) string {
	if override != "" {
		return override
	}
	return LocalAddress()
}
