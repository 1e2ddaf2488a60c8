package ros

import (
	"net"
	"os"
	"strings"
)

// determineHost returns the host name other nodes should use to reach us and
// whether it only resolves to the loopback interface.
func determineHost() (string, bool) {
	if rosHostname, ok := os.LookupEnv("ROS_HOSTNAME"); ok {
		return rosHostname, rosHostname == "localhost"
	}

	if rosIP, ok := os.LookupEnv("ROS_IP"); ok {
		return rosIP, isLoopbackIP(rosIP)
	}

	if osHostname, err := os.Hostname(); err == nil && osHostname != "localhost" {
		return osHostname, false
	}

	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				return ipnet.IP.String(), false
			}
		}
	}
	return "127.0.0.1", true
}

func isLoopbackIP(ip string) bool {
	return ip == "::1" || strings.HasPrefix(ip, "127.")
}
