package main

import (
	"fmt"
	"net"
	"strconv"
)

// splitAddr parses "host:port" or ":port"; an empty host means localhost.
func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	if host == "" {
		host = "localhost"
	}
	return host, port, nil
}
