package main

import (
	"net/url"
	"strings"
)

// inviteURL builds the link a challenged player opens to join against
// playerID.
func inviteURL(publicURL, playerID string) string {
	return strings.TrimRight(publicURL, "/") + "/?challenge=" + url.QueryEscape(playerID)
}

// clampInt restricts v to [min, max]
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
