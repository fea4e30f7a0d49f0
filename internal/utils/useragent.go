package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds the parsed device details recorded on login sessions
type DeviceInfo struct {
	DeviceType string `json:"deviceType"` // mobile, tablet, desktop, unknown
	OS         string `json:"os"`
	Browser    string `json:"browser"`
}

// ParseUserAgent extracts device information from a User-Agent header
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		DeviceType: "desktop",
		OS:         parser.OS(),
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	name, version := parser.Browser()
	info.Browser = strings.TrimSpace(name + " " + version)
	if info.Browser == "" {
		info.Browser = "Unknown"
	}

	if parser.Mobile() {
		info.DeviceType = "mobile"
		if strings.Contains(strings.ToLower(userAgent), "tablet") ||
			strings.Contains(userAgent, "iPad") {
			info.DeviceType = "tablet"
		}
	}
	if parser.Bot() {
		info.DeviceType = "bot"
	}

	return info
}
