package scrape

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformLinkedIn is linkedin.com job pages
	PlatformLinkedIn Platform = "linkedin"
	// PlatformIndeed is indeed.com job pages
	PlatformIndeed Platform = "indeed"
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// hostPatterns maps host substrings to platforms, checked in order
var hostPatterns = []struct {
	pattern  string
	platform Platform
}{
	{"linkedin.com", PlatformLinkedIn},
	{"indeed.com", PlatformIndeed},
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, hp := range hostPatterns {
		if strings.Contains(host, hp.pattern) {
			return hp.platform
		}
	}
	return PlatformUnknown
}
