package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "JOB_TRACKER_RATE_LIMIT_"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from JOB_TRACKER_RATE_LIMIT_*
// environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool(envPrefix+"ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt(envPrefix+"DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration(envPrefix+"DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration(envPrefix+"CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString(envPrefix+"WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString(envPrefix+"BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Each generation is a paid API call
		{Path: "/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/generate/stream", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		{Path: "/messages", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/counter/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/settings/", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 5},
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}

