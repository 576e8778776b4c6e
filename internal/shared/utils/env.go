package utils

import (
	"os"
	"strings"
)

// GetEnv returns the value of the environment variable named by key, or
// defaultValue when it is unset or blank.
func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}
