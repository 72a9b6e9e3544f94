package config

import (
	"fmt"
	"os"
	"strings"
)

// LookupSecret resolves a credential from envVar, or from the file named by
// envVar_FILE (Docker secrets, e.g. SMTP_PASSWORD_FILE=/run/secrets/smtp).
// The direct variable wins. A _FILE that is set but unreadable is an error;
// neither being set yields "".
func LookupSecret(envVar string) (string, error) {
	if value := os.Getenv(envVar); value != "" {
		return value, nil
	}

	filePath := os.Getenv(envVar + "_FILE")
	if filePath == "" {
		return "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s_FILE: %w", envVar, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// GetSecret is LookupSecret with a fallback used when the secret is unset
// or its file cannot be read
func GetSecret(envVar, defaultValue string) string {
	value, err := LookupSecret(envVar)
	if err != nil || value == "" {
		return defaultValue
	}
	return value
}
