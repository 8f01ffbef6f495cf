package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// GetEnvironmentVariable returns the value of key or fallback when it is unset or empty
func GetEnvironmentVariable(key string, fallback string) string {
	if value := GetEnvironmentVariables()[key]; value != "" {
		return value
	}

	return fallback
}
