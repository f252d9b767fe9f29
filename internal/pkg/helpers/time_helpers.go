package helpers

import (
	"strings"
	"time"

	"github.com/disa/mapa/internal/pkg/logger"
)

// ParseDuration parses a config duration such as "12h". Empty, malformed and non-positive
// values yield fallback.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
