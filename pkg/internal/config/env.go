package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvOr returns the value of key with surrounding quotes and spaces removed, or def when it is
// unset or blank.
func EnvOr(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	if v = strings.TrimSpace(strings.Trim(strings.TrimSpace(v), `"'`)); v == "" {
		return def
	}
	return v
}

// envParsed parses key with parse, keeping def when the variable is unset or malformed.
func envParsed[T any](key string, def T, parse func(string) (T, error)) T {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func EnvIntOr(key string, def int) int {
	return envParsed(key, def, strconv.Atoi)
}

func EnvBoolOr(key string, def bool) bool {
	return envParsed(key, def, strconv.ParseBool)
}

func EnvFloatOr(key string, def float64) float64 {
	return envParsed(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// EnvDurationOr accepts Go duration syntax ("750ms", "2m").
func EnvDurationOr(key string, def time.Duration) time.Duration {
	return envParsed(key, def, time.ParseDuration)
}
