package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup returns def when key is unset, empty or fails to parse
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func envString(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

func envInt(key string, def int) int { return lookup(key, def, strconv.Atoi) }

func envBool(key string, def bool) bool { return lookup(key, def, strconv.ParseBool) }

func envDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}

func envFloat(key string, def float64) float64 {
	return lookup(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// envList splits a comma separated value, dropping blank items
func envList(key string, def []string) []string {
	return lookup(key, def, func(s string) ([]string, error) {
		var out []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		if len(out) == 0 {
			return def, nil
		}
		return out, nil
	})
}
