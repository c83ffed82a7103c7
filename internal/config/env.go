package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func envString(name string, field *string) {
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}

func envFloat(name string, field *float64) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*field = f
		}
	}
}

func envInt(name string, field *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*field = n
		}
	}
}

func envBool(name string, field **bool) {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*field = &b
		}
	}
}

func envList(name string, field *[]string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	*field = list
}

func mergeString(field *string, overlay string) {
	if overlay != "" {
		*field = overlay
	}
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func validDuration(name, s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if d < 0 {
		return fmt.Errorf("invalid %s: must not be negative", name)
	}
	return nil
}
