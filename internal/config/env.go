package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
)

// envReader collects every missing or malformed required key so Load can
// report them together instead of failing on the first one.
type envReader struct {
    errs []error
}

func (r *envReader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || strings.TrimSpace(v) == "" {
        r.errs = append(r.errs, fmt.Errorf("missing required env var: %s", key))
        return ""
    }
    return v
}

func (r *envReader) mustInt(key string) int {
    s := r.must(key)
    if s == "" {
        return 0
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        r.errs = append(r.errs, fmt.Errorf("invalid int for %s: %q", key, s))
    }
    return n
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

// envFirst returns the first non-empty variable among keys, or d.
func envFirst(d string, keys ...string) string {
    for _, k := range keys {
        if v := os.Getenv(k); v != "" {
            return v
        }
    }
    return d
}

func envBool(k string, d bool) bool {
    switch strings.ToLower(os.Getenv(k)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
        return dur
    }
    return d
}
