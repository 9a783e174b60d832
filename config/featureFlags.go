package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DuplicateCodePrecheck enables the fast-path existence check for business
// codes before an insert/update is attempted. The unique index on the code
// column is always enforced either way; the precheck only buys a cleaner
// error without a round-trip through the constraint violation.
//
// Set via env:
// - DUPLICATE_CODE_PRECHECK=false (default true)
func DuplicateCodePrecheck() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DUPLICATE_CODE_PRECHECK")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// DashboardCacheTTL controls how long a computed dashboard snapshot is kept
// in redis before the next request recomputes it.
//
// Set via env:
// - DASHBOARD_CACHE_TTL_SECONDS (default 30; 0 disables caching)
func DashboardCacheTTL() time.Duration {
	v := strings.TrimSpace(os.Getenv("DASHBOARD_CACHE_TTL_SECONDS"))
	if v == "" {
		return 30 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 30 * time.Second
	}
	return time.Duration(n) * time.Second
}
