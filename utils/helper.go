package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

const codeSuffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeSuffixLength = 4

// GenerateBusinessCode produces a human-readable code like "PO-31415926-K7KQ":
// the kind prefix, the low-order 8 decimal digits of the current unix
// millisecond clock, and a short random uppercase suffix. Collisions are
// unlikely but possible; the unique index on the code column is the
// actual uniqueness guarantee.
func GenerateBusinessCode(prefix string) string {
	millis := time.Now().UnixMilli() % 100_000_000
	return fmt.Sprintf("%s-%08d-%s", prefix, millis, RandomString(codeSuffixLength))
}

func RandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeSuffixCharset[rand.Intn(len(codeSuffixCharset))]
	}
	return string(b)
}

var businessCodePattern = regexp.MustCompile(`^[A-Z]{2,4}-\d{8}-[A-Z0-9]{4}$`)

func IsValidBusinessCode(code string) bool {
	return businessCodePattern.MatchString(code)
}

func UniqueSlice[T comparable](input []T) []T {
	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func SplitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
