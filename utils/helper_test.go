package utils

import (
	"strings"
	"testing"
)

func TestGenerateBusinessCodeFormat(t *testing.T) {
	for _, prefix := range []string{"AST", "PO", "SO"} {
		code := GenerateBusinessCode(prefix)
		if !strings.HasPrefix(code, prefix+"-") {
			t.Errorf("code %q does not start with %q", code, prefix+"-")
		}
		if !IsValidBusinessCode(code) {
			t.Errorf("code %q does not match the expected format", code)
		}
		parts := strings.Split(code, "-")
		if len(parts) != 3 {
			t.Fatalf("code %q should have 3 segments, got %d", code, len(parts))
		}
		if len(parts[1]) != 8 {
			t.Errorf("code %q timestamp segment should be 8 digits, got %q", code, parts[1])
		}
		if len(parts[2]) != 4 {
			t.Errorf("code %q suffix should be 4 chars, got %q", code, parts[2])
		}
	}
}

func TestGenerateBusinessCodeSuffixVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateBusinessCode("SO")] = true
	}
	// Codes generated in the same millisecond still differ by suffix;
	// a handful of collisions is tolerable, identical output is not.
	if len(seen) < 2 {
		t.Errorf("expected varied codes, got %d distinct out of 50", len(seen))
	}
}

func TestIsValidBusinessCode(t *testing.T) {
	valid := []string{"AST-12345678-AB12", "PO-00000001-ZZZZ", "SO-99999999-0000"}
	for _, code := range valid {
		if !IsValidBusinessCode(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}
	invalid := []string{
		"",
		"AST-1234567-AB12",   // 7 digit timestamp
		"AST-12345678-AB1",   // 3 char suffix
		"ast-12345678-AB12",  // lowercase prefix
		"TOOLONG-12345678-AB12",
		"AST-12345678-ab12",
		"AST12345678AB12",
	}
	for _, code := range invalid {
		if IsValidBusinessCode(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestRandomString(t *testing.T) {
	s := RandomString(4)
	if len(s) != 4 {
		t.Fatalf("expected length 4, got %d", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(codeSuffixCharset, r) {
			t.Errorf("unexpected rune %q in %q", r, s)
		}
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := SplitAndTrim(" a, b ,, c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
