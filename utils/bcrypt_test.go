package utils

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("s3cretpass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "s3cretpass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := ComparePassword(hashed, "s3cretpass"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := ComparePassword(hashed, "wrongpass"); err == nil {
		t.Error("expected mismatch error")
	}
}
