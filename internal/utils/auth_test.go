package utils

import (
	"testing"
)

func TestValidateSignupInput(t *testing.T) {
	if err := ValidateSignupInput("Alice", "alice", "alice@example.com", "s3cretpass"); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := ValidateSignupInput("", "alice", "alice@example.com", "s3cretpass"); err == nil {
		t.Fatalf("missing name should be rejected")
	}
	if err := ValidateSignupInput("Alice", "alice", "not-an-email", "s3cretpass"); err == nil {
		t.Fatalf("bad email should be rejected")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cretpass" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "s3cretpass") {
		t.Fatalf("correct password should verify")
	}
	if CheckPassword(hash, "wrongpass") {
		t.Fatalf("wrong password should not verify")
	}
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("Alice van der Berg")
	if first != "Alice" || last != "van der Berg" {
		t.Fatalf("unexpected split: %q %q", first, last)
	}
	first, last = SplitName("Alice")
	if first != "Alice" || last != "" {
		t.Fatalf("single token split wrong: %q %q", first, last)
	}
	first, last = SplitName("  ")
	if first != "" || last != "" {
		t.Fatalf("blank name split wrong: %q %q", first, last)
	}
}
