package utils

import (
  "fmt"
  "strings"
  "golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

func ValidateSignupInput(name, username, email, password string) error {
  if name == "" || username == "" || email == "" || password == "" {
    return fmt.Errorf("all fields are required")
  }
  if !strings.Contains(email, "@") {
    return fmt.Errorf("a valid email is required")
  }
  return nil
}

func ValidateLoginInput(email, password string) error {
  if email == "" || password == "" {
    return fmt.Errorf("email and password required")
  }
  return nil
}

func HashPassword(password string) (string, error) {
  hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
  if err != nil {
    return "", fmt.Errorf("failed to hash password: %w", err)
  }
  return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
  return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SplitName maps a display name onto first/last the way the signup form
// expects: first token is the first name, the remainder the last name.
func SplitName(name string) (string, string) {
  parts := strings.Fields(name)
  if len(parts) == 0 {
    return "", ""
  }
  return parts[0], strings.Join(parts[1:], " ")
}
