package auth

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the work factor for every stored password hash.
	BcryptCost = 10

	// MaxPasswordBytes is the bcrypt input ceiling.
	MaxPasswordBytes = 72

	minPasswordChars = 8
)

var (
	ErrPasswordEmpty     = errors.New("password is required")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
	ErrInvalidHashFormat = errors.New("hashed password has an invalid format")
)

var bcryptPrefix = regexp.MustCompile(`^\$2[aby]\$`)

// specialChars is the set of characters that satisfy the special character rule.
const specialChars = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

var dummyHash = sync.OnceValue(func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("no-account-placeholder"), BcryptCost)
	if err != nil {
		panic(err)
	}
	return string(hashed)
})

// DummyHash returns a fixed bcrypt hash at BcryptCost. Verifying against it
// costs the same as verifying a real account, so a missing account takes as
// long to reject as a wrong password.
func DummyHash() string {
	return dummyHash()
}

// HashPassword hashes a plaintext password with a random salt.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", oops.Code("PASSWORD_EMPTY").Wrap(ErrPasswordEmpty)
	}
	if len(password) > MaxPasswordBytes {
		return "", oops.Code("PASSWORD_TOO_LONG").With("bytes", len(password)).Wrap(ErrPasswordTooLong)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", oops.Code("PASSWORD_HASH_FAILED").Wrapf(err, "hash password")
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash is an
// error rather than a mismatch.
func VerifyPassword(password, hash string) (bool, error) {
	if password == "" {
		return false, oops.Code("PASSWORD_EMPTY").Wrap(ErrPasswordEmpty)
	}
	if !bcryptPrefix.MatchString(hash) {
		return false, oops.Code("PASSWORD_HASH_FORMAT").Wrap(ErrInvalidHashFormat)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("PASSWORD_VERIFY_FAILED").Wrapf(err, "verify password")
	}
}

// StrengthResult lists every strength rule a password violates.
type StrengthResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidatePasswordStrength checks all strength rules and never stops at the first failure.
func ValidatePasswordStrength(password string) StrengthResult {
	var errs []string

	chars := utf8.RuneCountInString(password)
	if chars < minPasswordChars {
		errs = append(errs, "password must be at least 8 characters")
	}
	if len(password) > MaxPasswordBytes {
		errs = append(errs, "password must be at most 72 bytes")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	if !upper {
		errs = append(errs, "password must contain an uppercase letter")
	}
	if !lower {
		errs = append(errs, "password must contain a lowercase letter")
	}
	if !digit {
		errs = append(errs, "password must contain a digit")
	}
	if !special {
		errs = append(errs, "password must contain a special character")
	}

	return StrengthResult{Valid: len(errs) == 0, Errors: errs}
}

// IsPasswordReused reports whether password matches any of the historical hashes.
// Malformed historical hashes never match.
func IsPasswordReused(password string, history []string) bool {
	if len(history) == 0 {
		return false
	}

	var (
		wg     sync.WaitGroup
		reused atomic.Bool
	)
	for _, hash := range history {
		wg.Add(1)
		go func(hash string) {
			defer wg.Done()
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
				reused.Store(true)
			}
		}(hash)
	}
	wg.Wait()
	return reused.Load()
}
