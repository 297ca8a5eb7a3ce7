package password

import (
	"mcdee-marketplace/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmpty    = errs.New("password is empty")
	ErrTooLong  = errs.New("password exceeds 72 bytes")
	ErrMismatch = errs.New("password does not match")
)

// bcrypt silently ignores input past 72 bytes.
const maxBytes = 72

// dummyHash stands in for a missing account so an unknown email costs one
// bcrypt comparison like a wrong password does.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mcdee-unknown-account"), bcrypt.DefaultCost)

func Hash(plain string) (string, error) {
	if err := checkLength(plain); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(err, "bcrypt hash")
	}
	return string(hashed), nil
}

func Compare(hashed, plain string) error {
	if err := checkLength(plain); err != nil {
		return err
	}
	if hashed == "" {
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errs.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return errs.Wrap(err, "bcrypt compare")
	}
}

// CompareUnknown burns the same work as Compare for an account that does not exist.
func CompareUnknown(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}

func checkLength(plain string) error {
	switch {
	case plain == "":
		return ErrEmpty
	case len(plain) > maxBytes:
		return ErrTooLong
	}
	return nil
}
