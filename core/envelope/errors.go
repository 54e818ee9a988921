package envelope

import "errors"

var (
	// ErrNoPassword indicates no password was provided to the codec.
	ErrNoPassword = errors.New("envelope: no password provided")

	// ErrPasswordTooShort indicates a password shorter than 32 characters.
	ErrPasswordTooShort = errors.New("envelope: password must be at least 32 characters long")

	// ErrInvalidFormat indicates the envelope is not a structurally valid ciphertext.
	ErrInvalidFormat = errors.New("envelope: invalid format")

	// ErrDecryptionFailed indicates no configured password could open the envelope,
	// either because it was tampered with or sealed with a foreign password.
	ErrDecryptionFailed = errors.New("envelope: decryption failed")

	// ErrExpired indicates the envelope's time-to-live has elapsed.
	ErrExpired = errors.New("envelope: expired")
)

// DecryptError is returned by Unseal for every failure to recover a value.
// Callers treat it as "no value" and never show it to end users.
type DecryptError struct {
	Reason error
}

// Error implements the error interface.
func (e *DecryptError) Error() string {
	return "envelope: cannot unseal: " + e.Reason.Error()
}

// Unwrap returns the underlying reason so errors.Is works against the sentinels.
func (e *DecryptError) Unwrap() error {
	return e.Reason
}

// IsDecryptError reports whether err came from a failed Unseal.
func IsDecryptError(err error) bool {
	var de *DecryptError
	return errors.As(err, &de)
}
