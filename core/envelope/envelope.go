package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/hkdf"
)

const (
	// MinPasswordLength is the minimum password length, in characters.
	MinPasswordLength = 32

	version  byte = 1
	saltSize      = 16
	keySize       = 32
	hkdfInfo      = "authkit envelope v1"
)

// payload is the authenticated plaintext. Exp is zero when the envelope never expires.
type payload struct {
	Exp  int64           `json:"exp,omitempty"`
	Data json.RawMessage `json:"data"`
}

// Codec seals values into opaque, tamper-proof strings and opens them again.
// The first password seals; every password is tried when opening, which allows
// rotating passwords without invalidating existing envelopes.
// Safe for concurrent use.
type Codec struct {
	passwords []string
	now       func() time.Time
	random    io.Reader
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRandom overrides the entropy source for salts and nonces.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r != nil {
			c.random = r
		}
	}
}

// New creates a codec. Every non-empty password must be at least
// MinPasswordLength characters long.
func New(passwords []string, opts ...Option) (*Codec, error) {
	passwords = slices.DeleteFunc(slices.Clone(passwords), func(s string) bool { return s == "" })
	if len(passwords) == 0 {
		return nil, ErrNoPassword
	}

	for i, p := range passwords {
		if n := utf8.RuneCountInString(p); n < MinPasswordLength {
			return nil, fmt.Errorf("%w: password %d has %d chars, need at least %d",
				ErrPasswordTooShort, i, n, MinPasswordLength)
		}
	}

	c := &Codec{
		passwords: passwords,
		now:       time.Now,
		random:    rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Seal serializes v as JSON and encrypts it. A positive ttl bounds how long
// the envelope can be opened; zero means no expiry.
func (c *Codec) Seal(v any, ttl time.Duration) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("envelope: marshal value: %w", err)
	}

	p := payload{Data: data}
	if ttl > 0 {
		p.Exp = c.now().Add(ttl).Unix()
	}

	plaintext, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("envelope: marshal payload: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.random, salt); err != nil {
		return "", fmt.Errorf("envelope: read salt: %w", err)
	}

	aead, err := deriveAEAD(c.passwords[0], salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return "", fmt.Errorf("envelope: read nonce: %w", err)
	}

	// version | salt | nonce | ciphertext
	out := make([]byte, 0, 1+saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, version)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, []byte{version})

	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Unseal decrypts an envelope into dst. Every failure is a *DecryptError.
func (c *Codec) Unseal(sealed string, dst any) error {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < 1+saltSize || raw[0] != version {
		return &DecryptError{Reason: ErrInvalidFormat}
	}

	salt := raw[1 : 1+saltSize]
	body := raw[1+saltSize:]

	var plaintext []byte
	for _, password := range c.passwords {
		aead, err := deriveAEAD(password, salt)
		if err != nil {
			continue
		}
		if len(body) < aead.NonceSize()+aead.Overhead() {
			return &DecryptError{Reason: ErrInvalidFormat}
		}

		nonce, ciphertext := body[:aead.NonceSize()], body[aead.NonceSize():]
		if out, err := aead.Open(nil, nonce, ciphertext, []byte{version}); err == nil {
			plaintext = out
			break
		}
	}
	if plaintext == nil {
		return &DecryptError{Reason: ErrDecryptionFailed}
	}

	var p payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return &DecryptError{Reason: ErrInvalidFormat}
	}
	if p.Exp > 0 && c.now().Unix() >= p.Exp {
		return &DecryptError{Reason: ErrExpired}
	}
	if err := json.Unmarshal(p.Data, dst); err != nil {
		return &DecryptError{Reason: fmt.Errorf("%w: %v", ErrInvalidFormat, err)}
	}

	return nil
}

// deriveAEAD stretches the password into an AES-256-GCM key bound to salt.
func deriveAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(password), salt, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("envelope: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
