package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	nonceLength = 24
	keyLength   = 32
	hkdfInfo    = "flight-admin session storage v1"
)

// ErrUnsealable is returned when a stored value cannot be decrypted with the current key.
var ErrUnsealable = errors.New("stored value cannot be unsealed")

var _ Store = (*Sealed)(nil)

// Sealed encrypts every value with NaCl secretbox before handing it to the
// wrapped Store. Keys are left in clear text.
type Sealed struct {
	inner Store
	key   [keyLength]byte
}

// NewSealed derives a secretbox key from secret with HKDF-SHA256 and wraps inner.
func NewSealed(inner Store, secret []byte) (*Sealed, error) {
	if len(secret) == 0 {
		return nil, errors.New("[NewSealed] secret is required")
	}
	s := &Sealed{inner: inner}
	kdf := hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("[NewSealed] derive key: %w", err)
	}
	return s, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("[Sealed Get] %s: %w", key, err)
	}
	return plain, true, nil
}

func (s *Sealed) Set(ctx context.Context, values map[string]string, remove ...string) error {
	sealed := make(map[string]string, len(values))
	for k, v := range values {
		box, err := s.seal(v)
		if err != nil {
			return fmt.Errorf("[Sealed Set] %s: %w", k, err)
		}
		sealed[k] = box
	}
	return s.inner.Set(ctx, sealed, remove...)
}

func (s *Sealed) Remove(ctx context.Context, keys ...string) error {
	return s.inner.Remove(ctx, keys...)
}

func (s *Sealed) seal(plain string) (string, error) {
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *Sealed) open(encoded string) (string, error) {
	box, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(box) < nonceLength+secretbox.Overhead {
		return "", ErrUnsealable
	}
	var nonce [nonceLength]byte
	copy(nonce[:], box[:nonceLength])
	plain, ok := secretbox.Open(nil, box[nonceLength:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealable
	}
	return string(plain), nil
}

// Touch forwards to the wrapped store when it tracks use.
func (s *Sealed) Touch(ctx context.Context) error {
	if t, ok := s.inner.(Toucher); ok {
		return t.Touch(ctx)
	}
	return nil
}
