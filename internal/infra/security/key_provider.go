package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrKeyNotFound signals the requested verification key is unknown.
var ErrKeyNotFound = errors.New("key not found")

// KeyProvider supplies the RSA key material used to sign and verify access
// tokens.
type KeyProvider interface {
	GetSigningKey() (*rsa.PrivateKey, error)
	GetVerificationKey(kid string) (*rsa.PublicKey, error)
	KID() string
}

// StaticKeyProvider holds a single signing key under one key id.
type StaticKeyProvider struct {
	kid string
	key *rsa.PrivateKey
}

// NewKeyProvider loads an RSA private key in PEM form from keyFile. An empty
// keyFile generates an ephemeral key, which is only acceptable outside
// production: restarts invalidate every outstanding token.
func NewKeyProvider(kid, keyFile string) (*StaticKeyProvider, error) {
	if keyFile == "" {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("generate ephemeral key: %w", err)
		}
		return &StaticKeyProvider{kid: kid, key: key}, nil
	}

	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", keyFile)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return &StaticKeyProvider{kid: kid, key: key}, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key in %s is not RSA", keyFile)
	}

	return &StaticKeyProvider{kid: kid, key: rsaKey}, nil
}

// KID returns the key id placed in token headers.
func (p *StaticKeyProvider) KID() string {
	return p.kid
}

// GetSigningKey returns the private key for signing tokens.
func (p *StaticKeyProvider) GetSigningKey() (*rsa.PrivateKey, error) {
	if p.key == nil {
		return nil, ErrKeyNotFound
	}
	return p.key, nil
}

// GetVerificationKey returns the public key for verifying tokens.
func (p *StaticKeyProvider) GetVerificationKey(kid string) (*rsa.PublicKey, error) {
	if p.key == nil || kid != p.kid {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
	}
	return &p.key.PublicKey, nil
}
