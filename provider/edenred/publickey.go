package edenred

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/gomexpay/edenred/provider"
)

// PublicKey wraps the gateway-issued RSA public key used to protect card data
// in transit. In testing mode no key material is loaded and Encrypt returns
// its input unchanged, so fixtures stay deterministic.
type PublicKey struct {
	path    string
	testing bool
	key     *rsa.PublicKey
}

// LoadPublicKey reads and parses a PEM-encoded RSA public key from path.
// A read or parse failure is reported as *provider.KeyLoadError.
func LoadPublicKey(path string, testing bool) (*PublicKey, error) {
	pk := &PublicKey{path: path, testing: testing}
	if testing {
		return pk, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &provider.KeyLoadError{Path: path, Err: err}
	}
	key, err := parseRSAPublicKey(raw)
	if err != nil {
		return nil, &provider.KeyLoadError{Path: path, Err: err}
	}
	pk.key = key
	return pk, nil
}

func parseRSAPublicKey(raw []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("unsupported key type %T", key)
		}
		return rsaKey, nil
	}
	return x509.ParsePKCS1PublicKey(block.Bytes)
}

// Encrypt applies PKCS#1 v1.5 padding and returns the ciphertext as
// base64-encoded text.
func (k *PublicKey) Encrypt(plaintext string) (string, error) {
	if k.testing {
		return plaintext, nil
	}

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, k.key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("encrypt card data: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Testing reports whether encryption is bypassed.
func (k *PublicKey) Testing() bool {
	return k.testing
}

// Equal reports whether both keys hold the same material and testing flag.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	if k.testing != other.testing {
		return false
	}
	if k.key == nil || other.key == nil {
		return k.key == other.key && k.path == other.path
	}
	return k.key.Equal(other.key)
}
