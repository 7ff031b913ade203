package edenred

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomexpay/edenred/provider"
)

func writeTestPublicKey(t *testing.T, key *rsa.PublicKey) string {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	path := filepath.Join(t.TempDir(), "public.pem")
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return path
}

func TestLoadPublicKeyAndEncrypt(t *testing.T) {
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := writeTestPublicKey(t, &private.PublicKey)

	pk, err := LoadPublicKey(path, false)
	if err != nil {
		t.Fatalf("LoadPublicKey failed: %v", err)
	}
	if pk.Testing() {
		t.Error("expected testing=false")
	}

	ciphertext, err := pk.Encrypt("4111111111111111")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ciphertext == "4111111111111111" {
		t.Fatal("ciphertext must not equal plaintext")
	}

	// The holder of the private key can recover the card number.
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		t.Fatalf("ciphertext is not base64: %v", err)
	}
	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, private, raw)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(plaintext) != "4111111111111111" {
		t.Errorf("round trip yielded %q", plaintext)
	}
}

func TestLoadPublicKeyPKCS1(t *testing.T) {
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	der := x509.MarshalPKCS1PublicKey(&private.PublicKey)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der})
	path := filepath.Join(t.TempDir(), "pkcs1.pem")
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	pk, err := LoadPublicKey(path, false)
	if err != nil {
		t.Fatalf("LoadPublicKey failed for PKCS#1 key: %v", err)
	}
	if _, err := pk.Encrypt("123"); err != nil {
		t.Errorf("Encrypt failed: %v", err)
	}
}

func TestLoadPublicKeyTestingMode(t *testing.T) {
	// Testing mode loads no key material, even when the path does not exist.
	pk, err := LoadPublicKey("/nonexistent.pem", true)
	if err != nil {
		t.Fatalf("LoadPublicKey failed: %v", err)
	}
	if !pk.Testing() {
		t.Error("expected testing=true")
	}

	got, err := pk.Encrypt("4111111111111111")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if got != "4111111111111111" {
		t.Errorf("testing-mode Encrypt must be identity, got %q", got)
	}
}

func TestLoadPublicKeyErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPublicKey(filepath.Join(t.TempDir(), "missing.pem"), false)
		var keyErr *provider.KeyLoadError
		if !errors.As(err, &keyErr) {
			t.Fatalf("expected *KeyLoadError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("expected cause to unwrap to os.ErrNotExist")
		}
	})

	t.Run("not pem", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.pem")
		if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadPublicKey(path, false)
		var keyErr *provider.KeyLoadError
		if !errors.As(err, &keyErr) {
			t.Fatalf("expected *KeyLoadError, got %v", err)
		}
		if keyErr.Path != path {
			t.Errorf("unexpected path %q", keyErr.Path)
		}
	})
}

func TestPublicKeyEqual(t *testing.T) {
	private, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := writeTestPublicKey(t, &private.PublicKey)

	loaded, err := LoadPublicKey(path, false)
	if err != nil {
		t.Fatal(err)
	}
	loadedAgain, err := LoadPublicKey(path, false)
	if err != nil {
		t.Fatal(err)
	}

	if !loaded.Equal(loadedAgain) {
		t.Error("keys loaded from the same file must be equal")
	}
	if loaded.Equal(nil) {
		t.Error("nil is never equal")
	}

	testing1, _ := LoadPublicKey("a", true)
	testing2, _ := LoadPublicKey("a", true)
	if !testing1.Equal(testing2) {
		t.Error("testing keys with the same path must be equal")
	}
	if loaded.Equal(testing1) {
		t.Error("loaded key must not equal a testing key")
	}

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	otherLoaded, err := LoadPublicKey(writeTestPublicKey(t, &other.PublicKey), false)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Equal(otherLoaded) {
		t.Error("different key material must not be equal")
	}
}
