package secrets

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// SealedExt is appended to the credentials path when the file is sealed.
const SealedExt = ".age"

// Seal encrypts the encoded bundle to the given age recipients (age1...).
// The output is ASCII-armored.
func Seal(b Bundle, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		r, err := age.ParseX25519Recipient(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("parsing recipient %q: %w", key, err)
		}
		recipients = append(recipients, r)
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := w.Write(Encode(b)); err != nil {
		return nil, fmt.Errorf("encrypting credentials: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.Bytes(), nil
}

// Unseal decrypts data produced by Seal with an AGE-SECRET-KEY-1... identity.
func Unseal(data []byte, identityKey string) (Bundle, error) {
	identity, err := age.ParseX25519Identity(strings.TrimSpace(identityKey))
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(data)), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting credentials: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted credentials: %w", err)
	}
	return Parse(plain)
}

// WriteSealedFile seals the bundle and writes it to path with owner-only
// permissions.
func WriteSealedFile(path string, b Bundle, recipientKeys []string) error {
	data, err := Seal(b, recipientKeys)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write sealed credentials: %w", err)
	}
	return nil
}

// ReadSealedFile reads and unseals a file written by WriteSealedFile.
func ReadSealedFile(path, identityKey string) (Bundle, error) {
	// #nosec G304 - path is operator-supplied
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sealed credentials: %w", err)
	}
	return Unseal(data, identityKey)
}
