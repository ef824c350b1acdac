package configs

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

// Pairs returns the keys in the order gorilla/sessions expects.
func (k *SessionKeys) Pairs() [][]byte {
	if len(k.EncKey) == 0 {
		return [][]byte{k.AuthKey}
	}
	return [][]byte{k.AuthKey, k.EncKey}
}

// LoadSessionKeys decodes APP_AUTH_KEY and APP_ENC_KEY. When they are unset,
// SESSION_KEY is used as a sign-only key; outside production a throwaway
// key is generated so the storefront still starts.
func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey == "" && env.AppEncKey == "" {
		if env.SESSION_KEY != "" {
			log.Warn().Msg("LoadSessionKeys: APP_AUTH_KEY not set, signing sessions with SESSION_KEY")
			return &SessionKeys{AuthKey: []byte(env.SESSION_KEY)}, nil
		}
		if env.IsProduction() {
			return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
		}
		log.Warn().Msg("LoadSessionKeys: no session keys configured, generating ephemeral keys")
		return &SessionKeys{
			AuthKey: securecookie.GenerateRandomKey(64),
			EncKey:  securecookie.GenerateRandomKey(32),
		}, nil
	}

	if env.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from Base64: %w", err)
	}

	keys := &SessionKeys{AuthKey: authKey}
	if env.AppEncKey == "" {
		return keys, nil
	}

	encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from Base64: %w", err)
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	keys.EncKey = encKey

	log.Info().Msg("LoadSessionKeys: session keys loaded")
	return keys, nil
}

// LoadCSRFKey decodes CSRF_KEY. An empty key disables CSRF protection.
func LoadCSRFKey(env ENV) ([]byte, error) {
	if env.CSRFKey == "" {
		if env.IsProduction() {
			log.Warn().Msg("LoadCSRFKey: CSRF_KEY not set, forms are unprotected")
		}
		return nil, nil
	}
	key, err := base64.URLEncoding.DecodeString(env.CSRFKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSRF_KEY from Base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func GenerateAndPrintSessionKeys(envFilePath string) error {
	fmt.Println("Generating new session keys...")

	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return fmt.Errorf("error: could not generate authentication key")
	}

	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return fmt.Errorf("error: could not generate encryption key")
	}

	csrfKey := securecookie.GenerateRandomKey(32)
	if csrfKey == nil {
		return fmt.Errorf("error: could not generate csrf key")
	}

	lines := fmt.Sprintf(
		"APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nCSRF_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
		base64.URLEncoding.EncodeToString(csrfKey),
	)

	fmt.Println("\n================================================")
	fmt.Println("Generated keys:")
	fmt.Print(lines)
	fmt.Println("================================================")

	fullPath, err := filepath.Abs(envFilePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", envFilePath, err)
	}

	if err := os.WriteFile(envFilePath, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", envFilePath, err)
	}

	fmt.Printf("\nKeys have been written to '%s'.\n", fullPath)
	fmt.Println("Copy these lines into your .env file. Regenerating invalidates existing carts.")
	return nil
}
