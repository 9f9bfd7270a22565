package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dayplan/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownSecret is returned for a secret name the application does not use
	ErrUnknownSecret = errors.New("unknown secret")
)

// Secret names an entry the application keeps in the OS keyring
type Secret string

const (
	// SecretConnection is the PostgreSQL connection string
	SecretConnection Secret = "connection"
	// SecretAnthropicKey is the API key used by the plan generator
	SecretAnthropicKey Secret = "anthropic-api-key"
)

// Secrets lists every secret name accepted by Get, Set and Delete
var Secrets = []Secret{SecretConnection, SecretAnthropicKey}

// envVars maps each secret to the environment variable that overrides it
var envVars = map[Secret]string{
	SecretConnection:   constants.EnvDBConnection,
	SecretAnthropicKey: constants.EnvAnthropicKey,
}

// ParseSecret validates a secret name given on the command line
func ParseSecret(name string) (Secret, error) {
	for _, s := range Secrets {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSecret, name)
}

// user is the keyring account name; the connection string keeps the historical
// default user so existing entries stay readable.
func (s Secret) user() string {
	if s == SecretConnection {
		return constants.DefaultKeyringUser
	}
	return string(s)
}

// EnvVar returns the environment variable that takes precedence over the keyring
func (s Secret) EnvVar() string {
	return envVars[s]
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(secret Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, secret.user())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring.
func Set(secret Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", secret)
	}
	if err := keyring.Set(constants.AppName, secret.user(), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", secret, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(secret Secret) error {
	err := keyring.Delete(constants.AppName, secret.user())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret, err)
	}
	return nil
}

// Resolve returns the secret from its environment variable when set, falling back
// to the keyring. The second result names where the value came from.
func Resolve(secret Secret) (string, string, error) {
	if env := secret.EnvVar(); env != "" {
		if value := os.Getenv(env); value != "" {
			return value, env, nil
		}
	}
	value, err := Get(secret)
	if err != nil {
		return "", "", err
	}
	return value, "keyring", nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
