// internal/config/secrets.go
//
// Vault secret indirection.
//
// A secret field may be written as
//
//	prismic:
//	  access_token: "vault:secret/storefront#prismic_token"
//
// `ResolveSecrets` walks the secret-bearing fields and replaces each such
// reference with the value read through a SecretReader (the Vault client in
// production, a map in tests).  Plain values are left untouched.

package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const secretPrefix = "vault:"

// secretTTL bounds how long the reader may cache a resolved value.
const secretTTL = 5 * time.Minute

// SecretReader fetches one key of a KV secret.
type SecretReader interface {
	GetKV(ctx context.Context, path, key string, ttl time.Duration) (string, error)
}

// IsSecretRef reports whether s is a `vault:` reference.
func IsSecretRef(s string) bool { return strings.HasPrefix(s, secretPrefix) }

// ResolveSecrets replaces `vault:` references in c with their values and
// re-validates the result.
func ResolveSecrets(ctx context.Context, c *Config, r SecretReader) error {
	fields := []struct {
		name string
		val  *string
	}{
		{"prismic.access_token", &c.Prismic.AccessToken},
		{"snipcart.key", &c.Snipcart.Key},
	}

	for _, f := range fields {
		if !IsSecretRef(*f.val) {
			continue
		}
		path, key, err := parseSecretRef(*f.val)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		if r == nil {
			return fmt.Errorf("%s: vault reference but vault is disabled", f.name)
		}
		val, err := r.GetKV(ctx, path, key, secretTTL)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.val = val
	}
	return validateStruct(c)
}

// parseSecretRef splits "vault:<path>#<key>".
func parseSecretRef(ref string) (path, key string, err error) {
	rest := strings.TrimPrefix(ref, secretPrefix)
	path, key, ok := strings.Cut(rest, "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("malformed secret reference %q, want vault:<path>#<key>", ref)
	}
	return path, key, nil
}
