// internal/vault/vault.go
//
// Vault KV reader for configuration secrets.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK behind a small, concurrency-safe
//     client that satisfies `config.SecretReader`.
//   - Keeps the login token alive with a lifetime watcher and caches each
//     `path#key` for the TTL the caller asks for.
//   - Address and token come from VAULT_ADDR and VAULT_TOKEN.
//
// Workflow
// --------
//  1. cli, err := vault.New(ctx, log)                       // at boot.
//  2. err = config.ResolveSecrets(ctx, cfg, cli)            // once.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

//
// SECTION 1.  Client
//

// kvReader reads the data map of a KV-v2 secret.
type kvReader func(ctx context.Context, mount, rel string) (map[string]any, error)

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	read kvReader
	log  *zap.SugaredLogger

	mu    sync.RWMutex
	cache map[string]cached // path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New builds a Client from the Vault environment and starts token renewal
// until ctx is cancelled.
func New(ctx context.Context, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.S()
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	c := newClient(func(ctx context.Context, mount, rel string) (map[string]any, error) {
		sec, err := api.KVv2(mount).Get(ctx, rel)
		if err != nil {
			return nil, err
		}
		return sec.Data, nil
	}, log)

	go renew(ctx, api, log)
	return c, nil
}

func newClient(read kvReader, log *zap.SugaredLogger) *Client {
	return &Client{read: read, log: log, cache: make(map[string]cached)}
}

// GetKV returns one string key of a KV-v2 secret.  secretPath is
// "<mount>/<path>".  When ttl > 0 the value is cached for that long.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}
	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.mu.RLock()
		cv, ok := c.cache[canonical]
		c.mu.RUnlock()
		if ok && time.Now().Before(cv.exp) {
			return cv.val, nil
		}
	}

	mount, rel := splitMount(secretPath)
	data, err := c.read(ctx, mount, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	if ttl > 0 {
		c.mu.Lock()
		c.cache[canonical] = cached{val: val, exp: time.Now().Add(ttl)}
		c.mu.Unlock()
	}
	c.log.Debugw("vault secret read", "path", secretPath, "key", key)
	return val, nil
}

//
// SECTION 2.  Token renewal
//

func renew(ctx context.Context, api *vault.Client, log *zap.SugaredLogger) {
	for {
		sec, err := api.Auth().Token().RenewSelfWithContext(ctx, 0)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			log.Warnw("vault token renew failed", "err", err)
			if !sleep(ctx, 30*time.Second) {
				return
			}
			continue
		case sec == nil || sec.Auth == nil || !sec.Auth.Renewable:
			log.Debugw("vault token not renewable")
			return
		}

		w, err := api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			log.Warnw("vault watcher init failed", "err", err)
			if !sleep(ctx, 30*time.Second) {
				return
			}
			continue
		}
		go w.Start()
		if !watch(ctx, w, log) {
			return
		}
	}
}

// watch drains w until it stops.  Returns false when ctx is done.
func watch(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) bool {
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("vault token renewal stopped", "err", err)
			}
			return sleep(ctx, 15*time.Second)
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return mount, rel
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
