package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"golang.org/x/sync/singleflight"
)

type SecretBundle map[string]string

// SecretsCache fetches one secret lazily and keeps it for the life of the
// process. Failures are logged and answered with an empty bundle, and are not
// cached, so the next Get tries again.
type SecretsCache struct {
	fetcher  SecretFetcher
	secretID string

	lock   sync.RWMutex
	bundle SecretBundle
	group  singleflight.Group
}

func NewSecretsCache(fetcher SecretFetcher, secretID string) *SecretsCache {
	return &SecretsCache{
		fetcher:  fetcher,
		secretID: secretID,
	}
}

func NewSecretsCacheFromConfig(cfg *Config) (*SecretsCache, error) {
	switch cfg.SecretsBackend {
	case SecretsBackendVault:
		kv, err := VaultClient(cfg.VaultMount)
		if err != nil {
			return nil, err
		}
		return NewSecretsCache(NewVaultFetcher(kv), cfg.SecretsArn), nil
	case SecretsBackendSecretsManager, "":
		return NewSecretsCache(NewSecretsManagerFetcher(SecretsManagerClient()), cfg.SecretsArn), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend: %s", cfg.SecretsBackend)
	}
}

func (c *SecretsCache) cached() (SecretBundle, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.bundle == nil {
		return nil, false
	}
	return maps.Clone(c.bundle), true
}

func (c *SecretsCache) Get(ctx context.Context) SecretBundle {
	if bundle, ok := c.cached(); ok {
		return bundle
	}
	val, err, _ := c.group.Do("secrets", func() (interface{}, error) {
		if bundle, ok := c.cached(); ok {
			return bundle, nil
		}
		bundle, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.lock.Lock()
		c.bundle = bundle
		c.lock.Unlock()
		return bundle, nil
	})
	if err != nil {
		Logger.Println("error: failed to retrieve secrets:", c.secretID, err)
		return SecretBundle{}
	}
	return maps.Clone(val.(SecretBundle))
}

func (c *SecretsCache) fetch(ctx context.Context) (SecretBundle, error) {
	raw, err := c.fetcher.FetchSecret(ctx, c.secretID)
	if err != nil {
		return nil, err
	}
	return ParseSecretBundle(raw)
}

// ParseSecretBundle decodes a json object. Values that are not strings are
// kept as their json text.
func ParseSecretBundle(raw string) (SecretBundle, error) {
	var vals map[string]json.RawMessage
	err := json.Unmarshal([]byte(raw), &vals)
	if err != nil {
		return nil, fmt.Errorf("secret is not a json object: %w", err)
	}
	if vals == nil {
		return nil, fmt.Errorf("secret is not a json object: null")
	}
	bundle := make(SecretBundle, len(vals))
	for k, v := range vals {
		var s string
		if json.Unmarshal(v, &s) == nil {
			bundle[k] = s
		} else {
			bundle[k] = string(v)
		}
	}
	return bundle, nil
}
