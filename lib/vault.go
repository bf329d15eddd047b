package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
)

type VaultKV interface {
	Get(ctx context.Context, secretPath string) (*vault.KVSecret, error)
}

// VaultFetcher reads kv v2 secrets and hands them back json encoded, so the
// cache parses them the same way as secretsmanager values.
type VaultFetcher struct {
	kv VaultKV
}

func NewVaultFetcher(kv VaultKV) *VaultFetcher {
	return &VaultFetcher{kv: kv}
}

// VaultClient uses VAULT_ADDR, VAULT_TOKEN and VAULT_NAMESPACE from the environment.
func VaultClient(mount string) (VaultKV, error) {
	client, err := vault.NewClient(vault.DefaultConfig())
	if err != nil {
		return nil, err
	}
	mount = strings.Trim(strings.TrimSpace(mount), "/")
	if mount == "" {
		mount = "secret"
	}
	return client.KVv2(mount), nil
}

func (f *VaultFetcher) FetchSecret(ctx context.Context, secretID string) (string, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "VaultFetchSecret"}
		defer d.Log()
	}
	secretPath := strings.Trim(strings.TrimSpace(secretID), "/")
	if secretPath == "" {
		return "", fmt.Errorf("vault secret path cannot be empty")
	}
	secret, err := f.kv.Get(ctx, secretPath)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", secretPath, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, secretPath)
	}
	data, err := json.Marshal(secret.Data)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
