package lib

import (
	"fmt"

	"github.com/alexflint/go-arg"
)

const (
	SecretsBackendSecretsManager = "secretsmanager"
	SecretsBackendVault          = "vault"
)

// Config is read from the environment only. It is a go-arg struct so the
// same env tags document themselves in the cli.
type Config struct {
	SecretsArn     string `arg:"--secrets-arn,env:SECRETS_ARN" help:"secret id: arn or name, or kv path for vault"`
	SecretsBackend string `arg:"--secrets-backend,env:SECRETS_BACKEND" default:"secretsmanager" help:"secretsmanager | vault"`
	VaultMount     string `arg:"--vault-mount,env:VAULT_MOUNT" default:"secret" help:"kv v2 mount for the vault backend"`
	TableName      string `arg:"--table-name,env:TABLE_NAME" help:"dynamodb table for audit records, unset disables recording"`
	Environment    string `arg:"--environment,env:ENVIRONMENT" help:"informational environment tag"`
	Tracing        bool   `arg:"--tracing,env:TRACING" help:"trace with x-ray"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	p, err := arg.NewParser(arg.Config{Program: "libserverless"}, cfg)
	if err != nil {
		return nil, err
	}
	err = p.Parse(nil)
	if err != nil {
		return nil, err
	}
	if cfg.SecretsBackend == "" {
		cfg.SecretsBackend = SecretsBackendSecretsManager
	}
	if !Contains([]string{SecretsBackendSecretsManager, SecretsBackendVault}, cfg.SecretsBackend) {
		return nil, fmt.Errorf("unknown secrets backend: %s", cfg.SecretsBackend)
	}
	return cfg, nil
}

func tracingEnabled() bool {
	cfg, err := LoadConfig()
	return err == nil && cfg.Tracing
}
