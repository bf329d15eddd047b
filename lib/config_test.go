package lib

import (
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SECRETS_ARN", "arn:aws:secretsmanager:us-east-1:123456789012:secret:hello")
	t.Setenv("TABLE_NAME", "hello-requests")
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("SECRETS_BACKEND", "vault")
	t.Setenv("VAULT_MOUNT", "kv")
	t.Setenv("TRACING", "true")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		SecretsArn:     "arn:aws:secretsmanager:us-east-1:123456789012:secret:hello",
		SecretsBackend: SecretsBackendVault,
		VaultMount:     "kv",
		TableName:      "hello-requests",
		Environment:    "dev",
		Tracing:        true,
	}
	if *cfg != want {
		t.Errorf("\ngot:\n%+v\nwant:\n%+v\n", *cfg, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRETS_BACKEND", "")
	t.Setenv("TABLE_NAME", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SecretsBackend != SecretsBackendSecretsManager {
		t.Errorf("got backend %s", cfg.SecretsBackend)
	}
	if cfg.TableName != "" {
		t.Errorf("got table %s", cfg.TableName)
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	t.Setenv("SECRETS_BACKEND", "ssm")
	_, err := LoadConfig()
	if err == nil {
		t.Errorf("expected error")
	}
}
