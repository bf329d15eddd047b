package libserverless

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexflint/go-arg"
	"github.com/nathants/libserverless/lib"
)

func init() {
	lib.Commands["serverless-secret-keys"] = serverlessSecretKeys
	lib.Args["serverless-secret-keys"] = serverlessSecretKeysArgs{}
}

type serverlessSecretKeysArgs struct {
	SecretID string `arg:"positional,required,env:SECRETS_ARN"`
	Backend  string `arg:"-b,--backend,env:SECRETS_BACKEND" default:"secretsmanager"`
	Mount    string `arg:"-m,--mount,env:VAULT_MOUNT" default:"secret"`
}

func (serverlessSecretKeysArgs) Description() string {
	return `

fetch a secret bundle the way the handler does and print its key names, values are never printed

>> libserverless serverless-secret-keys arn:aws:secretsmanager:us-east-1:123456789012:secret:hello

`
}

func serverlessSecretKeys() {
	var args serverlessSecretKeysArgs
	arg.MustParse(&args)
	ctx := context.Background()
	cache, err := lib.NewSecretsCacheFromConfig(&lib.Config{
		SecretsArn:     args.SecretID,
		SecretsBackend: args.Backend,
		VaultMount:     args.Mount,
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	bundle := cache.Get(ctx)
	if len(bundle) == 0 {
		lib.Logger.Fatal("error: no secrets found: ", args.SecretID)
	}
	var keys []string
	for k := range bundle {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Println(k)
	}
}
