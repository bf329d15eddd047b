package lib

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

var (
	ErrSecretNotFound     = errors.New("secret not found")
	ErrSecretAccessDenied = errors.New("secret access denied")
	ErrSecretEmpty        = errors.New("secret has no value")
)

// SecretFetcher returns the raw value of a secret, expected to be a json object.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, secretID string) (string, error)
}

type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var secretsManagerClient *secretsmanager.Client
var secretsManagerClientLock sync.Mutex

func SecretsManagerClientExplicit(accessKeyID, accessKeySecret, region string) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(*SessionExplicit(accessKeyID, accessKeySecret, region))
}

func SecretsManagerClient() *secretsmanager.Client {
	secretsManagerClientLock.Lock()
	defer secretsManagerClientLock.Unlock()
	if secretsManagerClient == nil {
		secretsManagerClient = secretsmanager.NewFromConfig(*Session())
	}
	return secretsManagerClient
}

type SecretsManagerFetcher struct {
	api SecretsManagerAPI
}

func NewSecretsManagerFetcher(api SecretsManagerAPI) *SecretsManagerFetcher {
	return &SecretsManagerFetcher{api: api}
}

func (f *SecretsManagerFetcher) FetchSecret(ctx context.Context, secretID string) (string, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "SecretsManagerFetchSecret"}
		defer d.Log()
	}
	if secretID == "" {
		return "", fmt.Errorf("secret id cannot be empty")
	}
	out, err := f.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", secretsManagerError(err, secretID)
	}
	if out.SecretString != nil && *out.SecretString != "" {
		return *out.SecretString, nil
	}
	if len(out.SecretBinary) > 0 {
		return string(out.SecretBinary), nil
	}
	return "", fmt.Errorf("%w: %s", ErrSecretEmpty, secretID)
}

func secretsManagerError(err error, secretID string) error {
	var notFound *smtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, secretID)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "AccessDeniedException" {
			return fmt.Errorf("%w: %s", ErrSecretAccessDenied, secretID)
		}
		return fmt.Errorf("get secret value failed: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("get secret value failed: %w", err)
}
