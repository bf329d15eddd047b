package lib

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
)

var sess *aws.Config
var sessLock sync.Mutex

func sessionOptions() []func(*config.LoadOptions) error {
	return []func(*config.LoadOptions) error{
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), 5)
		}),
	}
}

func sessionInstrument(cfg *aws.Config) {
	if tracingEnabled() {
		awsv2.AWSV2Instrumentor(&cfg.APIOptions)
	}
}

func Session() *aws.Config {
	sessLock.Lock()
	defer sessLock.Unlock()
	if sess == nil {
		cfg, err := config.LoadDefaultConfig(context.Background(), sessionOptions()...)
		if err != nil {
			panic(err)
		}
		sessionInstrument(&cfg)
		sess = &cfg
	}
	return sess
}

func SessionExplicit(accessKeyID, accessKeySecret, region string) *aws.Config {
	opts := append(
		sessionOptions(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
	)
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic(err)
	}
	sessionInstrument(&cfg)
	return &cfg
}
