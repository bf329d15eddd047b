package lib

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeFetcher struct {
	calls  atomic.Int32
	lock   sync.Mutex
	values []string
	errs   []error
	delay  time.Duration
}

func (f *fakeFetcher) FetchSecret(_ context.Context, secretID string) (string, error) {
	n := int(f.calls.Add(1)) - 1
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if secretID == "" {
		return "", fmt.Errorf("secret id cannot be empty")
	}
	if n < len(f.errs) && f.errs[n] != nil {
		return "", f.errs[n]
	}
	if n < len(f.values) {
		return f.values[n], nil
	}
	return f.values[len(f.values)-1], nil
}

func TestSecretsCacheMemoizes(t *testing.T) {
	fetcher := &fakeFetcher{values: []string{`{"api_key":"abc","db_password":"xyz"}`}}
	cache := NewSecretsCache(fetcher, "arn:aws:secretsmanager:us-east-1:123:secret:app")
	ctx := context.Background()
	first := cache.Get(ctx)
	second := cache.Get(ctx)
	want := SecretBundle{"api_key": "abc", "db_password": "xyz"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("\ngot:\n%v\nwant:\n%v\n", first, want)
	}
	if !reflect.DeepEqual(second, want) {
		t.Errorf("\ngot:\n%v\nwant:\n%v\n", second, want)
	}
	if fetcher.calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls.Load())
	}
}

func TestSecretsCacheFailureIsNotCached(t *testing.T) {
	fetcher := &fakeFetcher{
		errs:   []error{fmt.Errorf("throttled"), fmt.Errorf("throttled")},
		values: []string{"", "", `{"api_key":"abc"}`},
	}
	cache := NewSecretsCache(fetcher, "app")
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		bundle := cache.Get(ctx)
		if bundle == nil || len(bundle) != 0 {
			t.Errorf("expected empty bundle, got %v", bundle)
		}
	}
	bundle := cache.Get(ctx)
	if bundle["api_key"] != "abc" {
		t.Errorf("expected populated bundle, got %v", bundle)
	}
	_ = cache.Get(ctx)
	if fetcher.calls.Load() != 3 {
		t.Errorf("expected 3 fetches, got %d", fetcher.calls.Load())
	}
}

func TestSecretsCacheBadJSONIsNotCached(t *testing.T) {
	fetcher := &fakeFetcher{values: []string{`not json`, `[1,2]`, `null`, `{"k":"v"}`}}
	cache := NewSecretsCache(fetcher, "app")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if len(cache.Get(ctx)) != 0 {
			t.Errorf("expected empty bundle on attempt %d", i)
		}
	}
	if cache.Get(ctx)["k"] != "v" {
		t.Errorf("expected bundle after bad values")
	}
}

func TestSecretsCacheEmptySecretID(t *testing.T) {
	fetcher := &fakeFetcher{values: []string{`{"k":"v"}`}}
	cache := NewSecretsCache(fetcher, "")
	ctx := context.Background()
	if len(cache.Get(ctx)) != 0 || len(cache.Get(ctx)) != 0 {
		t.Errorf("expected empty bundle")
	}
	if fetcher.calls.Load() != 2 {
		t.Errorf("expected a retry per call, got %d", fetcher.calls.Load())
	}
}

func TestSecretsCacheEmptyObjectIsCached(t *testing.T) {
	fetcher := &fakeFetcher{values: []string{`{}`, `{"k":"v"}`}}
	cache := NewSecretsCache(fetcher, "app")
	ctx := context.Background()
	_ = cache.Get(ctx)
	bundle := cache.Get(ctx)
	if len(bundle) != 0 {
		t.Errorf("expected memoized empty bundle, got %v", bundle)
	}
	if fetcher.calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls.Load())
	}
}

func TestSecretsCacheReturnsCopies(t *testing.T) {
	fetcher := &fakeFetcher{values: []string{`{"k":"v"}`}}
	cache := NewSecretsCache(fetcher, "app")
	ctx := context.Background()
	bundle := cache.Get(ctx)
	bundle["k"] = "changed"
	bundle["extra"] = "x"
	again := cache.Get(ctx)
	if !reflect.DeepEqual(again, SecretBundle{"k": "v"}) {
		t.Errorf("cached bundle was mutated: %v", again)
	}
}

func TestSecretsCacheConcurrentFirstCall(t *testing.T) {
	fetcher := &fakeFetcher{values: []string{`{"k":"v"}`}, delay: 50 * time.Millisecond}
	cache := NewSecretsCache(fetcher, "app")
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.Get(ctx)["k"] != "v" {
				t.Errorf("expected bundle")
			}
		}()
	}
	wg.Wait()
	if fetcher.calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.calls.Load())
	}
}

func TestParseSecretBundle(t *testing.T) {
	type test struct {
		input  string
		output SecretBundle
		err    bool
	}
	tests := []test{
		{`{"a":"1"}`, SecretBundle{"a": "1"}, false},
		{`{"port":5432,"tls":true,"hosts":["a","b"]}`, SecretBundle{"port": "5432", "tls": "true", "hosts": `["a","b"]`}, false},
		{`{}`, SecretBundle{}, false},
		{`"just a string"`, nil, true},
		{`null`, nil, true},
		{``, nil, true},
	}
	for _, test := range tests {
		output, err := ParseSecretBundle(test.input)
		if test.err {
			if err == nil {
				t.Errorf("\nexpected error: %s", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("\nerror: %s", err)
			continue
		}
		if !reflect.DeepEqual(output, test.output) {
			t.Errorf("\ngot:\n%v\nwant:\n%v\n", output, test.output)
		}
	}
}
