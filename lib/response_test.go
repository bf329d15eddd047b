package lib

import (
	"reflect"
	"testing"
)

func TestBuildResponse(t *testing.T) {
	type test struct {
		status  int
		body    interface{}
		headers map[string]string
		want    map[string]string
		text    string
	}
	tests := []test{
		{
			200,
			map[string]int{"a": 1},
			map[string]string{"X-Foo": "bar"},
			map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*", "X-Foo": "bar"},
			`{"a":1}`,
		},
		{
			201,
			ErrorBody{Message: "ok"},
			nil,
			map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			`{"message":"ok"}`,
		},
		{
			200,
			"text",
			map[string]string{"Content-Type": "text/plain", "Access-Control-Allow-Origin": "https://example.com"},
			map[string]string{"Content-Type": "text/plain", "Access-Control-Allow-Origin": "https://example.com"},
			`"text"`,
		},
		{
			204,
			nil,
			nil,
			map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			`null`,
		},
	}
	for _, test := range tests {
		res, err := BuildResponse(test.status, test.body, test.headers)
		if err != nil {
			t.Errorf("\nerror: %s", err)
			continue
		}
		if res.StatusCode != test.status {
			t.Errorf("\ngot:\n%d\nwant:\n%d\n", res.StatusCode, test.status)
		}
		if !reflect.DeepEqual(res.Headers, test.want) {
			t.Errorf("\ngot:\n%v\nwant:\n%v\n", res.Headers, test.want)
		}
		if res.Body != test.text {
			t.Errorf("\ngot:\n%s\nwant:\n%s\n", res.Body, test.text)
		}
	}
}

func TestBuildResponseDoesNotShareDefaults(t *testing.T) {
	res, err := BuildResponse(200, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	res.Headers["Content-Type"] = "text/html"
	again, err := BuildResponse(200, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Headers["Content-Type"] != "application/json" {
		t.Errorf("defaults were mutated: %v", again.Headers)
	}
}

func TestBuildResponseMarshalError(t *testing.T) {
	_, err := BuildResponse(200, map[string]interface{}{"ch": make(chan int)}, nil)
	if err == nil {
		t.Errorf("expected error")
	}
}
