package lib

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitTwice(t *testing.T) {
	type test struct {
		input string
		a     string
		b     string
		c     string
		err   bool
	}
	tests := []test{
		{"id:s:hash", "id", "s", "hash", false},
		{"id:s:hash:extra", "id", "s", "hash:extra", false},
		{"id:s", "", "", "", true},
		{"id", "", "", "", true},
	}
	for _, test := range tests {
		a, b, c, err := SplitTwice(test.input, ":")
		if test.err {
			if err == nil {
				t.Errorf("\nexpected error")
			}
			continue
		}
		if err != nil {
			t.Errorf("\nerror: %s", err)
			continue
		}
		if a != test.a || b != test.b || c != test.c {
			t.Errorf("\ngot:\n%s %s %s\nwant:\n%s %s %s\n", a, b, c, test.a, test.b, test.c)
		}
	}
}

func TestLoggerPrintlnAddsCaller(t *testing.T) {
	var out strings.Builder
	logger := &LoggerStruct{
		Print: func(args ...interface{}) {
			out.WriteString(fmt.Sprint(args...))
		},
		Flush: func() {},
	}
	logger.Println("error:", "boom")
	if !strings.HasPrefix(out.String(), "lib/lib_test.go:") {
		t.Errorf("missing caller: %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "error: boom\n") {
		t.Errorf("got: %q", out.String())
	}
	out.Reset()
	logger.disabled = true
	logger.Println("hidden")
	if out.Len() != 0 {
		t.Errorf("expected nothing when disabled, got %q", out.String())
	}
}
