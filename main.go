package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/nathants/libserverless/cmd/serverless"
	"github.com/nathants/libserverless/lib"
)

func usage() {
	var fns []string
	maxLen := 0
	for k := range lib.Commands {
		fns = append(fns, k)
		maxLen = max(maxLen, len(k))
	}
	sort.Strings(fns)
	for _, fn := range fns {
		description := strings.TrimSpace(strings.Split(strings.TrimSpace(lib.Args[fn].Description()), "\n")[0])
		fmt.Printf("%-*s  %s\n", maxLen, fn, description)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fn, ok := lib.Commands[cmd]
	if !ok {
		usage()
		os.Exit(1)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' {
			for _, k := range a[1:] {
				args = append(args, fmt.Sprintf("-%s", string(k)))
			}
		} else {
			args = append(args, a)
		}
	}
	os.Args = args
	fn()
}
