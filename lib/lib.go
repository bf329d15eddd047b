package lib

import (
	"fmt"
	"strings"
)

type ArgsStruct interface {
	Description() string
}

var Commands = make(map[string]func())

var Args = make(map[string]ArgsStruct)

func Contains(parts []string, part string) bool {
	for _, p := range parts {
		if p == part {
			return true
		}
	}
	return false
}

func splitOnce(s string, sep string) (head, tail string, err error) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) == 2 {
		return parts[0], parts[1], nil
	}
	return "", "", fmt.Errorf("cannot splitOnce: %s", s)
}

func SplitTwice(s string, sep string) (string, string, string, error) {
	parts := strings.SplitN(s, sep, 3)
	if len(parts) == 3 {
		return parts[0], parts[1], parts[2], nil
	}
	return "", "", "", fmt.Errorf("cannot splitTwice: %s", s)
}
