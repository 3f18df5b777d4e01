// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionalInt64 parses a base-10 integer. An absent value (ok == false)
// yields nil; a present value that does not parse is an error.
func OptionalInt64(s string, ok bool) (*int64, error) {
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return &n, nil
}

// OptionalInt is OptionalInt64 for machine-sized ints.
func OptionalInt(s string, ok bool) (*int, error) {
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return &n, nil
}
