package options

import (
	"strings"

	clierrors "github.com/ariel-frischer/pyinit/internal/errors"
)

// domain is the declared value set of one enumerated flag.
type domain[T ~string] struct {
	flag   string
	values []T
}

func (d domain[T]) parse(raw string) (T, error) {
	for _, v := range d.values {
		if string(v) == raw {
			return v, nil
		}
	}
	var zero T
	return zero, clierrors.InvalidOption(d.flag, raw, d.names())
}

func (d domain[T]) names() []string {
	out := make([]string, len(d.values))
	for i, v := range d.values {
		out[i] = string(v)
	}
	return out
}

func (d domain[T]) String() string {
	return strings.Join(d.names(), ", ")
}
