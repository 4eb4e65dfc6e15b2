package operations

import (
	"fmt"
	"strings"
)

// Chain is an ordered list of operations; Apply runs first to last and
// Reverse runs last to first.
type Chain []Operation

// ParseChain parses "zstd", "none" or a pipe-separated list such as
// "bzip2|gzip". An empty string means "none".
func ParseChain(spec string) (Chain, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, OpNone) {
		return Chain{}, nil
	}

	var chain Chain
	for _, part := range strings.Split(spec, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		op, err := Get(part)
		if err != nil {
			return nil, err
		}
		if op.Name() == OpNone {
			continue
		}
		chain = append(chain, op)
	}
	return chain, nil
}

// String renders the chain in the form ParseChain accepts.
func (c Chain) String() string {
	if len(c) == 0 {
		return OpNone
	}
	names := make([]string, len(c))
	for i, op := range c {
		names[i] = op.Name()
	}
	return strings.Join(names, "|")
}

// Extension concatenates the extensions of every operation.
func (c Chain) Extension() string {
	var b strings.Builder
	for _, op := range c {
		b.WriteString(op.Extension())
	}
	return b.String()
}

// Apply runs every operation in order.
func (c Chain) Apply(data []byte) ([]byte, error) {
	current := data
	for _, op := range c {
		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}
		current = result
	}
	return current, nil
}

// Reverse undoes the chain.
func (c Chain) Reverse(data []byte) ([]byte, error) {
	current := data
	for i := len(c) - 1; i >= 0; i-- {
		result, err := c[i].Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", c[i].Name(), err)
		}
		current = result
	}
	return current, nil
}
