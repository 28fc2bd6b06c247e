package crypto

import (
	"fmt"
	"math/big"
	"strings"
)

const DefaultDelimiter = " "

// FormatBlocks renders blocks as decimal numbers separated by delimiter, DefaultDelimiter when empty.
func FormatBlocks(blocks []*big.Int, delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.String())
	}
	return strings.Join(parts, delimiter)
}

// ParseBlocks reverses FormatBlocks. Empty fields are skipped.
func ParseBlocks(s, delimiter string) ([]*big.Int, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	blocks := make([]*big.Int, 0)
	for i, field := range strings.Split(s, delimiter) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		b, ok := new(big.Int).SetString(field, 10)
		if !ok {
			return nil, fmt.Errorf("field %d: %q is not a decimal number", i, field)
		}
		if b.Sign() < 0 {
			return nil, fmt.Errorf("field %d: %q is negative", i, field)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
