package payload

import (
	"fmt"

	"github.com/chainreactors/words/mask"
)

// Mask expands a mask dsl such as "admin{?d#3}". {?0}, {?1}... refer to dicts.
func Mask(dsl string, dicts [][]string) (*Set, error) {
	items, err := mask.Run(dsl, dicts, nil)
	if err != nil {
		return nil, fmt.Errorf("%s %w", dsl, err)
	}
	return &Set{Kind: KindMask, Mask: dsl, Items: items}, nil
}
