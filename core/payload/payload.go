// Package payload produces the ordered payload sequences an attack iterates over.
package payload

import (
	"fmt"
	"strings"

	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/utils/encode"
)

type Kind int

const (
	KindList Kind = iota
	KindNumeric
	KindMask
)

var kindNames = map[Kind]string{
	KindList:    "list",
	KindNumeric: "numericRange",
	KindMask:    "mask",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown payload kind: %s", text)
}

// Set is an ordered payload sequence. For numeric and mask sets Items is derived from
// the generator configuration and should not be edited by hand.
type Set struct {
	Kind  Kind          `json:"kind"`
	Items []string      `json:"items"`
	Range *NumericRange `json:"range,omitempty"`
	Mask  string        `json:"mask,omitempty"`
}

// List keeps items verbatim, blank entries included.
func List(items []string) *Set {
	s := &Set{Kind: KindList, Items: make([]string, len(items))}
	copy(s.Items, items)
	return s
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Active returns the items that are not blank after trimming whitespace.
// The stored items are returned untrimmed.
func (s *Set) Active() []string {
	if s == nil {
		return nil
	}
	active := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		if strings.TrimSpace(item) != "" {
			active = append(active, item)
		}
	}
	return active
}

// LoadList reads one payload per line. Only line terminators are removed.
func LoadList(filename string) (*Set, error) {
	lines, err := pkg.LoadLines(filename)
	if err != nil {
		return nil, err
	}
	return List(lines), nil
}

// DecodeBase64 returns a list set whose items are the base64 decoding of s.
// Blank items stay blank.
func DecodeBase64(s *Set) *Set {
	decoded := make([]string, len(s.Items))
	for i, item := range s.Items {
		if strings.TrimSpace(item) == "" {
			decoded[i] = item
			continue
		}
		decoded[i] = string(encode.Base64Decode(strings.TrimSpace(item)))
	}
	return List(decoded)
}
