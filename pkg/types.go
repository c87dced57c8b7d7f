package pkg

import (
	"fmt"
	"strings"
)

type AttackMode int

const (
	// Sniper varies one position per request, every other marker reverts to its original text.
	Sniper AttackMode = iota + 1
	// BatteringRam places the same payload into every position at once.
	BatteringRam
)

var ModMap = map[string]AttackMode{
	"sniper":        Sniper,
	"battering-ram": BatteringRam,
	"batteringram":  BatteringRam,
	"ram":           BatteringRam,
}

func ParseAttackMode(s string) (AttackMode, error) {
	if m, ok := ModMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownMode, s)
}

func (m AttackMode) String() string {
	switch m {
	case Sniper:
		return "sniper"
	case BatteringRam:
		return "battering-ram"
	default:
		return "unknown"
	}
}

func (m AttackMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AttackMode) UnmarshalText(text []byte) error {
	mode, err := ParseAttackMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
