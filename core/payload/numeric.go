package payload

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

type RangeMode int

const (
	Sequential RangeMode = iota
	Random
)

func (m RangeMode) String() string {
	if m == Random {
		return "random"
	}
	return "sequential"
}

func (m RangeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RangeMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sequential", "":
		*m = Sequential
	case "random":
		*m = Random
	default:
		return fmt.Errorf("unknown range mode: %s", text)
	}
	return nil
}

type Base int

const (
	Decimal Base = 10
	Hex     Base = 16
)

func (b Base) String() string {
	if b == Hex {
		return "hex"
	}
	return "decimal"
}

func (b Base) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Base) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "decimal", "dec", "":
		*b = Decimal
	case "hex":
		*b = Hex
	default:
		return fmt.Errorf("unknown base: %s", text)
	}
	return nil
}

type NumericRange struct {
	Mode      RangeMode `json:"mode"`
	From      int       `json:"from"`
	To        int       `json:"to"`
	Step      int       `json:"step"`
	Base      Base      `json:"base"`
	MinDigits int       `json:"min_digits"`
	MaxDigits int       `json:"max_digits"`
}

// Format renders v in the configured base, zero padded to MinDigits.
// When MaxDigits is set only the last MaxDigits characters are kept.
func (r *NumericRange) Format(v int) string {
	base := r.Base
	if base != Hex {
		base = Decimal
	}
	s := strconv.FormatInt(int64(v), int(base))
	if len(s) < r.MinDigits {
		s = strings.Repeat("0", r.MinDigits-len(s)) + s
	}
	if r.MaxDigits > 0 && len(s) > r.MaxDigits {
		s = s[len(s)-r.MaxDigits:]
	}
	return s
}

// diff is To-From computed without overflow, To must not be below From.
func (r *NumericRange) diff() uint64 {
	return uint64(r.To) - uint64(r.From)
}

// Count is the number of items the range generates, capped at math.MaxInt.
func (r *NumericRange) Count() int {
	if r.Step <= 0 || r.To < r.From {
		return 0
	}
	step := uint64(r.Step)
	var n uint64
	if r.Mode == Random {
		n = r.diff() / step
		if r.diff()%step != 0 {
			n++
		}
	} else {
		n = r.diff()/step + 1
		if n == 0 {
			n = math.MaxUint64
		}
	}
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// Numeric generates the items of cfg. A nil rnd falls back to a time seeded source.
// Invalid configurations produce an empty set rather than an error.
func Numeric(cfg NumericRange, rnd *rand.Rand) *Set {
	s := &Set{Kind: KindNumeric, Range: &cfg, Items: []string{}}
	count := cfg.Count()
	if count == 0 {
		return s
	}

	s.Items = make([]string, 0, minInt(count, maxPrealloc))
	from := uint64(cfg.From)
	if cfg.Mode == Random {
		if rnd == nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		span := cfg.diff() + 1
		for i := 0; i < count; i++ {
			var off uint64
			switch {
			case span == 0:
				// From..To 覆盖整个 int 范围
				off = rnd.Uint64()
			case span > math.MaxInt:
				off = rnd.Uint64() % span
			default:
				off = uint64(rnd.Intn(int(span)))
			}
			s.Items = append(s.Items, cfg.Format(int(from+off)))
		}
		return s
	}

	step := uint64(cfg.Step)
	for i := 0; i < count; i++ {
		s.Items = append(s.Items, cfg.Format(int(from+uint64(i)*step)))
	}
	return s
}

const maxPrealloc = 1 << 16

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ParseRange parses "from-to". Negative bounds are not supported.
func ParseRange(s string) (from, to int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q, expect from-to", s)
	}
	from, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %w", s, err)
	}
	to, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %w", s, err)
	}
	return from, to, nil
}
