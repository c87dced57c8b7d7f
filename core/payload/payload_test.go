package payload

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/chainreactors/words/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericSequential(t *testing.T) {
	s := Numeric(NumericRange{From: 1, To: 5, Step: 1, Base: Decimal, MinDigits: 2}, nil)
	assert.Equal(t, KindNumeric, s.Kind)
	assert.Equal(t, []string{"01", "02", "03", "04", "05"}, s.Items)

	s = Numeric(NumericRange{From: 0, To: 20, Step: 5, Base: Hex, MinDigits: 1}, nil)
	assert.Equal(t, []string{"0", "5", "a", "f", "14"}, s.Items)
}

func TestNumericKeepsLastDigits(t *testing.T) {
	r := NumericRange{Base: Decimal, MaxDigits: 2}
	assert.Equal(t, "45", r.Format(12345))
	r = NumericRange{Base: Hex, MinDigits: 4, MaxDigits: 3}
	assert.Equal(t, "0ff", r.Format(255))
	assert.Equal(t, "bcd", r.Format(0xabcd))
}

func TestNumericEmpty(t *testing.T) {
	for _, cfg := range []NumericRange{
		{From: 10, To: 1, Step: 1},
		{From: 1, To: 10, Step: 0},
		{Mode: Random, From: 10, To: 1, Step: 1},
		{Mode: Random, From: 5, To: 5, Step: 1},
	} {
		s := Numeric(cfg, nil)
		assert.NotNil(t, s.Items)
		assert.Empty(t, s.Items, "%+v", cfg)
	}
}

func TestNumericRandom(t *testing.T) {
	cfg := NumericRange{Mode: Random, From: 10, To: 20, Step: 3}
	s := Numeric(cfg, rand.New(rand.NewSource(1)))
	// ceil(10/3)
	require.Len(t, s.Items, 4)
	for _, item := range s.Items {
		v, err := strconv.Atoi(item)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 10)
		assert.LessOrEqual(t, v, 20)
	}

	again := Numeric(cfg, rand.New(rand.NewSource(1)))
	assert.Equal(t, s.Items, again.Items)
}

func TestNumericNearIntBounds(t *testing.T) {
	done := make(chan *Set, 1)
	go func() {
		done <- Numeric(NumericRange{From: math.MaxInt - 1, To: math.MaxInt, Step: 5}, nil)
	}()
	select {
	case s := <-done:
		assert.Equal(t, []string{strconv.Itoa(math.MaxInt - 1)}, s.Items)
	case <-time.After(5 * time.Second):
		t.Fatal("sequential range near MaxInt did not finish")
	}

	s := Numeric(NumericRange{From: math.MaxInt - 2, To: math.MaxInt, Step: 1}, nil)
	assert.Equal(t, []string{strconv.Itoa(math.MaxInt - 2), strconv.Itoa(math.MaxInt - 1), strconv.Itoa(math.MaxInt)}, s.Items)

	full := NumericRange{From: math.MinInt, To: math.MaxInt, Step: 1}
	assert.Equal(t, math.MaxInt, full.Count())

	wide := NumericRange{Mode: Random, From: math.MinInt, To: math.MaxInt, Step: math.MaxInt}
	s = Numeric(wide, rand.New(rand.NewSource(1)))
	assert.Len(t, s.Items, 3)

	half := NumericRange{Mode: Random, From: -10, To: math.MaxInt, Step: math.MaxInt}
	s = Numeric(half, rand.New(rand.NewSource(1)))
	require.Len(t, s.Items, 2)
	for _, item := range s.Items {
		v, err := strconv.Atoi(item)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, -10)
	}
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("1-100")
	require.NoError(t, err)
	assert.Equal(t, 1, from)
	assert.Equal(t, 100, to)

	for _, bad := range []string{"", "10", "a-1", "1-b"} {
		_, _, err = ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestListActive(t *testing.T) {
	items := []string{"a", "", "  ", " b ", "\t"}
	s := List(items)
	items[0] = "changed"
	assert.Equal(t, []string{"a", "", "  ", " b ", "\t"}, s.Items)
	assert.Equal(t, []string{"a", " b "}, s.Active())
	assert.Len(t, s.Items, 5)

	var empty *Set
	assert.Empty(t, empty.Active())
	assert.Equal(t, 0, empty.Len())
}

func TestLoadList(t *testing.T) {
	name := filepath.Join(t.TempDir(), "payloads.txt")
	require.NoError(t, os.WriteFile(name, []byte("admin\r\n\n root \nguest\n"), 0o600))
	s, err := LoadList(name)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "", " root ", "guest"}, s.Items)
	assert.Equal(t, []string{"admin", " root ", "guest"}, s.Active())
}

func TestDecodeBase64(t *testing.T) {
	s := DecodeBase64(List([]string{"YWRtaW4=", ""}))
	assert.Equal(t, []string{"admin", ""}, s.Items)
}

func TestMask(t *testing.T) {
	s, err := Mask("id{?0}", [][]string{{"1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, KindMask, s.Kind)
	assert.ElementsMatch(t, []string{"id1", "id2"}, s.Items)
}

func TestProcess(t *testing.T) {
	s := List([]string{"admin", "", "guest", "skipme"})
	processed := Process(s, &Processor{
		Prefix:   "<",
		Suffix:   ">",
		Upper:    true,
		Replaces: map[string]string{"guest": "user"},
		Skips:    []string{"skip"},
	})
	assert.Equal(t, KindList, processed.Kind)
	assert.Equal(t, []string{"<ADMIN>", "", "<USER>"}, processed.Items)
	assert.Equal(t, []string{"admin", "", "guest", "skipme"}, s.Items)

	assert.Same(t, s, Process(s, &Processor{}))
}

func TestProcessRulesWithPrefix(t *testing.T) {
	processed := Process(List([]string{"ab"}), &Processor{Prefix: "x", Rules: rule.Compile(":\nu", "")})
	assert.Equal(t, []string{"xab", "xAB"}, processed.Items)
}

func TestProcessSkipWithPrefix(t *testing.T) {
	processed := Process(List([]string{"skipme", "ok"}), &Processor{Prefix: "x", Skips: []string{"skip"}})
	assert.Equal(t, []string{"xok"}, processed.Items)

	processed = Process(List([]string{"skipme", "ok"}), &Processor{Skips: []string{"skip"}, Rules: rule.Compile("u", "")})
	assert.Equal(t, []string{"OK"}, processed.Items)
}
