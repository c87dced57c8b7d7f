package pkg

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vbauerster/mpb/v8"
)

func TestBar(t *testing.T) {
	stat := NewStatistor("bar")
	p := mpb.New(mpb.WithOutput(io.Discard))
	bar := NewBar("bar", 3, stat, p)

	stat.Record(200, true, false)
	stat.Record(0, false, false)
	bar.SetCurrent(2)
	assert.Equal(t, 1, stat.Found())
	bar.Close()
	p.Wait()

	// 无 progress 时所有调用都是空操作
	quiet := NewBar("quiet", 3, nil, nil)
	quiet.SetCurrent(1)
	quiet.Close()

	var empty *Statistor
	assert.Equal(t, 0, empty.Found())
}
