package pkg

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func NewBar(name string, total int, stat *Statistor, p *mpb.Progress) *Bar {
	if p == nil {
		return &Bar{}
	}
	bar := p.AddBar(int64(total),
		mpb.BarFillerClearOnComplete(),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.Counters(0, "% d/% d"),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return fmt.Sprintf("found: %d", stat.Found())
			}),
			decor.Percentage(decor.WC{W: 5}),
			decor.Elapsed(decor.ET_STYLE_GO, decor.WC{W: 4}),
		),
	)

	return &Bar{bar: bar}
}

type Bar struct {
	bar *mpb.Bar
}

// SetCurrent moves the bar to an absolute progress value.
func (bar *Bar) SetCurrent(current int) {
	if bar.bar == nil {
		return
	}
	bar.bar.SetCurrent(int64(current))
}

func (bar *Bar) Close() {
	if bar.bar == nil {
		return
	}
	// 取消的任务不会走满进度条, 需要手动结束
	bar.bar.Abort(true)
	bar.bar.Wait()
}
