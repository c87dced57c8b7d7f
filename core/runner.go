package core

import (
	"context"
	"strings"
	"sync"

	"github.com/chainreactors/files"
	"github.com/chainreactors/intruder/core/ihttp"
	"github.com/chainreactors/intruder/core/pool"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
	"github.com/chainreactors/proxyclient"
	"github.com/vbauerster/mpb/v8"
)

type Runner struct {
	*Option

	Session  *Session
	Client   *ihttp.Client
	OutputCh chan *result.Result
	OutWg    *sync.WaitGroup

	ProxyClient          proxyclient.Dial
	ClientType           int
	DisableOutputHandler bool // 由调用方自行消费 OutputCh
	OutputFile           *files.File
	DumpFile             *files.File
	StatFile             *files.File
	Progress             *mpb.Progress
	Probes               []string
	Color                bool
}

// Prepare hooks the runner into the session: results flow through OutputCh, the pool gets a bar.
func (r *Runner) Prepare() {
	if r.OutputCh == nil {
		r.OutputCh = make(chan *result.Result, 256)
	}
	if r.OutWg == nil {
		r.OutWg = &sync.WaitGroup{}
	}
	if !r.DisableOutputHandler {
		r.OutputHandler()
	}

	r.Session.OnResult = func(res *result.Result) {
		r.OutWg.Add(1)
		r.OutputCh <- res
	}
	r.Session.Prepare = func(p *pool.AttackPool) {
		p.Bar = pkg.NewBar(p.Name, p.Total(), p.Statistor, r.Progress)
	}
}

// Run starts the attack and blocks until every result has been written out.
func (r *Runner) Run(ctx context.Context) error {
	r.Prepare()
	err := r.Session.Start(ctx, r.Client)
	r.OutWg.Wait()

	if stat := r.Session.Statistor(); stat != nil {
		r.PrintStat(stat)
	}
	if err != nil && ctx.Err() != nil {
		logs.Log.Importantf("attack stopped, %d results recorded", r.Session.Results.Len())
	}

	if r.SaveSession != "" {
		if serr := SaveSession(r.SaveSession, r.Session); serr != nil {
			logs.Log.Error(serr.Error())
		} else {
			logs.Log.Importantf("session saved to %s", r.SaveSession)
		}
	}
	r.Close()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *Runner) Close() {
	if r.OutputFile != nil {
		r.OutputFile.Close()
	}
	if r.DumpFile != nil {
		r.DumpFile.Close()
	}
	if r.StatFile != nil {
		r.StatFile.Close()
	}
	if r.Progress != nil {
		r.Progress.Wait()
	}
}

func (r *Runner) PrintStat(stat *pkg.Statistor) {
	if r.Color {
		logs.Log.Important(stat.ColorString())
	} else {
		logs.Log.Important(stat.String())
	}
	if stat.Error == "" {
		logs.Log.Log(pkg.LogVerbose, stat.CountString())
	}

	r.saveStat(stat.Json())
}

func (r *Runner) saveStat(content string) {
	if r.StatFile != nil {
		r.StatFile.SafeWrite(content)
		r.StatFile.SafeSync()
	}
}

func (r *Runner) Output(res *result.Result) {
	var out string
	if r.Option.Json {
		out = res.ToJson()
	} else if len(r.Probes) > 0 {
		out = res.ProbeOutput(r.Probes)
	} else if r.Color {
		out = res.ColorString()
	} else {
		out = res.String()
	}
	logs.Log.Console(out + "\n")

	if r.OutputFile != nil {
		if r.FileOutput == "json" {
			r.OutputFile.SafeWrite(res.ToJson() + "\n")
		} else if r.FileOutput == "csv" {
			r.OutputFile.SafeWrite(res.ToCSV())
		} else if r.FileOutput == "full" {
			r.OutputFile.SafeWrite(res.String() + "\n" + res.FullRequestText + "\n\n" + res.FullResponseText + "\n\n")
		} else {
			r.OutputFile.SafeWrite(res.ProbeOutput(strings.Split(r.FileOutput, ",")) + "\n")
		}

		r.OutputFile.SafeSync()
	}
}

func (r *Runner) OutputHandler() {
	go func() {
		for {
			select {
			case res, ok := <-r.OutputCh:
				if !ok {
					return
				}
				if r.DumpFile != nil {
					r.DumpFile.SafeWrite(res.ToJson() + "\n")
					r.DumpFile.SafeSync()
				}
				if res.IsValid && !res.IsFiltered {
					r.Output(res)
				} else {
					if r.Color {
						logs.Log.Debug(res.ColorString())
					} else {
						logs.Log.Debug(res.String())
					}
				}
				r.OutWg.Done()
			}
		}
	}()
}
