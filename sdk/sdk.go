package sdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/chainreactors/intruder/core"
	"github.com/chainreactors/intruder/core/payload"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
)

// IntruderEngine Intruder SDK
type IntruderEngine struct {
	Option *core.Option // 默认配置选项
}

// NewIntruderEngine 创建新的 SDK 实例, opt 为 nil 时使用 DefaultConfig
func NewIntruderEngine(opt *core.Option) *IntruderEngine {
	if opt == nil {
		opt = DefaultConfig()
	}
	return &IntruderEngine{
		Option: opt,
	}
}

// SetThreads 设置并发数, 1 为严格顺序
func (e *IntruderEngine) SetThreads(threads int) {
	e.Option.Threads = threads
}

// SetTimeout 设置超时时间（秒）
func (e *IntruderEngine) SetTimeout(timeout int) {
	e.Option.Timeout = timeout
}

// SetDelay 设置请求间隔（毫秒）
func (e *IntruderEngine) SetDelay(ms int) {
	e.Option.Delay = ms
}

// SetMode 设置攻击模式, sniper 或 battering-ram
func (e *IntruderEngine) SetMode(mode string) error {
	if _, err := pkg.ParseAttackMode(mode); err != nil {
		return err
	}
	e.Option.Mode = mode
	return nil
}

// DefaultConfig 返回默认配置, 在命令行默认值基础上关闭终端输出
func DefaultConfig() *core.Option {
	opt := core.NewDefaultOption()

	// Output Options - SDK 优化
	opt.Quiet = true  // SDK 优化: 静默模式
	opt.NoBar = true  // SDK 优化: 不显示进度条
	opt.NoStat = true // SDK 优化: 不输出统计文件
	return opt
}

// ParseRequest 解析带 #marker# 的原始 HTTP 请求
func ParseRequest(raw string, scheme string) (*template.Template, error) {
	return template.ParseRaw([]byte(raw), scheme)
}

// AttackStream 对模板中所有 marker 发起攻击, 结果按完成顺序实时返回
func (e *IntruderEngine) AttackStream(ctx context.Context, tmpl *template.Template, set *payload.Set) (<-chan *result.Result, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}
	if set == nil || len(set.Active()) == 0 {
		return nil, pkg.ErrNoPayloads
	}

	// 克隆配置避免修改原始配置
	opt := *e.Option
	opt.URL = tmpl.URL
	opt.RawFile = ""
	opt.SessionFile = ""

	err := opt.Prepare()
	if err != nil {
		return nil, fmt.Errorf("prepare config failed: %w", err)
	}

	mode, err := pkg.ParseAttackMode(opt.Mode)
	if err != nil {
		return nil, err
	}

	s := core.NewSession()
	if positions := s.SetTemplate(tmpl.Clone()); len(positions) == 0 {
		return nil, pkg.ErrNoPositions
	}
	s.SetPayloads(set)
	s.SetMode(mode)
	s.SetOptions(core.SessionOptions{
		DelayMs:   opt.Delay,
		Threads:   opt.Threads,
		RateLimit: opt.RateLimit,
		Baseline:  opt.Baseline,
		Match:     opt.Match,
		Filter:    opt.Filter,
	})
	// 表达式错误在发包前返回
	if _, err := result.NewMatcher(opt.Match, opt.Filter); err != nil {
		return nil, fmt.Errorf("invalid match or filter: %w", err)
	}

	runner, err := opt.NewRunnerWithSession(s)
	if err != nil {
		return nil, fmt.Errorf("create runner failed: %w", err)
	}
	runner.DisableOutputHandler = true
	runner.OutputCh = make(chan *result.Result, 100)
	runner.OutWg = &sync.WaitGroup{}

	resultCh := make(chan *result.Result, 100)
	go func() {
		defer close(resultCh)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for res := range runner.OutputCh {
				select {
				case resultCh <- res:
				case <-ctx.Done():
				}
				runner.OutWg.Done()
			}
		}()

		if err := runner.Run(ctx); err != nil {
			logs.Log.Errorf("attack failed: %v", err)
		}
		close(runner.OutputCh)
		<-done
	}()

	return resultCh, nil
}

// Attack 发起攻击并返回所有结果, 按 SequenceID 排列
func (e *IntruderEngine) Attack(ctx context.Context, tmpl *template.Template, set *payload.Set) ([]*result.Result, error) {
	resultCh, err := e.AttackStream(ctx, tmpl, set)
	if err != nil {
		return nil, err
	}

	rs := result.NewResults()
	for r := range resultCh {
		rs.Append(r)
	}
	return rs.Sorted(), nil
}
