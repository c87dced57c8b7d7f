package core

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chainreactors/files"
	"github.com/chainreactors/intruder/core/ihttp"
	"github.com/chainreactors/intruder/core/payload"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
	"github.com/chainreactors/proxyclient"
	"github.com/chainreactors/utils/iutils"
	"github.com/chainreactors/words/rule"
	"github.com/charmbracelet/lipgloss"
	"github.com/vbauerster/mpb/v8"
)

// NewDefaultOption returns an Option holding the same defaults as the command line.
func NewDefaultOption() *Option {
	opt := &Option{}
	opt.Method = "GET"
	opt.Scheme = "http"
	opt.MaxBodyLength = 100
	opt.Step = 1
	opt.Mode = "sniper"
	opt.Threads = 1
	opt.Client = "auto"
	opt.Timeout = 5
	opt.FileOutput = "json"
	return opt
}

type Option struct {
	InputOptions   `group:"Input Options" config:"input" `
	PayloadOptions `group:"Payload Options" config:"payload" `
	AttackOptions  `group:"Attack Options" config:"attack" `
	OutputOptions  `group:"Output Options" config:"output"`
	RequestOptions `group:"Request Options" config:"request"`
	MiscOptions    `group:"Miscellaneous Options" config:"misc"`
}

type InputOptions struct {
	Config      string `short:"c" long:"config" description:"File, config filename"`
	RawFile     string `long:"raw" description:"File, raw request with #marked# positions, e.g.: --raw login.txt" config:"raw"`
	URL         string `short:"u" long:"url" description:"String, request url, #marked# positions are allowed, e.g.: -u 'http://example.com/?id=#1#'" config:"url"`
	Scheme      string `long:"scheme" default:"http" description:"String, scheme of raw request with relative target" config:"scheme"`
	SessionFile string `long:"session" description:"File, load a saved session"`
	SaveSession string `long:"save-session" description:"File, save the session and its results after the attack"`
}

type PayloadOptions struct {
	Dictionaries []string          `short:"d" long:"dict" description:"Files, Multi, payload files, one payload per line, e.g.: -d 1.txt -d 2.txt" config:"dictionaries"`
	Word         string            `short:"w" long:"word" description:"String, payload generate dsl, e.g.: -w admin{?d#3}" config:"word"`
	Range        string            `long:"range" description:"String, numeric payload range, e.g.: --range 1-100" config:"range"`
	Step         int               `long:"step" default:"1" description:"Int, numeric range step" config:"step"`
	Hex          bool              `long:"hex" description:"Bool, render numeric payloads as lowercase hex" config:"hex"`
	Random       bool              `long:"random" description:"Bool, random numbers in range instead of sequential" config:"random"`
	MinDigits    int               `long:"min-digits" description:"Int, left pad numeric payloads with zero" config:"min-digits"`
	MaxDigits    int               `long:"max-digits" description:"Int, keep the last n digits of numeric payloads" config:"max-digits"`
	PayloadB64   bool              `long:"payload-b64" description:"Bool, payload file entries are base64 encoded" config:"payload-b64"`
	Uppercase    bool              `short:"U" long:"uppercase" description:"Bool, upper payloads" config:"upper"`
	Lowercase    bool              `short:"L" long:"lowercase" description:"Bool, lower payloads" config:"lower"`
	Prefix       string            `long:"prefix" description:"String, add prefix to payloads" config:"prefix"`
	Suffix       string            `long:"suffix" description:"String, add suffix to payloads" config:"suffix"`
	Replaces     map[string]string `long:"replace" description:"Strings, replace string, e.g.: --replace aaa:bbb --replace ccc:ddd" config:"replace"`
	Skips        []string          `long:"skip" description:"Strings, skip payload containing string, e.g.: --skip aaa" config:"skip"`
	Rules        []string          `short:"r" long:"rules" description:"Files, rule files, e.g.: -r rule1.txt -r rule2.txt" config:"rules"`
	FilterRule   string            `long:"filter-rule" description:"String, filter rule, e.g.: --filter-rule '>8 <4'" config:"filter-rule"`
}

type AttackOptions struct {
	Mode      string   `short:"m" long:"mode" default:"sniper" choice:"sniper" choice:"battering-ram" description:"String, attack mode" config:"mode"`
	Marks     []string `long:"mark" description:"Strings, mark position field:start:end, e.g.: --mark body:9:14" config:"marks"`
	Delay     int      `long:"delay" description:"Int, delay between requests (ms)" config:"delay"`
	Threads   int      `short:"t" long:"thread" default:"1" description:"Int, concurrent requests, 1 keeps the request order" config:"thread"`
	RateLimit int      `long:"rate-limit" default:"0" description:"Int, request rate limit (rate/s), e.g.: --rate-limit 100" config:"rate-limit"`
	Baseline  bool     `long:"baseline" description:"Bool, send the unmodified request first, usable as baseline in --match/--filter" config:"baseline"`
}

type OutputOptions struct {
	Match       string `long:"match" description:"String, custom match function, e.g.: --match 'current.StatusCode == 200'" config:"match" `
	Filter      string `long:"filter" description:"String, custom filter function, e.g.: --filter 'current.BodyLength == baseline.BodyLength'" config:"filter"`
	OutputFile  string `short:"f" long:"file" description:"String, output filename" json:"output_file,omitempty" config:"output-file"`
	Format      string `short:"F" long:"format" description:"String, re-render a result file, e.g.: --format 1.json" config:"format"`
	Json        bool   `short:"j" long:"json" description:"Bool, output json" config:"json"`
	FileOutput  string `short:"O" long:"file-output" default:"json" description:"String, file output format, json/csv/full or probes" config:"file_output"`
	OutputProbe string `short:"o" long:"probe" description:"String, output format, e.g.: -o id,payload,status,length" config:"output"`
	Quiet       bool   `short:"q" long:"quiet" description:"Bool, Quiet" config:"quiet"`
	NoColor     bool   `long:"no-color" description:"Bool, no color" config:"no-color"`
	NoBar       bool   `long:"no-bar" description:"Bool, No progress bar" config:"no-bar"`
	NoStat      bool   `long:"no-stat" description:"Bool, No stat file output" config:"no-stat"`
	Dump        bool   `long:"dump" description:"Bool, dump all results (including invalid) to <target>.dump" config:"dump"`
}

type RequestOptions struct {
	Method        string   `short:"X" long:"method" default:"GET" description:"String, request method, e.g.: --method POST" config:"method"`
	Headers       []string `short:"H" long:"header" description:"Strings, custom headers, e.g.: --header 'Auth: example_auth'" config:"headers"`
	Data          string   `long:"data" description:"String, request body, #marked# positions are allowed" config:"data"`
	UserAgent     string   `long:"user-agent" description:"String, custom user-agent, e.g.: --user-agent Custom" config:"useragent"`
	Cookie        []string `long:"cookie" description:"Strings, custom cookie" config:"cookies"`
	MaxBodyLength int64    `long:"max-length" default:"100" description:"Int, max response body length (kb), -1 read-all, 0 not read body, default 100k, e.g. --max-length 1000" config:"max-length"`
}

type MiscOptions struct {
	Client      string   `short:"C" long:"client" default:"auto" choice:"fast" choice:"standard" choice:"auto" description:"String, Client type" config:"client"`
	Timeout     int      `short:"T" long:"timeout" default:"5" description:"Int, timeout with request (seconds)" config:"timeout"`
	Proxies     []string `long:"proxy" description:"String, proxy address, e.g.: --proxy socks5://127.0.0.1:1080" config:"proxies"`
	Debug       bool     `long:"debug" description:"Bool, output debug info" config:"debug"`
	Version     bool     `long:"version" description:"Bool, show version"`
	Verbose     []bool   `short:"v" description:"Bool, log verbose level ,default 0, level1: -v level2 -vv " config:"verbose"`
	InitConfig  bool     `long:"init" description:"Bool, init config file"`
	PrintPreset bool     `long:"print" description:"Bool, print mask keywords"`
}

func (opt *Option) Validate() error {
	if opt.Uppercase && opt.Lowercase {
		return errors.New("cannot set -U and -L at the same time")
	}

	if opt.SessionFile == "" && opt.URL == "" && opt.RawFile == "" {
		return fmt.Errorf("without any request, please use -u/--raw/--session to set the request")
	}

	if opt.Range != "" && opt.Word != "" {
		return errors.New("--range and --word cannot be used at the same time")
	}

	if opt.Threads > 1 && opt.Delay > 0 {
		logs.Log.Warn("--delay paces submissions, with --thread > 1 requests may still overlap")
	}
	return nil
}

// Prepare sets the process wide state derived from the options.
func (opt *Option) Prepare() error {
	if err := opt.Validate(); err != nil {
		return err
	}
	if opt.MaxBodyLength == -1 {
		ihttp.DefaultMaxBodySize = -1
	} else {
		ihttp.DefaultMaxBodySize = opt.MaxBodyLength * 1024
	}
	return nil
}

func (opt *Option) NewRunner() (*Runner, error) {
	s, err := opt.BuildSession()
	if err != nil {
		return nil, err
	}
	return opt.NewRunnerWithSession(s)
}

// NewRunnerWithSession builds the runner around an already assembled session.
func (opt *Option) NewRunnerWithSession(s *Session) (*Runner, error) {
	var err error
	r := &Runner{
		Session: s,
		Option:  opt,
		Color:   true,
	}

	// log and bar
	if opt.NoColor {
		logs.Log.SetColor(false)
		r.Color = false
	}
	if opt.Quiet {
		logs.Log.SetQuiet(true)
		logs.Log.SetColor(false)
		r.Color = false
	}

	if !(opt.Quiet || opt.NoBar) {
		r.Progress = mpb.New(mpb.WithRefreshRate(100 * time.Millisecond))
		logs.Log.SetOutput(r.Progress)
	}

	// 选择client
	if opt.Client == "auto" {
		r.ClientType = ihttp.Auto
	} else if opt.Client == "fast" {
		r.ClientType = ihttp.FAST
	} else if opt.Client == "standard" || opt.Client == "base" || opt.Client == "http" {
		r.ClientType = ihttp.STANDARD
	}

	if len(opt.Proxies) > 0 {
		urls, err := proxyclient.ParseProxyURLs(opt.Proxies)
		if err != nil {
			return nil, err
		}
		r.ProxyClient, err = proxyclient.NewClientChain(urls)
		if err != nil {
			return nil, err
		}
	}

	r.Client = ihttp.NewClient(&ihttp.ClientConfig{
		Type:        r.ClientType,
		Timeout:     time.Duration(opt.Timeout) * time.Second,
		Thread:      r.Session.Options.Threads,
		ProxyClient: r.ProxyClient,
	})

	if opt.OutputProbe != "" {
		r.Probes = strings.Split(opt.OutputProbe, ",")
		CheckProbes(r.Probes)
	}

	if !opt.Quiet {
		fmt.Println(opt.PrintConfig(r))
	}

	// init output file
	if opt.OutputFile != "" {
		r.OutputFile, err = files.NewFile(opt.OutputFile, false, false, true)
		if err != nil {
			return nil, err
		}
		if opt.FileOutput == "csv" {
			r.OutputFile.SafeWrite(result.CSVHeaderLine())
		}
	}

	if opt.Dump {
		r.DumpFile, err = files.NewFile(pkg.SafeFilename(r.Session.Template.URL)+".dump", false, false, true)
		if err != nil {
			return nil, err
		}
	}

	if !opt.NoStat {
		r.StatFile, err = files.NewFile(pkg.SafeFilename(r.Session.Template.URL)+".stat", false, true, true)
		if err != nil {
			return nil, err
		}
		r.StatFile.Mod = os.O_WRONLY | os.O_CREATE
		err = r.StatFile.Init()
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// BuildSession assembles the session from a saved session, the request options,
// the payload options and the --mark selections, in that order.
func (opt *Option) BuildSession() (*Session, error) {
	var s *Session
	var err error
	if opt.SessionFile != "" {
		s, err = LoadSession(opt.SessionFile)
		if err != nil {
			return nil, err
		}
		logs.Log.Importantf("load session %s, %d positions, %d payloads, %d results",
			opt.SessionFile, len(s.Model.Positions), s.Payloads.Len(), s.Results.Len())
	} else {
		s = NewSession()
	}

	tmpl, err := opt.BuildTemplate()
	if err != nil {
		return nil, err
	}
	if tmpl != nil {
		positions := s.SetTemplate(tmpl)
		logs.Log.Logf(pkg.LogVerbose, "found %d marked positions in request", len(positions))
	}

	for _, m := range opt.Marks {
		field, start, end, err := ParseMark(m)
		if err != nil {
			return nil, err
		}
		pos, err := s.MarkPosition(field, start, end)
		if err != nil {
			return nil, fmt.Errorf("mark %s: %w", m, err)
		}
		logs.Log.Logf(pkg.LogVerbose, "marked position %d: %s %q", pos.ID, pos.Field, pos.OriginalValue)
	}

	set, err := opt.BuildPayloads()
	if err != nil {
		return nil, err
	}
	if set != nil {
		s.SetPayloads(set)
	}

	if opt.SessionFile == "" || opt.Mode != "sniper" {
		mode, err := pkg.ParseAttackMode(opt.Mode)
		if err != nil {
			return nil, err
		}
		s.SetMode(mode)
	}

	s.SetOptions(opt.sessionOptions(s))
	return s, nil
}

// sessionOptions 恢复session时只覆盖命令行显式设置的选项
func (opt *Option) sessionOptions(s *Session) SessionOptions {
	if opt.SessionFile == "" {
		return SessionOptions{
			DelayMs:   opt.Delay,
			Threads:   opt.Threads,
			RateLimit: opt.RateLimit,
			Baseline:  opt.Baseline,
			Match:     opt.Match,
			Filter:    opt.Filter,
		}
	}
	opts := s.Options
	if opt.Delay != 0 {
		opts.DelayMs = opt.Delay
	}
	if opt.Threads > 1 {
		opts.Threads = opt.Threads
	}
	if opt.RateLimit != 0 {
		opts.RateLimit = opt.RateLimit
	}
	if opt.Baseline {
		opts.Baseline = true
	}
	if opt.Match != "" {
		opts.Match = opt.Match
	}
	if opt.Filter != "" {
		opts.Filter = opt.Filter
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	return opts
}

// BuildTemplate returns nil when neither --raw nor -u is set.
func (opt *Option) BuildTemplate() (*template.Template, error) {
	var tmpl *template.Template
	var err error
	if opt.RawFile != "" {
		tmpl, err = template.LoadRaw(opt.RawFile, opt.Scheme)
		if err != nil {
			return nil, err
		}
	} else if opt.URL != "" {
		u := opt.URL
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			u = opt.Scheme + "://" + u
		}
		tmpl = &template.Template{
			Method: opt.Method,
			URL:    u,
			Body:   opt.Data,
		}
		headers := []string{"User-Agent: " + pkg.DefaultUserAgent, "Accept: */*"}
		if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
			headers = append([]string{"Host: " + parsed.Host}, headers...)
		}
		tmpl.Headers = strings.Join(headers, "\n")
	} else {
		return nil, nil
	}

	var extra []string
	if opt.UserAgent != "" {
		extra = append(extra, "User-Agent: "+opt.UserAgent)
	}
	if len(opt.Cookie) > 0 {
		extra = append(extra, "Cookie: "+strings.Join(opt.Cookie, "; "))
	}
	for _, h := range opt.Headers {
		if !strings.Contains(h, ":") {
			logs.Log.Warn("invalid header " + h)
			continue
		}
		extra = append(extra, h)
	}
	if len(extra) > 0 {
		tmpl.Headers = mergeHeaders(tmpl.Headers, extra)
	}
	if opt.Method != "" && opt.Method != "GET" && opt.RawFile != "" {
		tmpl.Method = opt.Method
	}
	if opt.Data != "" && opt.RawFile != "" {
		tmpl.Body = opt.Data
	}
	return tmpl, nil
}

// mergeHeaders replaces header lines of block whose key appears in extra, then appends the rest.
func mergeHeaders(block string, extra []string) string {
	keys := make(map[string]string, len(extra))
	var order []string
	for _, h := range extra {
		k := strings.ToLower(strings.TrimSpace(h[:strings.Index(h, ":")]))
		if _, ok := keys[k]; !ok {
			order = append(order, k)
		}
		keys[k] = h
	}

	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if i := strings.Index(line, ":"); i != -1 {
			k := strings.ToLower(strings.TrimSpace(line[:i]))
			if h, ok := keys[k]; ok {
				lines = append(lines, h)
				delete(keys, k)
				continue
			}
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	for _, k := range order {
		if h, ok := keys[k]; ok {
			lines = append(lines, h)
		}
	}
	return strings.Join(lines, "\n")
}

// BuildPayloads returns nil when no payload option is set.
func (opt *Option) BuildPayloads() (*payload.Set, error) {
	var dicts [][]string
	for _, f := range opt.Dictionaries {
		set, err := payload.LoadList(f)
		if err != nil {
			return nil, err
		}
		if opt.PayloadB64 {
			set = payload.DecodeBase64(set)
		}
		dicts = append(dicts, set.Items)
		logs.Log.Logf(pkg.LogVerbose, "Loaded %d payloads from %s", set.Len(), f)
	}

	if len(dicts) == 0 && opt.Range == "" && opt.Word == "" && files.HasStdin() {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		lines := strings.Split(strings.TrimSuffix(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n"), "\n")
		dicts = append(dicts, lines)
		logs.Log.Logf(pkg.LogVerbose, "Loaded %d payloads from stdin", len(lines))
	}

	var set *payload.Set
	var err error
	if opt.Range != "" {
		from, to, err := payload.ParseRange(opt.Range)
		if err != nil {
			return nil, err
		}
		cfg := payload.NumericRange{
			From:      from,
			To:        to,
			Step:      opt.Step,
			Base:      payload.Decimal,
			MinDigits: opt.MinDigits,
			MaxDigits: opt.MaxDigits,
		}
		if opt.Hex {
			cfg.Base = payload.Hex
		}
		if opt.Random {
			cfg.Mode = payload.Random
		}
		set = payload.Numeric(cfg, nil)
		logs.Log.Logf(pkg.LogVerbose, "Generated %d numeric payloads by %s", set.Len(), opt.Range)
	} else if opt.Word != "" {
		set, err = payload.Mask(opt.Word, dicts)
		if err != nil {
			return nil, err
		}
		logs.Log.Logf(pkg.LogVerbose, "Parsed %d payloads by %s", set.Len(), opt.Word)
	} else if len(dicts) > 0 {
		var items []string
		for _, d := range dicts {
			items = append(items, d...)
		}
		set = payload.List(items)
	} else {
		return nil, nil
	}

	proc := &payload.Processor{
		Prefix:   opt.Prefix,
		Suffix:   opt.Suffix,
		Upper:    opt.Uppercase,
		Lower:    opt.Lowercase,
		Replaces: opt.Replaces,
		Skips:    opt.Skips,
	}
	if len(opt.Rules) != 0 {
		rules, err := pkg.LoadRuleAndCombine(opt.Rules)
		if err != nil {
			return nil, err
		}
		proc.Rules = rule.Compile(rules, opt.FilterRule)
	} else if opt.FilterRule != "" {
		// if filter rule is not empty, set rules to ":", force to open filter mode
		proc.Rules = rule.Compile(":", opt.FilterRule)
	}
	if !proc.Empty() {
		set = payload.Process(set, proc)
		logs.Log.Logf(pkg.LogVerbose, "Processed payloads, %d left", set.Len())
	}
	return set, nil
}

// ParseMark parses a field:start:end selection.
func ParseMark(s string) (template.Field, int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q, expect field:start:end", pkg.ErrInvalidSelection, s)
	}
	field, err := template.ParseField(parts[0])
	if err != nil {
		return 0, 0, 0, err
	}
	start, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", pkg.ErrInvalidSelection, s)
	}
	end, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", pkg.ErrInvalidSelection, s)
	}
	return field, start, end, nil
}

func (opt *Option) PrintConfig(r *Runner) string {
	// 定义颜色样式
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Width(20) // Key 加粗并设定宽度
	stringValueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA07A"))              // 字符串样式
	arrayValueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))               // 数组样式
	numberValueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ADD8E6"))              // 数字样式
	panelWidth := 60
	padding := 2

	divider := strings.Repeat("─", panelWidth)

	formatValue := func(value interface{}) string {
		switch v := value.(type) {
		case string:
			return stringValueStyle.Render(v)
		case []string:
			return arrayValueStyle.Render(fmt.Sprintf("%v", v))
		case int, int64, float64:
			return numberValueStyle.Render(fmt.Sprintf("%v", v))
		default:
			return stringValueStyle.Render(fmt.Sprintf("%v", v))
		}
	}
	row := func(icon, key string, value interface{}) string {
		return lipgloss.JoinHorizontal(lipgloss.Left, icon+" ", keyStyle.Render(key+": "), formatValue(value))
	}

	s := r.Session
	var fields []string
	for _, p := range s.Model.Positions.Sorted() {
		fields = append(fields, fmt.Sprintf("%d:%s:%s", p.SequenceIndex, p.Field, p.OriginalValue))
	}

	requestOptions := lipgloss.JoinVertical(lipgloss.Left,
		row("🌐", "Request", s.Template.Method+" "+s.Template.URL),
		row("📍", "Positions", fields),
	)

	payloadSource := opt.Word
	if opt.Range != "" {
		payloadSource = opt.Range
	} else if payloadSource == "" {
		payloadSource = strings.Join(opt.Dictionaries, ",")
	}
	payloadOptions := lipgloss.JoinVertical(lipgloss.Left,
		row("📚", "Payloads", fmt.Sprintf("%s (%d active)", s.Payloads.Kind, len(s.Payloads.Active()))),
		row("💡", "Source", payloadSource),
		row("📜", "Rules", opt.Rules),
	)

	attackOptions := lipgloss.JoinVertical(lipgloss.Left,
		row("🎯", "Mode", s.Mode.String()),
		row("🔢", "Total", s.Total()),
		row("🧵", "Threads", s.Options.Threads),
		row("⏱", "Delay(ms)", s.Options.DelayMs),
		row("🚦", "RateLimit", s.Options.RateLimit),
	)

	outputOptions := lipgloss.JoinVertical(lipgloss.Left,
		row("📊", "Match", s.Options.Match),
		row("⚙️", "Filter", s.Options.Filter),
	)

	miscOptions := lipgloss.JoinVertical(lipgloss.Left,
		row("🔌", "Client", r.Client.TypeName()),
		row("⌛", "Timeout", opt.Timeout),
		row("🌍", "Proxies", opt.Proxies),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		requestOptions,
		payloadOptions,
		attackOptions,
		outputOptions,
		miscOptions,
	)

	contentWithPadding := lipgloss.NewStyle().PaddingLeft(padding).Render(content)

	return lipgloss.Place(panelWidth+padding*2, 0, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			divider,
			contentWithPadding,
			divider,
		),
	)
}

// CheckProbes warns about unknown -o fields.
func CheckProbes(probes []string) {
	for _, p := range probes {
		if !iutils.StringsContains(ProbeFields, p) {
			logs.Log.Warnf("unknown probe field %s, available: %s", p, strings.Join(ProbeFields, ","))
		}
	}
}

var ProbeFields = []string{"id", "sequence", "payload", "position", "pos", "stat", "status", "length", "len", "title", "spend", "elapsed", "reason", "error", "err", "request", "response", "full"}
