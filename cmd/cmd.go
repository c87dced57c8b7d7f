package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainreactors/files"
	"github.com/chainreactors/intruder/core"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
	"github.com/chainreactors/utils/iutils"
	"github.com/jessevdk/go-flags"
)

var ver = "v0.1.0"
var DefaultConfig = "config.yaml"

func init() {
	logs.Log.SetColorMap(map[logs.Level]func(string) string{
		logs.Info:      logs.PurpleBold,
		logs.Important: logs.GreenBold,
		pkg.LogVerbose: logs.Green,
	})
}

func Intruder() {
	var option core.Option

	if files.IsExist(DefaultConfig) {
		logs.Log.Debug("config.yaml exist, loading")
		err := core.LoadConfig(DefaultConfig, &option)
		if err != nil {
			logs.Log.Error(err.Error())
			return
		}
	}

	parser := flags.NewParser(&option, flags.Default)
	parser.Usage = `

  QUICKSTART:
    sniper, one marked position at a time:
      intruder -u "http://example.com/api/user?id=#100#" --range 1-100 --min-digits 3

    raw request with marked positions:
      intruder --raw login.txt -d passwords.txt --match "current.StatusCode == 302"

    battering ram, every position gets the same payload:
      intruder --raw login.txt -m battering-ram -w "admin{?d#2}"

    mark a selection instead of editing the request:
      intruder -u http://example.com/login -X POST --data "user=admin&pass=secret" --mark body:5:10 -d users.txt

    compare with the unmodified request:
      intruder --raw req.txt -d 1.txt --baseline --filter "current.BodyLength == baseline.BodyLength"

    save and resume the session:
      intruder --raw req.txt -d 1.txt --save-session s.yaml
      intruder --session s.yaml -t 10
`

	_, err := parser.Parse()
	if err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			fmt.Println(err.Error())
		}
		return
	}

	// logs
	logs.AddLevel(pkg.LogVerbose, "verbose", "[=] %s {{suffix}}")
	if option.Debug {
		logs.Log.SetLevel(logs.Debug)
	} else if len(option.Verbose) > 0 {
		logs.Log.SetLevel(pkg.LogVerbose)
	}
	if option.InitConfig {
		// 当前命令行中的选项一并写入配置
		filename := DefaultConfig
		if option.Config != "" {
			filename = option.Config
		}
		if err := initConfig(&option, filename); err != nil {
			logs.Log.Warn("cannot create config: " + err.Error())
			return
		}
		logs.Log.Importantf("init config: %s, edit it and run with -c %s", filename, filename)
		return
	}
	if option.Config != "" {
		err := core.LoadConfig(option.Config, &option)
		if err != nil {
			logs.Log.Error(err.Error())
			return
		}
		if files.IsExist(DefaultConfig) {
			logs.Log.Warnf("custom config %s, override default config", option.Config)
		} else {
			logs.Log.Important("load config: " + option.Config)
		}
	}

	if option.Version {
		fmt.Println(ver)
		return
	}

	if option.PrintPreset {
		core.PrintPreset()
		return
	}

	if option.Format != "" {
		core.Format(option)
		return
	}

	err = option.Prepare()
	if err != nil {
		iutils.Fatal(err.Error())
	}

	runner, err := option.NewRunner()
	if err != nil {
		logs.Log.Errorf(err.Error())
		return
	}

	ctx, canceler := context.WithCancel(context.Background())
	defer canceler()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go watchSignal(c, canceler, runner, os.Exit)

	err = runner.Run(ctx)
	if err != nil {
		logs.Log.Error(err.Error())
	}
}

func initConfig(option *core.Option, filename string) error {
	if files.IsExist(filename) {
		logs.Log.Warnf("override config: %s", filename)
	}
	return os.WriteFile(filename, []byte(core.InitDefaultConfig(option, 0)), 0o644)
}

// watchSignal 第一次信号停止攻击并保存session以便 --session 恢复, 第二次直接退出
func watchSignal(c <-chan os.Signal, cancel context.CancelFunc, runner *core.Runner, exit func(int)) {
	<-c
	if runner.SaveSession == "" {
		runner.SaveSession = pkg.SafeFilename(runner.Session.Template.URL) + ".session.yaml"
	}
	logs.Log.Importantf("stop attack, waiting in-flight requests, session will be saved to %s", runner.SaveSession)
	cancel()

	<-c
	logs.Log.Warn("force exit, session not saved")
	exit(1)
}
