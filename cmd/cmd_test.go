package cmd

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/chainreactors/intruder/core"
	"github.com/chainreactors/intruder/core/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "intruder.yaml")
	option := core.NewDefaultOption()
	option.Range = "1-10"
	option.Mode = "battering-ram"

	require.NoError(t, initConfig(option, filename))
	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(content), "  range: 1-10\n")
	assert.Contains(t, string(content), "  mode: battering-ram\n")
}

func TestWatchSignal(t *testing.T) {
	s := core.NewSession()
	s.SetTemplate(&template.Template{Method: "GET", URL: "http://example.com/?id=#1#"})
	runner := &core.Runner{Option: core.NewDefaultOption(), Session: s}

	c := make(chan os.Signal, 2)
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan int, 1)
	go watchSignal(c, cancel, runner, func(code int) { exited <- code })

	c <- syscall.SIGINT
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("first signal did not cancel the attack")
	}
	assert.Contains(t, runner.SaveSession, ".session.yaml")

	c <- syscall.SIGINT
	select {
	case code := <-exited:
		assert.Equal(t, 1, code)
	case <-time.After(5 * time.Second):
		t.Fatal("second signal did not exit")
	}
}
