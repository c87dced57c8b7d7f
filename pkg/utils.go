package pkg

import (
	"bytes"
	"os"
	"strings"

	"github.com/chainreactors/logs"
	"github.com/chainreactors/words"
)

var (
	LogVerbose = logs.Warn - 2

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// LoadLines reads a newline separated file verbatim, only the line terminators are removed.
// Blank and whitespace-only lines are kept, a single trailing newline does not add an entry.
func LoadLines(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return []string{}, nil
	}
	content = bytes.TrimSuffix(content, []byte("\n"))
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

func LoadRuleAndCombine(filenames []string) (string, error) {
	var bs bytes.Buffer
	for _, f := range filenames {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", err
		}
		bs.Write(bytes.TrimSpace(content))
		bs.WriteString("\n")
	}
	return bs.String(), nil
}

func WrapWordsFunc(f func(string) string) words.WordFunc {
	return func(s string) []string {
		return []string{f(s)}
	}
}

func SafeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "http://", "")
	filename = strings.ReplaceAll(filename, "https://", "")
	filename = strings.ReplaceAll(filename, ":", "_")
	filename = strings.ReplaceAll(filename, "/", "_")
	for _, c := range []string{"?", "#", "&", "=", "*"} {
		filename = strings.ReplaceAll(filename, c, "_")
	}
	return filename
}
