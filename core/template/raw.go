package template

import (
	"fmt"
	"os"
	"strings"

	"github.com/chainreactors/intruder/pkg"
)

func LoadRaw(filename, scheme string) (*Template, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseRaw(content, scheme)
}

// ParseRaw parses a raw HTTP request as saved from a proxy.
// Markers are kept verbatim, so headers are not validated beyond the request line.
func ParseRaw(raw []byte, scheme string) (*Template, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.TrimLeft(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty request", pkg.ErrRawRequest)
	}

	var head, body string
	if i := strings.Index(text, "\n\n"); i != -1 {
		head, body = text[:i], text[i+2:]
	} else {
		head = strings.TrimSuffix(text, "\n")
	}

	lines := strings.Split(head, "\n")
	parts := strings.Fields(lines[0])
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: request line %q", pkg.ErrRawRequest, lines[0])
	}

	t := &Template{
		Method:  parts[0],
		URL:     parts[1],
		Headers: strings.Join(lines[1:], "\n"),
		Body:    body,
	}

	if !strings.HasPrefix(t.URL, "http://") && !strings.HasPrefix(t.URL, "https://") {
		host := ParseHeaders(t.Headers)["Host"]
		if host == "" {
			for k, v := range ParseHeaders(t.Headers) {
				if strings.EqualFold(k, "host") {
					host = v
				}
			}
		}
		if host == "" {
			return nil, fmt.Errorf("%w: relative target without host header", pkg.ErrRawRequest)
		}
		if scheme == "" {
			scheme = "http"
		}
		if !strings.HasPrefix(t.URL, "/") {
			t.URL = "/" + t.URL
		}
		t.URL = scheme + "://" + host + t.URL
	}
	return t, nil
}
