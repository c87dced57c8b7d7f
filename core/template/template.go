// Package template holds the editable request text an attack is built from.
// Headers and body are kept as opaque text, only a light line based parsing is applied.
package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chainreactors/intruder/pkg"
)

type Field int

const (
	URL Field = iota
	Headers
	Body
)

// Fields is the global scan order of a template.
var Fields = []Field{URL, Headers, Body}

func (f Field) String() string {
	switch f {
	case URL:
		return "url"
	case Headers:
		return "headers"
	case Body:
		return "body"
	default:
		return "unknown"
	}
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "url", "u":
		return URL, nil
	case "headers", "header", "h":
		return Headers, nil
	case "body", "b":
		return Body, nil
	}
	return 0, fmt.Errorf("%w: %s", pkg.ErrUnknownField, s)
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	field, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = field
	return nil
}

type Template struct {
	Method  string `json:"method"`
	URL     string `json:"url"`
	Headers string `json:"headers"`
	Body    string `json:"body"`
}

func NewDefaultTemplate() *Template {
	return &Template{
		Method: "GET",
		URL:    "http://example.com/",
		Headers: strings.Join([]string{
			"Host: example.com",
			"User-Agent: " + pkg.DefaultUserAgent,
			"Accept: */*",
		}, "\n"),
	}
}

func (t *Template) Get(field Field) string {
	switch field {
	case URL:
		return t.URL
	case Headers:
		return t.Headers
	case Body:
		return t.Body
	}
	return ""
}

func (t *Template) Set(field Field, text string) {
	switch field {
	case URL:
		t.URL = text
	case Headers:
		t.Headers = text
	case Body:
		t.Body = text
	}
}

func (t *Template) Clone() *Template {
	c := *t
	return &c
}

// ParseHeaders turns a raw "Key: Value" block into a map.
// Content-Length is always dropped, the transport recomputes it.
func ParseHeaders(block string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSuffix(line, "\r")
		i := strings.Index(line, ":")
		if i == -1 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		if key == "" || strings.EqualFold(key, "content-length") {
			continue
		}
		headers[key] = strings.TrimSpace(line[i+1:])
	}
	return headers
}

// Round is one fully substituted request.
type Round struct {
	Method  string
	URL     string
	Headers string
	Body    string
}

func (r Round) HeaderMap() map[string]string {
	return ParseHeaders(r.Headers)
}

// Text renders the request the way it is attempted on the wire: request line, headers, blank line, body.
func (r Round) Text() string {
	var s strings.Builder
	s.WriteString(r.Method + " " + r.URL + " HTTP/1.1\r\n")
	for _, line := range strings.Split(r.Headers, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.WriteString(line + "\r\n")
	}
	s.WriteString("\r\n")
	s.WriteString(r.Body)
	return s.String()
}

// ResponseText synthesizes the raw text of a response from its parts.
func ResponseText(status int, message string, headers map[string]string, body string) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("HTTP/1.1 %d", status))
	if message != "" {
		s.WriteString(" " + message)
	}
	s.WriteString("\r\n")
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.WriteString(k + ": " + headers[k] + "\r\n")
	}
	s.WriteString("\r\n")
	s.WriteString(body)
	return s.String()
}
