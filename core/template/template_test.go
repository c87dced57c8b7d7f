package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chainreactors/intruder/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadersDropsContentLength(t *testing.T) {
	headers := ParseHeaders("Host: example.com\r\ncontent-LENGTH: 42\nX-Empty:\n: nokey\nbroken line\nCookie: a=b: c")
	assert.Equal(t, map[string]string{
		"Host":    "example.com",
		"X-Empty": "",
		"Cookie":  "a=b: c",
	}, headers)
}

func TestRoundText(t *testing.T) {
	r := Round{
		Method:  "POST",
		URL:     "http://example.com/login",
		Headers: "Host: example.com\n\nX-A: 1\n",
		Body:    "a=1",
	}
	assert.Equal(t, "POST http://example.com/login HTTP/1.1\r\nHost: example.com\r\nX-A: 1\r\n\r\na=1", r.Text())
}

func TestResponseText(t *testing.T) {
	text := ResponseText(200, "OK", map[string]string{"Server": "x", "Content-Type": "text/html"}, "hi")
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nServer: x\r\n\r\nhi", text)
}

func TestFieldText(t *testing.T) {
	for _, f := range Fields {
		b, err := f.MarshalText()
		require.NoError(t, err)
		var parsed Field
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, f, parsed)
	}
	_, err := ParseField("cookie")
	assert.ErrorIs(t, err, pkg.ErrUnknownField)
}

func TestCloneIsIndependent(t *testing.T) {
	tmpl := NewDefaultTemplate()
	c := tmpl.Clone()
	c.Set(Body, "changed")
	assert.Empty(t, tmpl.Body)
	assert.Equal(t, "changed", c.Get(Body))
}

func TestParseRaw(t *testing.T) {
	raw := "POST /api/login?x=#1# HTTP/1.1\r\nhost: target.local\r\nContent-Length: 9\r\n\r\nuser=#me#"
	tmpl, err := ParseRaw([]byte(raw), "https")
	require.NoError(t, err)
	assert.Equal(t, "POST", tmpl.Method)
	assert.Equal(t, "https://target.local/api/login?x=#1#", tmpl.URL)
	assert.Equal(t, "host: target.local\nContent-Length: 9", tmpl.Headers)
	assert.Equal(t, "user=#me#", tmpl.Body)
}

func TestParseRawAbsoluteNoBody(t *testing.T) {
	tmpl, err := ParseRaw([]byte("GET http://a.b/c HTTP/1.1\nAccept: */*\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "http://a.b/c", tmpl.URL)
	assert.Equal(t, "Accept: */*", tmpl.Headers)
	assert.Empty(t, tmpl.Body)
}

func TestParseRawErrors(t *testing.T) {
	for _, raw := range []string{"", "GARBAGE\n\n", "GET /x HTTP/1.1\nAccept: */*\n\n"} {
		_, err := ParseRaw([]byte(raw), "")
		assert.ErrorIs(t, err, pkg.ErrRawRequest, raw)
	}
}

func TestLoadRaw(t *testing.T) {
	name := filepath.Join(t.TempDir(), "req.txt")
	require.NoError(t, os.WriteFile(name, []byte("GET / HTTP/1.1\nHost: h\n\n"), 0o600))
	tmpl, err := LoadRaw(name, "")
	require.NoError(t, err)
	assert.Equal(t, "http://h/", tmpl.URL)

	_, err = LoadRaw(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}
