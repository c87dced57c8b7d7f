package ihttp

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chainreactors/logs"
	"github.com/chainreactors/parsers"
	"github.com/chainreactors/utils/iutils"
	"github.com/valyala/fasthttp"
)

type Response struct {
	StatusCode    int
	StatusMessage string
	Headers       map[string]string
	Body          []byte
	Length        int // 响应体实际长度, Body 可能被截断
	Duration      time.Duration
}

func NewFastResponse(resp *fasthttp.Response, duration time.Duration) *Response {
	r := &Response{
		StatusCode:    resp.StatusCode(),
		StatusMessage: string(resp.Header.StatusMessage()),
		Headers:       make(map[string]string),
		Duration:      duration,
	}
	if r.StatusMessage == "" {
		r.StatusMessage = fasthttp.StatusMessage(r.StatusCode)
	}
	resp.Header.VisitAll(func(key, value []byte) {
		k := string(key)
		if v, ok := r.Headers[k]; ok {
			r.Headers[k] = v + ", " + string(value)
		} else {
			r.Headers[k] = string(value)
		}
	})
	// resp is released by the caller
	if stream := resp.BodyStream(); stream != nil {
		r.Body, r.Length = readBody(stream, int64(resp.Header.ContentLength()), true)
		resp.CloseBodyStream()
	} else {
		r.Body, r.Length = readBody(bytes.NewReader(resp.Body()), -1, false)
	}
	return r
}

func NewStandardResponse(resp *http.Response, duration time.Duration) (*Response, error) {
	defer resp.Body.Close()
	r := &Response{
		StatusCode:    resp.StatusCode,
		StatusMessage: http.StatusText(resp.StatusCode),
		Headers:       make(map[string]string, len(resp.Header)),
		Duration:      duration,
	}
	if i := strings.Index(resp.Status, " "); i != -1 {
		r.StatusMessage = resp.Status[i+1:]
	}
	for k, v := range resp.Header {
		r.Headers[k] = strings.Join(v, ", ")
	}
	r.Body, r.Length = readBody(resp.Body, resp.ContentLength, false)
	return r, nil
}

// readBody keeps at most DefaultMaxBodySize bytes and returns the real body length.
// -1 keeps everything, 0 keeps nothing. drain reads the rest even when the length is known.
func readBody(reader io.Reader, contentLength int64, drain bool) ([]byte, int) {
	var buf bytes.Buffer
	var n int64
	var err error
	if DefaultMaxBodySize < 0 {
		n, err = io.Copy(&buf, reader)
	} else {
		n, err = io.Copy(&buf, io.LimitReader(reader, DefaultMaxBodySize))
		if err == nil && n == DefaultMaxBodySize && (drain || contentLength < 0) {
			// fasthttp 的连接在 stream 读完前不能复用
			var rest int64
			rest, err = io.Copy(io.Discard, reader)
			n += rest
		}
	}
	if err != nil {
		logs.Log.Debugf("read body failed, %s", err.Error())
	}
	if contentLength > n {
		n = contentLength
	}
	return buf.Bytes(), int(n)
}

// Size is the real body length, falling back to the kept body.
func (r *Response) Size() int {
	if r.Length > len(r.Body) {
		return r.Length
	}
	return len(r.Body)
}

func (r *Response) ContentType() string {
	t := r.GetHeader("Content-Type")
	if i := strings.Index(t, ";"); i > 0 {
		return t[:i]
	}
	return t
}

// Title 只从 html 响应中提取
func (r *Response) Title() string {
	if !strings.Contains(r.ContentType(), "html") {
		return ""
	}
	return iutils.AsciiEncode(parsers.MatchTitle(r.Body))
}

func (r *Response) GetHeader(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
