package ihttp

import (
	"context"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
)

// Request is a fully substituted attack request. Headers are already parsed,
// Content-Length is left to the transport.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

func (r *Request) BuildFast() (*fasthttp.Request, error) {
	req := fasthttp.AcquireRequest()
	req.Header.SetMethod(r.method())
	req.SetRequestURI(r.URL)
	for k, v := range r.Headers {
		if strings.EqualFold(k, "content-length") {
			continue
		}
		if strings.EqualFold(k, "host") {
			req.Header.SetHost(v)
			req.UseHostHeader = true
			continue
		}
		req.Header.Set(k, v)
	}
	if r.Body != "" {
		req.SetBodyString(r.Body)
	}
	return req, nil
}

func (r *Request) BuildStandard(ctx context.Context) (*http.Request, error) {
	var body *strings.Reader
	var req *http.Request
	var err error
	if r.Body != "" {
		body = strings.NewReader(r.Body)
		req, err = http.NewRequestWithContext(ctx, r.method(), r.URL, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, r.method(), r.URL, nil)
	}
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, "content-length") {
			continue
		}
		if strings.EqualFold(k, "host") {
			req.Host = v
			continue
		}
		req.Header[k] = []string{v}
	}
	return req, nil
}
