package ihttp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chainreactors/logs"
	"github.com/chainreactors/proxyclient"
	"github.com/valyala/fasthttp"
)

var (
	DefaultMaxBodySize int64 = 1024 * 100 // 100k
)

const (
	Auto = iota
	FAST
	STANDARD
)

// Dispatcher sends one substituted request and reports the response.
// A returned error means no response was received.
type Dispatcher interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

type DispatcherFunc func(ctx context.Context, req *Request) (*Response, error)

func (f DispatcherFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

func NewClient(config *ClientConfig) *Client {
	var client *Client
	if config.Thread <= 0 {
		config.Thread = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Type == Auto {
		// fasthttp dials through proxyclient without context, the standard transport keeps ctx
		if config.ProxyClient != nil {
			config.Type = STANDARD
		} else {
			config.Type = FAST
		}
	}

	if config.Type == FAST {
		client = &Client{
			fastClient: &fasthttp.Client{
				TLSConfig: &tls.Config{
					Renegotiation:      tls.RenegotiateOnceAsClient,
					InsecureSkipVerify: true,
				},
				Dial:                          customDialFunc(config.ProxyClient, config.Timeout),
				MaxConnsPerHost:               config.Thread*3/2 + 1,
				MaxIdleConnDuration:           config.Timeout,
				ReadTimeout:                   config.Timeout,
				WriteTimeout:                  config.Timeout,
				ReadBufferSize:                16384, // 16k
				MaxResponseBodySize:           maxBodySize(),
				StreamResponseBody:            true,
				NoDefaultUserAgentHeader:      true,
				DisablePathNormalizing:        true,
				DisableHeaderNamesNormalizing: true,
			},
			ClientConfig: config,
		}
	} else {
		client = &Client{
			standardClient: &http.Client{
				Transport: &http.Transport{
					DialContext: config.ProxyClient,
					TLSClientConfig: &tls.Config{
						Renegotiation:      tls.RenegotiateNever,
						InsecureSkipVerify: true,
					},
					TLSHandshakeTimeout: config.Timeout,
					MaxConnsPerHost:     config.Thread*3/2 + 1,
					IdleConnTimeout:     config.Timeout,
					ReadBufferSize:      16384, // 16k
				},
				Timeout: config.Timeout,
				CheckRedirect: func(req *http.Request, via []*http.Request) error {
					return http.ErrUseLastResponse
				},
			},
			ClientConfig: config,
		}
	}
	return client
}

type ClientConfig struct {
	Type        int
	Timeout     time.Duration
	Thread      int
	ProxyClient proxyclient.Dial
}

type Client struct {
	fastClient     *fasthttp.Client
	standardClient *http.Client
	*ClientConfig
}

func (c *Client) TypeName() string {
	if c.fastClient != nil {
		return "fast"
	}
	return "standard"
}

// FastDo runs until the earlier of ctx's deadline and Timeout.
// fasthttp cannot abort an in-flight request on ctx cancel.
func (c *Client) FastDo(ctx context.Context, req *fasthttp.Request) (*fasthttp.Response, error) {
	resp := fasthttp.AcquireResponse()
	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	err := c.fastClient.DoDeadline(req, resp, deadline)
	return resp, err
}

func (c *Client) StandardDo(req *http.Request) (*http.Response, error) {
	return c.standardClient.Do(req)
}

// Send implements Dispatcher. Redirects are not followed and TLS is not verified.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	if c.fastClient != nil {
		fastReq, err := req.BuildFast()
		if err != nil {
			return nil, err
		}
		defer fasthttp.ReleaseRequest(fastReq)
		resp, err := c.FastDo(ctx, fastReq)
		defer fasthttp.ReleaseResponse(resp)
		if err == fasthttp.ErrBodyTooLarge {
			// 无长度的响应体超过上限, 按截断处理
			logs.Log.Debugf("%s body too large, truncated", req.URL)
		} else if err != nil {
			return nil, err
		}
		return NewFastResponse(resp, time.Since(start)), nil
	} else if c.standardClient != nil {
		stdReq, err := req.BuildStandard(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.StandardDo(stdReq)
		if err != nil {
			return nil, err
		}
		return NewStandardResponse(resp, time.Since(start))
	}
	return nil, fmt.Errorf("not found client")
}

// maxBodySize 之外的响应体走 BodyStream, 由 readBody 截断
func maxBodySize() int {
	if DefaultMaxBodySize < 0 {
		return 0
	}
	if DefaultMaxBodySize == 0 {
		return 1
	}
	return int(DefaultMaxBodySize)
}

func customDialFunc(dialer proxyclient.Dial, timeout time.Duration) fasthttp.DialFunc {
	if dialer == nil {
		return func(addr string) (net.Conn, error) {
			return fasthttp.DialTimeout(addr, timeout)
		}
	}
	return func(addr string) (net.Conn, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return dialer.DialContext(ctx, "tcp", addr)
	}
}
