package wooapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storelink/woosync/pkg/interfaces"
)

// DefaultTimeout bounds a single upstream call. The service defines no
// retry policy; a failed call surfaces immediately.
const DefaultTimeout = 30 * time.Second

// Interceptor is a response-inspection hook pair. OnResponse runs for
// every response that reaches the network layer and signals failure by
// returning an error, which converts an otherwise successful call into a
// client failure. OnError runs when the transport call itself fails.
type Interceptor struct {
	OnResponse func(resp *http.Response, body []byte) error
	OnError    func(req *http.Request, err error)
}

// Config carries the per-client settings: the base URL the client is bound
// to and the headers attached to every request.
type Config struct {
	BaseURL string
	Header  http.Header
	Timeout time.Duration
}

// Client is a request client bound to a base URL and fixed headers, with
// an ordered interceptor chain. It is constructed per call sequence and
// holds no cross-request state beyond the transport's own pooling.
type Client struct {
	baseURL      string
	header       http.Header
	http         *http.Client
	interceptors []Interceptor
	logger       interfaces.LoggerPort
}

// NewClient builds a client from the config and interceptor chain.
func NewClient(cfg Config, logger interfaces.LoggerPort, interceptors ...Interceptor) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	header := make(http.Header, len(cfg.Header))
	for k, vs := range cfg.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		header:       header,
		http:         &http.Client{Timeout: timeout},
		interceptors: interceptors,
		logger:       logger,
	}
}

// doGet issues a single GET and runs the interceptor chain over the
// outcome. It returns the raw body and headers of an accepted response.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, http.Header, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		for _, ic := range c.interceptors {
			if ic.OnError != nil {
				ic.OnError(req, err)
			}
		}
		return nil, nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		for _, ic := range c.interceptors {
			if ic.OnError != nil {
				ic.OnError(req, err)
			}
		}
		return nil, nil, &TransportError{URL: url, Err: err}
	}

	for _, ic := range c.interceptors {
		if ic.OnResponse == nil {
			continue
		}
		if err := ic.OnResponse(resp, body); err != nil {
			return nil, nil, err
		}
	}

	return body, resp.Header, nil
}

// get issues a typed GET: the raw call via doGet, then decoding into T.
// The interceptor chain has already validated the payload shape, so a
// decode failure here is still reported as a contract violation.
func get[T any](ctx context.Context, c *Client, path string) (T, http.Header, error) {
	var out T

	body, header, err := c.doGet(ctx, path)
	if err != nil {
		return out, nil, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, nil, &SchemaMismatchError{URL: c.baseURL + path, Reason: err.Error()}
	}

	return out, header, nil
}

// ExpectJSON builds the standard interceptor pair: the response must carry
// wantStatus and a body conforming to the schema produced by newSchema.
// Every breach is logged with the request URL, status and raw payload so
// upstream contract drift can be diagnosed from the logs alone.
func ExpectJSON(logger interfaces.LoggerPort, wantStatus int, newSchema func() interface{}, strict bool) Interceptor {
	return Interceptor{
		OnResponse: func(resp *http.Response, body []byte) error {
			url := resp.Request.URL.String()
			if resp.StatusCode != wantStatus {
				logger.Error("unexpected status from upstream",
					interfaces.LogField{Key: "url", Value: url},
					interfaces.LogField{Key: "status", Value: resp.StatusCode},
					interfaces.LogField{Key: "payload", Value: string(body)},
				)
				return &UnexpectedStatusError{URL: url, Status: resp.StatusCode}
			}
			if err := Conforms(newSchema(), body, strict); err != nil {
				logger.Error("upstream payload does not match expected schema",
					interfaces.LogField{Key: "url", Value: url},
					interfaces.LogField{Key: "error", Value: err.Error()},
					interfaces.LogField{Key: "payload", Value: string(body)},
				)
				return &SchemaMismatchError{URL: url, Reason: err.Error()}
			}
			return nil
		},
		OnError: func(req *http.Request, err error) {
			logger.Error("upstream request failed",
				interfaces.LogField{Key: "url", Value: req.URL.String()},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		},
	}
}
