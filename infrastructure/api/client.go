package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"shopqa/application/wait"
	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
	"shopqa/infrastructure/config"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Options configures a Client
type Options struct {
	BaseURL string
	// RequestTimeout bounds the whole call including transport retries
	RequestTimeout time.Duration
	// ResponseTimeout bounds a single attempt
	ResponseTimeout time.Duration
	RetryInterval   time.Duration
	// RateLimit is requests per second; zero disables throttling
	RateLimit float64
	Burst     int
	Headers   map[string]string
	HTTP      *http.Client
	Logger    *logrus.Entry
}

// Client issues storefront API calls. Non-2xx responses are returned as
// values and never turned into errors.
type Client struct {
	base    *url.URL
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// NewClient builds a client for opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", opts.BaseURL)
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = wait.DefaultTimeout
	}
	if opts.ResponseTimeout <= 0 {
		opts.ResponseTimeout = opts.RequestTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = wait.DefaultInterval
	}

	c := &Client{
		base: base,
		opts: opts,
		http: opts.HTTP,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}

	c.logger = opts.Logger
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = logrus.NewEntry(l)
	}
	c.logger = c.logger.WithField("component", "api")

	return c, nil
}

// NewFromConfig builds a client from the runner configuration
func NewFromConfig(cfg *config.Config, logger *logrus.Entry) (*Client, error) {
	return NewClient(Options{
		BaseURL:         cfg.API.BaseURL,
		RequestTimeout:  cfg.Timeouts.Request,
		ResponseTimeout: cfg.Timeouts.Response,
		RetryInterval:   cfg.Timeouts.PollInterval,
		RateLimit:       cfg.API.RateLimit,
		Burst:           cfg.API.Burst,
		Logger:          logger,
	})
}

// Do sends one request. Transport failures are retried until RequestTimeout;
// any HTTP response, whatever its status, ends the call.
func (c *Client) Do(ctx context.Context, req entities.Request) (*entities.Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	target := c.resolve(req.Path)
	headers := c.headers(req.Headers)

	body, err := encodeBody(req.Body, headers.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s body: %w", method, req.Path, err)
	}

	started := time.Now()
	resp, err := wait.Poll(ctx, wait.Options{
		Interval: c.opts.RetryInterval,
		Timeout:  c.opts.RequestTimeout,
	}, func(ctx context.Context) (*entities.Response, error) {
		return c.attempt(ctx, method, target, headers, body)
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	resp.Duration = time.Since(started)

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     req.Path,
		"status":   resp.Status,
		"duration": resp.Duration,
	}).Debug("API call completed")

	return resp, nil
}

func (c *Client) attempt(ctx context.Context, method, target string, headers http.Header, body []byte) (*entities.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.ResponseTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, wait.Permanent(err)
	}
	httpReq.Header = headers.Clone()

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).WithField("url", target).Debug("API transport error, retrying")
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := readBody(httpResp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &entities.Response{
		Method:  method,
		URL:     target,
		Status:  httpResp.StatusCode,
		Headers: httpResp.Header,
		Body:    decodeBody(raw),
		Raw:     raw,
	}, nil
}

// Burst sends n copies of req concurrently and returns the responses in order.
// The first transport error cancels the remaining calls.
func (c *Client) Burst(ctx context.Context, n int, req entities.Request) ([]*entities.Response, error) {
	if n <= 0 {
		return nil, errors.New("burst size must be positive")
	}

	responses := make([]*entities.Response, n)
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.opts.Burst, 1))

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			resp, err := c.Do(groupCtx, req)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.base.String() + "/" + strings.TrimLeft(path, "/")
}

// headers merges caller headers over the client defaults
func (c *Client) headers(extra map[string]string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", contentTypeJSON)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Encoding", "gzip, br")
	for k, v := range c.opts.Headers {
		h.Set(k, v)
	}
	for k, v := range extra {
		h.Set(k, v)
	}
	return h
}

func encodeBody(body any, contentType string) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}

	if strings.HasPrefix(contentType, contentTypeForm) {
		values, err := formValues(body)
		if err != nil {
			return nil, err
		}
		return []byte(values.Encode()), nil
	}
	return json.Marshal(body)
}

func formValues(body any) (url.Values, error) {
	values := url.Values{}
	switch b := body.(type) {
	case url.Values:
		return b, nil
	case map[string]string:
		for k, v := range b {
			values.Set(k, v)
		}
	case map[string]any:
		for k, v := range b {
			values.Set(k, fmt.Sprint(v))
		}
	default:
		return nil, fmt.Errorf("form body must be a map, got %T", body)
	}
	return values, nil
}

// decodeBody parses JSON whatever the declared content type, falling back to
// the raw text
func decodeBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			return v
		}
	}
	return string(raw)
}

var _ interfaces.APIClient = (*Client)(nil)
