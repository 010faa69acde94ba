package httpcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"fundix_e2e/domain/interfaces"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const userAgent = "fundix-e2e-linkcheck/1.0"

// Options configures the status client. Zero values fall back to defaults.
type Options struct {
	RetryMax     int
	Timeout      time.Duration
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// HTTPClient is the underlying client, http.DefaultClient settings when nil
	HTTPClient *http.Client
}

// Client checks HTTP status codes of links
type Client struct {
	retry  *retryablehttp.Client
	logger *logrus.Logger
}

// NewClient - creates new status client. Redirects are never followed so
// 301 and 302 reach the caller.
func NewClient(opts Options, logger *logrus.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}

	var base http.Client
	if opts.HTTPClient != nil {
		base = *opts.HTTPClient
	}
	base.Timeout = opts.Timeout
	base.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &base
	retryClient.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.Logger = &leveledLogger{logger: logger}
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		logger.WithFields(logrus.Fields{
			"method":  req.Method,
			"url":     req.URL.String(),
			"attempt": attempt,
		}).Trace("link check request")
	}
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if resp == nil {
			return true, err
		}
		// only server errors are transient
		return resp.StatusCode >= 500, nil
	}
	// keep the last response instead of a "giving up" error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{retry: retryClient, logger: logger}
}

// Status returns the status code of rawURL. HEAD is tried first and GET is
// used when the server rejects HEAD with 405.
func (c *Client) Status(ctx context.Context, rawURL string) (int, error) {
	code, err := c.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return 0, err
	}
	if code == http.StatusMethodNotAllowed {
		c.logger.Debugf("HEAD not allowed for %s, retrying with GET", rawURL)
		return c.do(ctx, http.MethodGet, rawURL)
	}
	return code, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s request for %s: %w", method, rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.retry.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.WithField("url", rawURL).Debugf("%s -> %d", method, resp.StatusCode)
	return resp.StatusCode, nil
}

// leveledLogger routes retryablehttp logs to logrus
type leveledLogger struct {
	logger *logrus.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Error(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Trace(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}

var (
	_ interfaces.StatusChecker    = (*Client)(nil)
	_ retryablehttp.LeveledLogger = (*leveledLogger)(nil)
)
