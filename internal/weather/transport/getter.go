package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Getter fetches the body of a GET request.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned for any non-200 response once retries are exhausted
// or when the status is not worth retrying.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// retryStatuses are the upstream statuses treated as transient.
var retryStatuses = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusGatewayTimeout:      true,
}

// RetryingGetter issues GET requests, pacing them with a token bucket and
// retrying transport errors and transient statuses with exponential backoff.
type RetryingGetter struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewRetryingGetter returns a RetryingGetter. A nil client falls back to one with the given timeout.
func NewRetryingGetter(
	client *http.Client,
	timeout time.Duration,
	maxRetries uint64,
	baseDelay time.Duration,
	perSecond float64,
	logger *zap.Logger,
) *RetryingGetter {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RetryingGetter{
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (g *RetryingGetter) Get(ctx context.Context, url string) ([]byte, error) {
	backoff := retry.WithMaxRetries(g.maxRetries, retry.NewExponential(g.baseDelay))

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		b, err := g.once(ctx, url)
		if err == nil {
			body = b
			return nil
		}

		var se *StatusError
		if errors.As(err, &se) && !retryStatuses[se.StatusCode] {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		g.logger.Warn("transient archive request failure",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (g *RetryingGetter) once(ctx context.Context, url string) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
