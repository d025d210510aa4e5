package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/sirupsen/logrus"
)

type Kind string

const (
	CourseCertificate Kind = "course-certificate"
	LevelCertificate  Kind = "certification-level"
)

var ErrUnavailable = apperr.New(apperr.DependencyFailure, "document renderer unavailable")

// Renderer turns structured data into an opaque document.
type Renderer interface {
	Render(ctx context.Context, kind Kind, data interface{}) ([]byte, error)
}

// Func adapts a plain function to Renderer.
type Func func(ctx context.Context, kind Kind, data interface{}) ([]byte, error)

func (f Func) Render(ctx context.Context, kind Kind, data interface{}) ([]byte, error) {
	return f(ctx, kind, data)
}

// Client posts data to {baseURL}/render/{kind} and returns the body.
type Client struct {
	baseURL     string
	http        *http.Client
	maxAttempts int
	backoff     time.Duration
}

func NewClient(baseURL string, timeout time.Duration, maxAttempts int) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		backoff:     200 * time.Millisecond,
	}
}

// WithBackoff sets the wait before the first retry; later retries double it.
func (c *Client) WithBackoff(d time.Duration) *Client {
	c.backoff = d
	return c
}

type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }

func (c *Client) Render(ctx context.Context, kind Kind, data interface{}) ([]byte, error) {
	log := config.WithContext(ctx).WithField("kind", kind)

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode render payload: %w", err)
	}

	wait := c.backoff
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		doc, err := c.once(ctx, kind, body)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		var retry retryable
		if !errors.As(err, &retry) {
			break
		}
		log.WithError(err).WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": c.maxAttempts,
		}).Warn("Render attempt failed")

		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, apperr.Wrap(apperr.DependencyFailure, ErrUnavailable.Message, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}

	log.WithError(lastErr).Error("Document rendering failed")
	return nil, apperr.Wrap(apperr.DependencyFailure, ErrUnavailable.Message, lastErr)
}

func (c *Client) once(ctx context.Context, kind Kind, body []byte) ([]byte, error) {
	url := c.baseURL + "/render/" + string(kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, retryable{err}
	}
	defer resp.Body.Close()

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryable{err}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, retryable{fmt.Errorf("renderer returned %d", resp.StatusCode)}
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("renderer returned %d", resp.StatusCode)
	case len(doc) == 0:
		return nil, fmt.Errorf("renderer returned an empty document")
	}
	return doc, nil
}
