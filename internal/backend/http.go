package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/mman/internal/errors"
)

// Options configure the HTTP backend.
type Options struct {
	// Timeout bounds a single request, zero means no timeout.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts Load makes after a
	// failed download.
	MaxRetries uint64
	// RetryInterval is the initial delay between two attempts.
	RetryInterval time.Duration
	// MaxSize limits the size of a response body.
	MaxSize int64
	// UserAgent is sent with every request.
	UserAgent string
	// Transport is used for the requests, http.DefaultTransport if nil.
	Transport http.RoundTripper
}

// DefaultOptions are used for fields that are left empty.
var DefaultOptions = Options{
	Timeout:       30 * time.Second,
	MaxRetries:    2,
	RetryInterval: 500 * time.Millisecond,
	MaxSize:       64 << 20,
	UserAgent:     "mman",
}

// HTTP downloads artifacts from the mirrors.
type HTTP struct {
	client *http.Client
	opts   Options
}

// NewHTTP returns a backend configured by opts.
func NewHTTP(opts Options) *HTTP {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultOptions.RetryInterval
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultOptions.MaxSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions.UserAgent
	}
	tr := opts.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}

	return &HTTP{
		client: &http.Client{Transport: tr, Timeout: opts.Timeout},
		opts:   opts,
	}
}

type notExistError struct {
	url string
}

func (e *notExistError) Error() string {
	return fmt.Sprintf("%v does not exist", e.url)
}

// IsNotExist returns true if the error was caused by a missing file.
func IsNotExist(err error) bool {
	var e *notExistError
	return errors.As(err, &e)
}

var errTooLarge = errors.New("response body too large")

// Get downloads url with a single attempt.
func (be *HTTP) Get(ctx context.Context, url string) ([]byte, error) {
	var buf []byte
	err := DefaultLoad(ctx, url, be.openReader, func(rd io.Reader) (err error) {
		buf, err = readAll(rd, be.opts.MaxSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Load downloads url and retries failed attempts up to MaxRetries times. A
// missing file or an oversized response is not retried.
func (be *HTTP) Load(ctx context.Context, url string) ([]byte, error) {
	var buf []byte

	op := func() error {
		var err error
		buf, err = be.Get(ctx, url)
		if err == nil {
			return nil
		}
		if IsNotExist(err) || errors.Is(err, errTooLarge) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = be.opts.RetryInterval
	bo.MaxElapsedTime = 0

	notify := func(err error, d time.Duration) {
		log.Debugf("Load(%v) returned error, retrying after %v: %v", url, d, err)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, be.opts.MaxRetries), ctx), notify)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (be *HTTP) openReader(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("User-Agent", be.opts.UserAgent)

	resp, err := be.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "client.Do")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, &notExistError{url: url}
	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()
		return nil, errors.Errorf("unexpected HTTP response (%v): %v", resp.StatusCode, resp.Status)
	}

	return LimitReadCloser(resp.Body, be.opts.MaxSize+1), nil
}
