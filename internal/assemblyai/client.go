// Package assemblyai talks to the AssemblyAI v2 REST API: upload an audio
// file, submit a transcription job and poll it to completion.
package assemblyai

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/auralynx/auralynx/internal/apperr"
	"github.com/auralynx/auralynx/internal/config"
	"github.com/auralynx/auralynx/internal/version"
	"go.uber.org/zap"
)

// ProgressFunc starts a byte progress display for an upload of total bytes.
// Bytes are written to w as they are sent; done is called once afterwards.
type ProgressFunc func(total int64) (w io.Writer, done func())

type Options struct {
	Config     config.Config
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Out receives the human-readable progress lines.
	Out      io.Writer
	Progress ProgressFunc
	Sleep    func(ctx context.Context, d time.Duration) error
	Now      func() time.Time
}

type Client struct {
	cfg       config.Config
	http      *http.Client
	log       *zap.Logger
	out       io.Writer
	progress  ProgressFunc
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
	userAgent string
}

func New(opts Options) (*Client, error) {
	if opts.Config.APIKey == "" {
		return nil, apperr.New(apperr.KindMissingCredential, "%s environment variable is not set.", config.APIKeyEnv)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindConfigInvalid, err, "Invalid configuration")
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Client{
		cfg:       opts.Config,
		http:      opts.HTTPClient,
		log:       opts.Logger,
		out:       opts.Out,
		progress:  opts.Progress,
		sleep:     opts.Sleep,
		now:       opts.Now,
		userAgent: "auralynx/" + version.Resolve(),
	}, nil
}

func (c *Client) endpoint(elem ...string) string {
	joined, err := url.JoinPath(c.cfg.BaseURL, elem...)
	if err != nil {
		// BaseURL passed Validate, so joining plain path elements cannot fail.
		panic(err)
	}
	return joined
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("authorization", c.cfg.APIKey)
	req.Header.Set("User-Agent", c.userAgent)
}

// exchange sends req and reads the whole response body.
func (c *Client) exchange(req *http.Request) (int, []byte, error) {
	started := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	c.log.Debug("api response",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", c.now().Sub(started)),
	)
	return resp.StatusCode, body, nil
}

func accepted(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated
}

// SleepContext waits for d or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
