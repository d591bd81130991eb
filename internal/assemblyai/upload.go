package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/auralynx/auralynx/internal/apperr"
	"go.uber.org/zap"
)

// ChunkSize is how much of the audio file is held in memory at once while uploading.
const ChunkSize = 5 << 20

// Upload streams the file at path to the upload endpoint and returns the
// service URL that refers to it.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	fmt.Fprintf(c.out, "Uploading %s ...\n", path)

	f, err := os.Open(path)
	if err != nil {
		return "", classifyOpenError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperr.Wrap(apperr.KindAudioIO, err, "Cannot read file")
	}
	if info.IsDir() {
		return "", apperr.New(apperr.KindAudioIO, "Cannot read file: %s is a directory", path)
	}

	body := newChunkReader(f, ChunkSize)
	if c.progress != nil {
		w, done := c.progress(info.Size())
		body.observe = w
		defer done()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.UploadDeadline())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUploadTransport, err, "Upload request failed")
	}
	c.authorize(req)
	req.Header.Set("content-type", "application/octet-stream")

	started := c.now()
	status, respBody, err := c.exchange(req)
	if err != nil {
		if readErr := body.Err(); readErr != nil {
			return "", apperr.Wrap(apperr.KindAudioIO, readErr, "Cannot read file")
		}
		return "", apperr.Wrap(apperr.KindUploadTransport, err, "Upload request failed")
	}
	if !accepted(status) {
		return "", apperr.New(apperr.KindUploadStatus, "Upload failed (%d): %s", status, respBody)
	}

	var payload struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", apperr.Wrap(apperr.KindUploadMalformed, err, "Invalid JSON response from upload API")
	}
	if payload.UploadURL == "" {
		return "", apperr.New(apperr.KindUploadMissingURL, "No upload_url returned by API.")
	}

	c.log.Debug("upload finished", zap.String("audio", path), zap.Int64("bytes", body.Sent()), zap.Duration("elapsed", c.now().Sub(started)))
	fmt.Fprintf(c.out, "Uploaded to: %s\n", payload.UploadURL)
	return payload.UploadURL, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return apperr.New(apperr.KindAudioNotFound, "File not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return apperr.New(apperr.KindAudioPermission, "Permission denied: %s", path)
	default:
		return apperr.Wrap(apperr.KindAudioIO, err, "Cannot read file")
	}
}

// chunkReader reads its source one fixed-size chunk at a time and serves the
// request body from that buffer. It is consumed once, front to back; there is
// no way to rewind it, so the request cannot be replayed.
//
// The HTTP transport reads the body on its own goroutine; mu guards the
// counters the caller inspects afterwards.
type chunkReader struct {
	src     io.Reader
	buf     []byte
	pending []byte
	observe io.Writer
	eof     bool

	mu   sync.Mutex
	sent int64
	err  error
}

func newChunkReader(src io.Reader, size int) *chunkReader {
	return &chunkReader{src: src, buf: make([]byte, size)}
}

// next fills the buffer with the following chunk. The final chunk may be
// short; after it next returns io.EOF.
func (c *chunkReader) next() ([]byte, error) {
	n, err := io.ReadFull(c.src, c.buf)
	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
		return c.buf[:n], nil
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	default:
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return nil, err
	}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		if c.eof {
			return 0, io.EOF
		}
		chunk, err := c.next()
		if errors.Is(err, io.EOF) {
			c.eof = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}
		c.pending = chunk
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	c.mu.Lock()
	c.sent += int64(n)
	c.mu.Unlock()
	if c.observe != nil {
		_, _ = c.observe.Write(p[:n])
	}
	return n, nil
}

// Err returns the first read failure from the source, if any.
func (c *chunkReader) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *chunkReader) Sent() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}
