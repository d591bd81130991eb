package assemblyai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/auralynx/auralynx/internal/apperr"
	"github.com/auralynx/auralynx/internal/transcript"
	"go.uber.org/zap"
)

// DefaultPollInterval is the fixed wait between status checks.
const DefaultPollInterval = 3 * time.Second

// Poll fetches the job status every interval until it completes, fails, or
// timeout has elapsed since the first check. Failed fetches are not retried.
func (c *Client) Poll(ctx context.Context, id string, timeout, interval time.Duration) (*transcript.Transcript, error) {
	statusURL := c.endpoint("transcript", id)
	started := c.now()

	fmt.Fprintln(c.out, "Waiting for transcription to complete...")
	for {
		doc, err := c.fetchStatus(ctx, statusURL)
		if err != nil {
			return nil, err
		}

		status := doc.Status
		if status == "" {
			status = transcript.StatusUnknown
		}

		if status.Terminal() {
			if status == transcript.StatusError {
				reason := doc.Error
				if reason == "" {
					reason = "unknown"
				}
				return nil, apperr.New(apperr.KindTranscriptionFailed, "Transcription error: %s", reason)
			}
			fmt.Fprintln(c.out, "Transcription completed.")
			return doc, nil
		}

		elapsed := c.now().Sub(started)
		if elapsed > timeout {
			return nil, apperr.New(apperr.KindTimeout, "Transcription timed out after %s seconds.", seconds(timeout))
		}

		c.log.Debug("transcription pending", zap.String("id", id), zap.String("status", string(status)), zap.Duration("elapsed", elapsed))
		fmt.Fprintf(c.out, "Status: %s. Elapsed: %ds. Polling again in %ss...\n", status, int(elapsed.Seconds()), seconds(interval))

		if err := c.sleep(ctx, interval); err != nil {
			return nil, apperr.Wrap(apperr.KindPollTransport, err, "Polling interrupted")
		}
	}
}

func (c *Client) fetchStatus(ctx context.Context, statusURL string) (*transcript.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.PollRequestDeadline())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPollTransport, err, "Polling request failed")
	}
	c.authorize(req)

	status, body, err := c.exchange(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPollTransport, err, "Polling request failed")
	}
	if status != http.StatusOK {
		return nil, apperr.New(apperr.KindPollStatus, "Poll failed (%d): %s", status, body)
	}

	var doc transcript.Transcript
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperr.Wrap(apperr.KindPollMalformed, err, "Invalid JSON response from polling API")
	}
	return &doc, nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
