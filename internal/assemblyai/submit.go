package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/auralynx/auralynx/internal/apperr"
	"go.uber.org/zap"
)

// RequestTranscript submits a transcription job for an uploaded file and
// returns the job id. Keys in options override the base payload.
func (c *Client) RequestTranscript(ctx context.Context, audioURL string, options map[string]any) (string, error) {
	fmt.Fprintln(c.out, "Requesting transcription...")

	if !strings.HasPrefix(audioURL, "https://") {
		return "", apperr.New(apperr.KindInvalidAudioURL, "Invalid audio_url passed to request_transcript: %q", audioURL)
	}

	payload := map[string]any{"audio_url": audioURL}
	maps.Copy(payload, options)

	encoded, err := encodePayload(payload)
	if err != nil {
		return "", apperr.Wrap(apperr.KindSubmitTransport, err, "Cannot encode transcript request")
	}
	fmt.Fprintf(c.out, "DEBUG: transcript request payload = %s\n", encoded)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SubmitDeadline())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("transcript"), bytes.NewReader(encoded))
	if err != nil {
		return "", apperr.Wrap(apperr.KindSubmitTransport, err, "Transcript request failed")
	}
	c.authorize(req)
	req.Header.Set("content-type", "application/json")

	status, body, err := c.exchange(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindSubmitTransport, err, "Transcript request failed")
	}
	if !accepted(status) {
		return "", apperr.New(apperr.KindSubmitStatus, "Transcript request failed (%d): %s", status, body)
	}

	var job struct {
		ID any `json:"id"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&job); err != nil {
		return "", apperr.Wrap(apperr.KindSubmitMalformed, err, "Invalid JSON response from transcript API")
	}
	id, ok := jobID(job.ID)
	if !ok {
		return "", apperr.New(apperr.KindSubmitMissingID, "No transcript id returned.")
	}

	c.log.Debug("transcription job created", zap.String("id", id))
	fmt.Fprintf(c.out, "Transcript ID: %s\n", id)
	return id, nil
}

// jobID accepts the id as a string or a number. Empty strings and zero count
// as missing.
func jobID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		if f, err := id.Float64(); err == nil && f == 0 {
			return "", false
		}
		return id.String(), true
	default:
		return "", false
	}
}

func encodePayload(payload map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
