// Package transcript holds the word-level transcript model shared by the
// transcription and parsing tools.
package transcript

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// Status is the job state reported by the transcription service.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusUnknown    Status = "unknown"
)

// Terminal reports whether polling should stop at s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Transcript is the status document returned by the service.
type Transcript struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	Text   string `json:"text"`
	Words  []Word `json:"words"`
	Error  string `json:"error,omitempty"`

	// RawWords is the "words" value exactly as the service sent it. Words is
	// the lenient typed view used for rendering.
	RawWords json.RawMessage `json:"-"`
}

func (t *Transcript) UnmarshalJSON(data []byte) error {
	type plain Transcript
	var doc plain
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var raw struct {
		Words json.RawMessage `json:"words"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Transcript(doc)
	if len(raw.Words) > 0 {
		t.RawWords = append(json.RawMessage(nil), raw.Words...)
	}
	return nil
}

// Word is one timed token. Start and End are milliseconds and are nil when
// the source omitted them or carried something other than a number.
type Word struct {
	Text       string   `json:"text"`
	Start      *int64   `json:"start"`
	End        *int64   `json:"end"`
	Confidence *float64 `json:"confidence,omitempty"`
	Speaker    *string  `json:"speaker,omitempty"`
}

// Timing is a word's offsets within the audio.
type Timing struct {
	Start time.Duration
	End   time.Duration
}

func (t Timing) Duration() time.Duration {
	return t.End - t.Start
}

// Timing returns the word's offsets when both are present.
func (w Word) Timing() (Timing, bool) {
	if w.Start == nil || w.End == nil {
		return Timing{}, false
	}
	return Timing{
		Start: time.Duration(*w.Start) * time.Millisecond,
		End:   time.Duration(*w.End) * time.Millisecond,
	}, true
}

// StartOffset returns the start offset alone, for consumers that ignore End.
func (w Word) StartOffset() (time.Duration, bool) {
	if w.Start == nil {
		return 0, false
	}
	return time.Duration(*w.Start) * time.Millisecond, true
}

// UnmarshalJSON decodes leniently: a malformed entry yields a Word with the
// unusable fields left empty instead of failing the whole document.
func (w *Word) UnmarshalJSON(data []byte) error {
	*w = Word{}

	var raw struct {
		Text       json.RawMessage `json:"text"`
		Start      json.RawMessage `json:"start"`
		End        json.RawMessage `json:"end"`
		Confidence json.RawMessage `json:"confidence"`
		Speaker    json.RawMessage `json:"speaker"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var text string
	if decodeNonNull(raw.Text, &text) {
		w.Text = text
	}

	w.Start = millis(raw.Start)
	w.End = millis(raw.End)

	var confidence float64
	if decodeNonNull(raw.Confidence, &confidence) {
		w.Confidence = &confidence
	}

	var speaker string
	if decodeNonNull(raw.Speaker, &speaker) {
		w.Speaker = &speaker
	}

	return nil
}

func millis(raw json.RawMessage) *int64 {
	var f float64
	if !decodeNonNull(raw, &f) {
		return nil
	}
	ms := int64(math.Round(f))
	return &ms
}

func decodeNonNull(raw json.RawMessage, dst any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}
	return json.Unmarshal(trimmed, dst) == nil
}
