// Package render formats word-level transcripts for the terminal and for LRC files.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/auralynx/auralynx/internal/transcript"
)

// PreviewLimit is how many words the transcription tool echoes after saving.
const PreviewLimit = 30

const rule = "============================================================"

func Banner(w io.Writer, title string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

// MissingTimestamp is the warning printed for a word that cannot be timed.
func MissingTimestamp(w io.Writer, word transcript.Word) {
	fmt.Fprintf(w, "WARNING: Missing timestamp for word: %s\n", label(word))
}

// Timings prints every word with start, end and duration in seconds. Words
// without both offsets are reported and left out of the table.
func Timings(w io.Writer, words []transcript.Word) {
	Banner(w, "WORD-LEVEL TIMESTAMPS")
	for _, word := range words {
		timing, ok := word.Timing()
		if !ok {
			MissingTimestamp(w, word)
			continue
		}
		fmt.Fprintf(w, "%s - %s (%.3fs) : %s\n",
			seconds(timing.Start, true), seconds(timing.End, true), timing.Duration().Seconds(), word.Text)
	}
}

// Preview prints the first limit words as they came from the service.
func Preview(w io.Writer, words []transcript.Word, limit int) {
	Banner(w, fmt.Sprintf("WORD-LEVEL PREVIEW (first %d words)", limit))
	for i, word := range words {
		if i >= limit {
			break
		}
		start, startOK := word.StartOffset()
		var end time.Duration
		endOK := word.End != nil
		if endOK {
			end = time.Duration(*word.End) * time.Millisecond
		}
		fmt.Fprintf(w, "%s - %s : %s\n", seconds(start, startOK), seconds(end, endOK), word.Text)
	}
	fmt.Fprintf(w, "... total words: %d\n", len(words))
}

// WordData prints the timed words as one JSON object per line.
func WordData(w io.Writer, words []transcript.Word) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "WORD_DATA = [")
	for _, word := range words {
		timing, ok := word.Timing()
		if !ok {
			continue
		}
		fmt.Fprintf(w, "    {\"word\": %s, \"start\": %.2f, \"end\": %.2f, \"duration\": %.2f},\n",
			quote(word.Text), timing.Start.Seconds(), timing.End.Seconds(), timing.Duration().Seconds())
	}
	fmt.Fprintln(w, "]")
}

func seconds(d time.Duration, ok bool) string {
	if !ok {
		return fmt.Sprintf("%8s", "--")
	}
	return fmt.Sprintf("%7.3fs", d.Seconds())
}

func label(word transcript.Word) string {
	if strings.TrimSpace(word.Text) == "" {
		return "unknown"
	}
	return word.Text
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
