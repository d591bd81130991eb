package render

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/auralynx/auralynx/internal/apperr"
	"github.com/auralynx/auralynx/internal/transcript"
)

// FormatLRCTimestamp renders seconds as mm:ss.ff. Minutes are not wrapped
// into hours.
func FormatLRCTimestamp(seconds float64) string {
	minutes := int(math.Floor(seconds / 60))
	rest := seconds - float64(minutes)*60
	return fmt.Sprintf("%02d:%05.2f", minutes, rest)
}

// LRC is the result of laying words out as LRC lines.
type LRC struct {
	Lines []string
	// Untimed holds words that had text but no usable start offset.
	Untimed []transcript.Word
}

// BuildLRC emits one line per word with a start offset and non-blank text.
// Blank words are dropped without a trace.
func BuildLRC(words []transcript.Word) LRC {
	var out LRC
	for _, word := range words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}
		start, ok := word.StartOffset()
		if !ok {
			out.Untimed = append(out.Untimed, word)
			continue
		}
		out.Lines = append(out.Lines, fmt.Sprintf("[%s]%s", FormatLRCTimestamp(start.Seconds()), text))
	}
	return out
}

func (l LRC) Bytes() []byte {
	var b strings.Builder
	for _, line := range l.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WriteLRC replaces the file at path with the rendered lines.
func WriteLRC(path string, l LRC) error {
	if err := os.WriteFile(path, l.Bytes(), 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return apperr.Wrap(apperr.KindLRCPermission, err, "Permission denied writing to: %s", path)
		}
		return apperr.Wrap(apperr.KindLRCWrite, err, "Failed to write LRC file")
	}
	return nil
}
