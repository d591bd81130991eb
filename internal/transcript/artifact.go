package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/auralynx/auralynx/internal/apperr"
)

// Artifact is the JSON file written by the transcription tool. Words holds
// the service's word list unchanged, including fields Word does not model.
type Artifact struct {
	SourceFile string          `json:"source_file"`
	Text       string          `json:"text"`
	Words      json.RawMessage `json:"words"`
	Meta       Meta            `json:"meta"`
}

type Meta struct {
	Status Status `json:"status"`
	ID     string `json:"id"`
}

// NewArtifact prefers the words as received. A transcript built in code has
// no raw form, so its typed words are encoded instead.
func NewArtifact(sourceFile string, t *Transcript) Artifact {
	words := t.RawWords
	if len(words) == 0 {
		words = encodeWords(t.Words)
	}
	return Artifact{
		SourceFile: sourceFile,
		Text:       t.Text,
		Words:      words,
		Meta:       Meta{Status: t.Status, ID: t.ID},
	}
}

func encodeWords(words []Word) json.RawMessage {
	if words == nil {
		words = []Word{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(words); err != nil {
		return json.RawMessage("[]")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// Encode writes a as indented JSON with non-ASCII and HTML characters kept verbatim.
func (a Artifact) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

func WriteArtifact(path string, a Artifact) error {
	var buf bytes.Buffer
	if err := a.Encode(&buf); err != nil {
		return apperr.Wrap(apperr.KindOutputWrite, err, "Failed to write output file")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperr.Wrap(apperr.KindOutputWrite, err, "Failed to write output file")
	}
	return nil
}

// LoadWords reads a transcript or artifact JSON file and returns its words.
// The document must be an object whose "words" field is a non-empty list.
func LoadWords(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.KindInputNotFound, "File not found: %s", path)
		}
		return nil, apperr.Wrap(apperr.KindInputNotFound, err, "Cannot read file")
	}

	return DecodeWords(data)
}

func DecodeWords(data []byte) ([]Word, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Wrap(apperr.KindInputMalformed, err, "Failed to parse JSON")
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return nil, apperr.New(apperr.KindInputInvalid, "JSON document is not an object")
	}

	rawWords := fields["words"]
	if isEmptyValue(rawWords) {
		return nil, apperr.New(apperr.KindInputInvalid, "No words found in JSON.")
	}
	if _, ok := rawWords.([]any); !ok {
		return nil, apperr.New(apperr.KindInputInvalid, "'words' field is not a list in JSON")
	}

	var envelope struct {
		Words []Word `json:"words"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, apperr.Wrap(apperr.KindInputMalformed, err, "Failed to parse JSON")
	}
	return envelope.Words, nil
}

// isEmptyValue treats null, zero values and empty containers as "no words".
func isEmptyValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	case string:
		return value == ""
	case bool:
		return !value
	case float64:
		return value == 0
	default:
		return false
	}
}
