// Package apperr classifies failures into kinds with stable process exit codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindUsage

	KindMissingCredential
	KindAudioNotFound
	KindAudioPermission
	KindAudioIO
	KindUploadTransport
	KindUploadStatus
	KindUploadMalformed
	KindUploadMissingURL
	KindInvalidAudioURL
	KindSubmitTransport
	KindSubmitStatus
	KindSubmitMalformed
	KindSubmitMissingID
	KindPollTransport
	KindPollStatus
	KindPollMalformed
	KindTranscriptionFailed
	KindTimeout
	KindOutputWrite
	KindInvalidModel
	KindConfigInvalid

	KindInputNotFound
	KindInputMalformed
	KindInputInvalid
	KindLRCWrite
	KindLRCPermission
)

type kindInfo struct {
	name string
	code int
}

// Codes are a contract with scripts that call the tools. The transcription
// tool and the parsing tool each own a disjoint set of kinds, so a code may
// repeat across the two tables.
var kinds = map[Kind]kindInfo{
	KindUnknown: {"unknown", 1},
	KindUsage:   {"usage", 2},

	KindMissingCredential:   {"missing_credential", 2},
	KindAudioNotFound:       {"audio_not_found", 3},
	KindUploadTransport:     {"upload_transport", 4},
	KindUploadStatus:        {"upload_status", 5},
	KindUploadMissingURL:    {"upload_missing_url", 6},
	KindSubmitTransport:     {"submit_transport", 7},
	KindSubmitStatus:        {"submit_status", 8},
	KindSubmitMissingID:     {"submit_missing_id", 9},
	KindPollTransport:       {"poll_transport", 10},
	KindPollStatus:          {"poll_status", 11},
	KindTranscriptionFailed: {"transcription_failed", 12},
	KindTimeout:             {"timeout", 13},
	KindOutputWrite:         {"output_write", 14},
	KindAudioPermission:     {"audio_permission", 15},
	KindAudioIO:             {"audio_io", 16},
	KindUploadMalformed:     {"upload_malformed", 17},
	KindSubmitMalformed:     {"submit_malformed", 18},
	KindPollMalformed:       {"poll_malformed", 19},
	KindInvalidModel:        {"invalid_model", 20},
	KindInvalidAudioURL:     {"invalid_audio_url", 21},
	KindConfigInvalid:       {"config_invalid", 22},

	KindInputNotFound:  {"input_not_found", 2},
	KindInputMalformed: {"input_malformed", 3},
	KindLRCWrite:       {"lrc_write", 4},
	KindInputInvalid:   {"input_invalid", 5},
	KindLRCPermission:  {"lrc_permission", 6},
}

// Code returns the process exit code for k.
func (k Kind) Code() int {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return kinds[KindUnknown].code
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a failure tagged with the kind that decides the exit code.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// ExitCode maps err to a process exit code; nil is success.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).Code()
}
