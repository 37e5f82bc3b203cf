package report

import "errors"

// Kind tags a Failure so the interactive layer can decide how to present
// it without inspecting message text.
type Kind string

const (
	// KindEmpty marks a file that parsed cleanly but held no records.
	KindEmpty Kind = "empty"
	// KindParse marks any failure raised while reading or parsing input.
	KindParse Kind = "parse"
)

// Failure is the tagged error surfaced to the interactive layer in place
// of a catch-all exception: a kind plus a user-presentable message.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// ErrNoRecords is returned when a parsed file yields zero records.
var ErrNoRecords = &Failure{Kind: KindEmpty, Message: "No records found in file."}

// AsFailure coerces any error into a Failure, wrapping unfamiliar errors
// as parse failures with their own description as the message.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: KindParse, Message: err.Error()}
}
