package image

import "fmt"

// ErrorKind classifies every way a generation can fail. Each invocation maps
// its failure to exactly one kind and returns it in the result body; nothing
// escapes the handler as a runtime error.
type ErrorKind string

const (
	KindMissingPrompt     ErrorKind = "missing_prompt"
	KindMissingCredential ErrorKind = "missing_credential"
	KindTimeout           ErrorKind = "timeout"
	KindTransport         ErrorKind = "transport"
	KindUpstream          ErrorKind = "upstream"
	KindUnparseable       ErrorKind = "unparseable_response"
	KindUnexpected        ErrorKind = "unexpected"
)

// Error is the typed failure value surfaced to the caller. Status is set for
// upstream kinds; Raw carries the upstream payload when it helps diagnosis.
// Raw is whatever bytes the upstream sent, not necessarily JSON.
type Error struct {
	Kind   ErrorKind
	Msg    string
	Status int
	Raw    []byte
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}
