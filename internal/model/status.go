package model

// StatusKind classifies a message crossing the presentation boundary.
type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusWarning StatusKind = "warning"
	StatusError   StatusKind = "error"
)

// Status is a table-level condition reported once per render pass.
// Cell-level problems never produce one; they degrade to nil fields.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

func Info(msg string) Status { return Status{Kind: StatusInfo, Message: msg} }

func Warning(msg string) Status { return Status{Kind: StatusWarning, Message: msg} }

func Error(msg string) Status { return Status{Kind: StatusError, Message: msg} }

// OK is the zero status: nothing to report.
var OK = Status{}

// IsZero reports whether the status carries no message.
func (s Status) IsZero() bool {
	return s.Kind == "" && s.Message == ""
}
