package model

// Severity classifies an insight for presentation.
type Severity int

const (
	Success Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Insight is one generated recommendation. Immutable once produced.
type Insight struct {
	Rule      string   `json:"rule"`
	Severity  Severity `json:"severity"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	ActionTag string   `json:"action_tag,omitempty"`
}
