package contracts

import "time"

// IssueSeverity ranks validation findings.
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityInfo     IssueSeverity = "info"
)

// ValidationIssue is one finding from the cross-portfolio validator.
type ValidationIssue struct {
	Severity IssueSeverity `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
}

// ValidationResult aggregates validator findings for one run.
// CriticalErrors block the frontier display; Warnings never block anything.
type ValidationResult struct {
	CriticalErrors  []ValidationIssue `json:"critical_errors"`
	Warnings        []ValidationIssue `json:"warnings"`
	CanShowFrontier bool              `json:"can_show_frontier"`
}

// AddCritical appends a critical error and revokes frontier display.
func (v *ValidationResult) AddCritical(code, message string) {
	v.CriticalErrors = append(v.CriticalErrors, ValidationIssue{
		Severity: SeverityCritical,
		Code:     code,
		Message:  message,
	})
	v.CanShowFrontier = false
}

// AddWarning appends a non-blocking warning.
func (v *ValidationResult) AddWarning(severity IssueSeverity, code, message string) {
	v.Warnings = append(v.Warnings, ValidationIssue{
		Severity: severity,
		Code:     code,
		Message:  message,
	})
}

// HasCritical reports whether any critical error was recorded.
func (v *ValidationResult) HasCritical() bool {
	return len(v.CriticalErrors) > 0
}

// TraceEvent is one structured diagnostic emitted by an engine stage.
// Replaces the console prints of earlier revisions with data the caller
// can route to its own sink.
type TraceEvent struct {
	Stage  string    `json:"stage"`
	Detail string    `json:"detail"`
	At     time.Time `json:"at"`
}
