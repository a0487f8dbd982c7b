package monitoring

import "fmt"

// Severity grades a Diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Code identifies the kind of recovered anomaly.
type Code string

const (
	// MalformedTimestamp: a row's time could not be parsed; the row was
	// treated as absent.
	MalformedTimestamp Code = "MalformedTimestamp"
	// InsufficientSeries: an interpolation input had fewer than two knots
	// and degraded to a constant or all-missing model.
	InsufficientSeries Code = "InsufficientSeries"
	// AmbiguousParameterKey: no column matched a display name; the literal
	// display name was used instead.
	AmbiguousParameterKey Code = "AmbiguousParameterKey"
	// NoOverlapRange: bucketing found no row where every column had data,
	// so the result was returned untrimmed.
	NoOverlapRange Code = "NoOverlapRange"
)

// Diagnostic is a recovered, data-level anomaly returned as a value.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
}

// Warnf builds a warning-level diagnostic.
func Warnf(code Code, format string, v ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, v...)}
}

// Infof builds an info-level diagnostic.
func Infof(code Code, format string, v ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Code: code, Message: fmt.Sprintf(format, v...)}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// HasCode reports whether any diagnostic in diags carries code.
func HasCode(diags []Diagnostic, code Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
