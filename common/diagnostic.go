package common

import (
	"go.uber.org/zap"
)

// Diagnostic is recoverable data problem found while exporting or importing.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	// Page is page number as written in the spreadsheet or book, may be empty.
	Page string
	// Row is spreadsheet row number (1 based), 0 when problem is not tied to
	// a row.
	Row     int
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}

// Diagnostics accumulates problems in order and logs each one as it comes.
type Diagnostics struct {
	list []Diagnostic
	log  *zap.Logger
}

func NewDiagnostics(log *zap.Logger) *Diagnostics {
	return &Diagnostics{log: log}
}

// Add records diagnostic.
func (ds *Diagnostics) Add(d Diagnostic) {
	ds.list = append(ds.list, d)

	fields := []zap.Field{zap.Stringer("kind", d.Kind)}
	if d.Page != "" {
		fields = append(fields, zap.String("page", d.Page))
	}
	if d.Row > 0 {
		fields = append(fields, zap.Int("row", d.Row))
	}
	if d.Severity == SeverityError {
		ds.log.Error(d.Message, fields...)
		return
	}
	ds.log.Warn(d.Message, fields...)
}

// Warn records warning.
func (ds *Diagnostics) Warn(kind DiagnosticKind, page string, row int, msg string) {
	ds.Add(Diagnostic{Kind: kind, Severity: SeverityWarning, Page: page, Row: row, Message: msg})
}

// Error records error.
func (ds *Diagnostics) Error(kind DiagnosticKind, page string, row int, msg string) {
	ds.Add(Diagnostic{Kind: kind, Severity: SeverityError, Page: page, Row: row, Message: msg})
}

// List returns diagnostics in the order they were recorded.
func (ds *Diagnostics) List() []Diagnostic {
	return ds.list
}

// Messages returns texts of all diagnostics.
func (ds *Diagnostics) Messages() []string {
	msgs := make([]string, 0, len(ds.list))
	for _, d := range ds.list {
		msgs = append(msgs, d.Message)
	}
	return msgs
}
