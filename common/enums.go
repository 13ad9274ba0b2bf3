// Package common keeps enumerations shared between configuration and the
// conversion engine, so config does not have to import engine packages.
package common

// What to do when export destination already has a spreadsheet.
// ENUM(quit, overwrite)
type OverwriteMode int

// Source of audio durations and checksums.
// ENUM(builtin, ffprobe)
type AudioProbe int

// Severity of a diagnostic.
// ENUM(warning, error)
type Severity int

// Class of a recoverable data problem found during export or import.
// ENUM(MissingColumn, MissingMediaFile, InvalidMediaFile, CountMismatch, AlignmentCountMismatch, AlignmentValueInvalid, PageCapacityExceeded, PageNotFound, PageTypeUnusable, PageNotUpdated, MetadataConflict, ExportWarning, MalformedText)
type DiagnosticKind int

// Kind of content a page can hold.
// ENUM(text, image, video, widget)
type SlotKind int
