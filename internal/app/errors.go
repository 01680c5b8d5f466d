package service

import "errors"

// Sentinel errors returned by the service. Domain errors from document,
// catalog and matching are passed through wrapped, so callers can test
// for them with errors.Is as well.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrNoCatalog        = errors.New("no job catalog loaded")
	ErrInvalidInput     = errors.New("invalid input")
	ErrExtractionFailed = errors.New("text extraction failed")
	ErrNoSkillsFound    = errors.New("no skills found in CV")
	ErrBackpressure     = errors.New("analysis queue is full")
	ErrAnalysisNotFound = errors.New("analysis not found")
)
