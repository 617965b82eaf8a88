// Package docgen drives the document generation pipeline: build a
// prompt for the requested document type, draft content through a
// provider, validate the draft's structure, and publish the result.
// Lifecycle hook events fire at each stage so plugins can observe or
// veto the pipeline.
package docgen

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies a supported document type.
type Type string

// Supported document types.
const (
	TypeProjectCharter Type = "project-charter"
	TypeRequirements   Type = "requirements"
	TypeDataPlan       Type = "data-management-plan"
)

// Types returns the supported document types.
func Types() []Type {
	return []Type{TypeProjectCharter, TypeRequirements, TypeDataPlan}
}

// Recognized reports whether t is a supported document type.
func (t Type) Recognized() bool {
	switch t {
	case TypeProjectCharter, TypeRequirements, TypeDataPlan:
		return true
	}
	return false
}

// Errors returned by the pipeline.
var (
	// ErrUnknownType indicates the requested document type is not supported.
	ErrUnknownType = errors.New("unknown document type")

	// ErrEmptyTitle indicates the request has no title.
	ErrEmptyTitle = errors.New("empty document title")

	// ErrPublishVetoed indicates a plugin aborted publication.
	ErrPublishVetoed = errors.New("publish vetoed")
)

// Request describes the document to generate.
type Request struct {
	// Type selects the document template.
	Type Type

	// Title is the document's working title.
	Title string

	// Context is optional free-form background folded into the prompt.
	Context string
}

// Validate checks the request before generation starts.
func (r Request) Validate() error {
	if !r.Type.Recognized() {
		return fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
	if r.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Document is a generated document moving through the pipeline.
type Document struct {
	// ID uniquely identifies this generation run.
	ID string

	// Request is the originating request.
	Request Request

	// Content is the current Markdown body. Hooks may replace it.
	Content string

	// Report holds the structural validation outcome, set after the
	// validation stage runs.
	Report *Report

	// CreatedAt is when generation started.
	CreatedAt time.Time
}

// newDocument stamps a fresh document for the request.
func newDocument(req Request) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
}
