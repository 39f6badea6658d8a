package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Document is one revision of a generated compliance document.
// Body is kept in blob storage; the repository stores metadata only.
type Document struct {
	ID         types.DocumentID
	ProjectID  types.ProjectID
	Kind       types.DocumentKind
	Title      string
	Body       string
	Revision   int
	PreviousID types.DocumentID
	Model      string
	CreatedBy  types.UserID
	CreatedAt  time.Time
}

// BodyPath returns the blob key of the document body
func (d *Document) BodyPath() string {
	return DocumentBodyPath(d.ProjectID, d.ID)
}

// DocumentBodyPath returns the blob key for a document body
func DocumentBodyPath(projectID types.ProjectID, documentID types.DocumentID) string {
	return fmt.Sprintf("projects/%s/documents/%s.md", projectID, documentID)
}

// Copy returns a copy of the document
func (d *Document) Copy() *Document {
	c := *d
	return &c
}

// DocumentSection is a heading and its markdown body
type DocumentSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// RenderMarkdown builds the document body from a title and sections
func RenderMarkdown(title string, sections []DocumentSection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", strings.TrimSpace(title))
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", strings.TrimSpace(s.Heading), strings.TrimSpace(s.Body))
	}
	return b.String()
}
