package model

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of a diff hunk
type DiffOp string

const (
	DiffOpEqual  DiffOp = "equal"
	DiffOpInsert DiffOp = "insert"
	DiffOpDelete DiffOp = "delete"
)

// DiffHunk is one contiguous change between two document bodies
type DiffHunk struct {
	Op   DiffOp `json:"op"`
	Text string `json:"text"`
}

// DocumentDiff is the line-level difference between two revisions
type DocumentDiff struct {
	FromID    string     `json:"from_id"`
	ToID      string     `json:"to_id"`
	Hunks     []DiffHunk `json:"hunks"`
	Patch     string     `json:"patch"`
	Inserted  int        `json:"inserted"`
	Deleted   int        `json:"deleted"`
	Identical bool       `json:"identical"`
}

// Diff compares the bodies of two document revisions line by line
func Diff(from, to *Document) *DocumentDiff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from.Body, to.Body)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	diffs = dmp.DiffCleanupSemantic(diffs)

	result := &DocumentDiff{
		FromID:    from.ID.String(),
		ToID:      to.ID.String(),
		Hunks:     make([]DiffHunk, 0, len(diffs)),
		Patch:     dmp.PatchToText(dmp.PatchMake(from.Body, diffs)),
		Identical: true,
	}

	for _, d := range diffs {
		var op DiffOp
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffOpInsert
			result.Inserted += len(d.Text)
			result.Identical = false
		case diffmatchpatch.DiffDelete:
			op = DiffOpDelete
			result.Deleted += len(d.Text)
			result.Identical = false
		default:
			op = DiffOpEqual
		}
		result.Hunks = append(result.Hunks, DiffHunk{Op: op, Text: d.Text})
	}
	return result
}
