package models

import (
	"fmt"
	"time"
)

// RawNode is a node record exactly as the changes API delivers it: a mixed
// bag of files, folders and assets identified by the Kind tag. Classification
// into concrete cache models happens once, at the dispatcher boundary.
type RawNode struct {
	ID     string     `json:"id"`
	Kind   NodeKind   `json:"kind"`
	Status NodeStatus `json:"status"`

	// Name is absent for the root folder.
	Name *string `json:"name,omitempty"`

	// CreatedDate and ModifiedDate are ISO-8601 UTC instants with
	// fractional seconds, parsed via ParseNodeTime.
	CreatedDate  string `json:"createdDate"`
	ModifiedDate string `json:"modifiedDate"`

	// Parents lists the ids of all parent folders. The hierarchy is a DAG:
	// multiple parents are legal and expected.
	Parents []string `json:"parents"`

	// ContentProperties is present on FILE records only and may be absent
	// for empty files.
	ContentProperties *ContentProperties `json:"contentProperties,omitempty"`
}

// ContentProperties is the content block of a FILE record.
type ContentProperties struct {
	MD5  string `json:"md5"`
	Size int64  `json:"size"`
}

// ChangeSet is one frame of the paginated changes response: the node records
// of the page, the ids purged remotely, and the cursor to persist once the
// frame has been applied.
type ChangeSet struct {
	Checkpoint string    `json:"checkpoint"`
	Nodes      []RawNode `json:"nodes"`
	Purged     []string  `json:"purged"`

	// Reset signals that the server discarded the supplied checkpoint and
	// the frame carries a full snapshot instead of an increment.
	Reset bool `json:"reset"`
}

// ParentageUpdate is the full parent list for one child id, used to rewrite
// that child's outgoing edges in a single pass.
type ParentageUpdate struct {
	ChildID   string
	ParentIDs []string
}

// UpsertSummary tallies the outcome of one upsert batch.
type UpsertSummary struct {
	Inserted  int
	Duplicate int
	Updated   int
	Deleted   int
}

// ParseNodeTime parses a remote timestamp string, an ISO-8601 UTC instant
// with fractional seconds (e.g. "2013-01-01T01:01:01.001Z"). It fails on
// malformed input.
func ParseNodeTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse node timestamp %q: %w", value, err)
	}
	return t, nil
}

// ToFolder builds a cache folder candidate from the raw record. Updated is
// left zero; the store stamps it when the row is written.
func (r RawNode) ToFolder() (Folder, error) {
	created, err := ParseNodeTime(r.CreatedDate)
	if err != nil {
		return Folder{}, err
	}
	modified, err := ParseNodeTime(r.ModifiedDate)
	if err != nil {
		return Folder{}, err
	}

	return Folder{
		ID:       r.ID,
		Name:     r.Name,
		Created:  created,
		Modified: modified,
		Status:   r.Status,
	}, nil
}

// ToFile builds a cache file candidate from the raw record. A record without
// a content-properties block is an empty file and gets the well-known
// zero-length checksum and a size of zero; that is a defined default, not an
// error.
func (r RawNode) ToFile() (File, error) {
	created, err := ParseNodeTime(r.CreatedDate)
	if err != nil {
		return File{}, err
	}
	modified, err := ParseNodeTime(r.ModifiedDate)
	if err != nil {
		return File{}, err
	}

	md5sum := EmptyFileMD5
	var size int64
	if r.ContentProperties != nil {
		md5sum = r.ContentProperties.MD5
		size = r.ContentProperties.Size
	}

	return File{
		ID:       r.ID,
		Name:     r.Name,
		Created:  created,
		Modified: modified,
		Status:   r.Status,
		MD5:      md5sum,
		Size:     size,
	}, nil
}
