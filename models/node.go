package models

import "time"

// EmptyFileMD5 is the MD5 digest of zero-length content. A file record whose
// remote payload carries no content properties is stored with this checksum
// and a size of zero.
const EmptyFileMD5 = "d41d8cd98f00b204e9800998ecf8427e"

// Folder is a cached folder node. Folders carry no payload beyond the common
// identity and timestamp fields.
type Folder struct {
	// ID is the opaque remote identifier, globally unique across files and
	// folders alike.
	ID string `json:"id"`

	// Name is the display name. The root folder has no name; the field is
	// nil in that case.
	Name *string `json:"name,omitempty"`

	// Created is the remote-authoritative creation instant.
	Created time.Time `json:"created"`

	// Modified is the remote-authoritative last-modification instant.
	Modified time.Time `json:"modified"`

	// Updated records the last time this row was touched by a sync round.
	// It is local bookkeeping, never taken from the remote payload, and is
	// excluded from content equality.
	Updated time.Time `json:"updated"`

	// Status is the remote lifecycle status (AVAILABLE, TRASH, ...).
	Status NodeStatus `json:"status"`
}

// File is a cached file node: the common node fields plus content checksum
// and size.
type File struct {
	ID       string     `json:"id"`
	Name     *string    `json:"name,omitempty"`
	Created  time.Time  `json:"created"`
	Modified time.Time  `json:"modified"`
	Updated  time.Time  `json:"updated"`
	Status   NodeStatus `json:"status"`

	// MD5 is the content checksum reported by the remote side.
	MD5 string `json:"md5"`

	// Size is the content length in bytes, never negative.
	Size int64 `json:"size"`
}

// ContentEquals reports whether two folder records of the same id carry the
// same content fields. Updated is deliberately excluded: it is local
// bookkeeping and would make every record look changed.
//
// Content equality is the basis for distinguishing a true update from a
// no-op duplicate during a sync round.
func (f Folder) ContentEquals(other Folder) bool {
	return equalName(f.Name, other.Name) &&
		f.Created.Equal(other.Created) &&
		f.Modified.Equal(other.Modified) &&
		f.Status == other.Status
}

// ContentEquals reports whether two file records of the same id carry the
// same content fields, checksum and size included. Updated is excluded.
func (f File) ContentEquals(other File) bool {
	return equalName(f.Name, other.Name) &&
		f.Created.Equal(other.Created) &&
		f.Modified.Equal(other.Modified) &&
		f.Status == other.Status &&
		f.MD5 == other.MD5 &&
		f.Size == other.Size
}

func equalName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// TableName returns the name of the database table associated with the
// Folder model.
func (f *Folder) TableName() string {
	return "folders"
}

// TableName returns the name of the database table associated with the
// File model.
func (f *File) TableName() string {
	return "files"
}
