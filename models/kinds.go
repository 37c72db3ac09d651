package models

// NodeKind is the remote-assigned type tag of a node record.
// The cache only materializes FILE and FOLDER records; every other kind is
// either dropped silently (ASSET) or dropped with a warning (anything else).
type NodeKind string

const (
	// KindFile marks a regular file node carrying content properties.
	KindFile NodeKind = "FILE"

	// KindFolder marks a folder node. Folders carry no payload beyond the
	// common identity and timestamp fields.
	KindFolder NodeKind = "FOLDER"

	// KindAsset marks an auxiliary artifact (e.g. a thumbnail or preview)
	// that is not part of the navigable hierarchy and is never cached.
	KindAsset NodeKind = "ASSET"
)

// NodeStatus is the remote-assigned lifecycle status of a node.
// The set is open-ended on the server side; unknown values are stored as-is.
type NodeStatus string

const (
	// StatusAvailable marks a fully materialized, visible node.
	StatusAvailable NodeStatus = "AVAILABLE"

	// StatusTrash marks a node moved to the remote trash.
	StatusTrash NodeStatus = "TRASH"

	// StatusPending marks a node not yet fully materialized upstream.
	// Pending records are excluded from the cache.
	StatusPending NodeStatus = "PENDING"

	// StatusPurged marks a node the remote side has permanently removed.
	StatusPurged NodeStatus = "PURGED"
)
