package store

import "github.com/nabcos/acd-cli/internal/logger"

// NodeStorage bundles every repository of the cache behind one handle. All
// repositories share a single database connection; callers that need
// concurrent writers must serialize externally.
type NodeStorage struct {
	CheckpointRepository
	NodeRepository
	FolderRepository
	FileRepository
	ParentageRepository
}

// NewNodeStorage wires all repositories onto the given database handle.
func NewNodeStorage(db *DB, log *logger.Logger) *NodeStorage {
	return &NodeStorage{
		CheckpointRepository: NewCheckpointRepository(db, log),
		NodeRepository:       NewNodeRepository(db, log),
		FolderRepository:     NewFolderRepository(db, log),
		FileRepository:       NewFileRepository(db, log),
		ParentageRepository:  NewParentageRepository(db, log),
	}
}
