package cache

import (
	"context"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/models"
)

// partitioned is the outcome of classifying one raw batch. Relative order
// within each group is preserved.
type partitioned struct {
	folders []models.RawNode
	files   []models.RawNode
}

// partition splits a raw mixed batch by kind. Classification happens once,
// here at the boundary; downstream code never branches on kind or status
// tags again.
//
// Drop rules:
//   - PENDING records are dropped silently (placeholder entries not yet
//     visible upstream).
//   - ASSET records are dropped silently (thumbnails and similar artifacts,
//     not part of the navigable hierarchy).
//   - any other unrecognised kind is dropped with a warning naming the kind.
func partition(ctx context.Context, nodes []models.RawNode) partitioned {
	log := logger.FromContext(ctx)

	var parts partitioned
	for _, node := range nodes {
		if node.Status == models.StatusPending {
			continue
		}

		switch node.Kind {
		case models.KindFile:
			parts.files = append(parts.files, node)
		case models.KindFolder:
			parts.folders = append(parts.folders, node)
		case models.KindAsset:
			// not cached
		default:
			log.Warn().
				Str("func", "cache.partition").
				Str("kind", string(node.Kind)).
				Str("node_id", node.ID).
				Msg("cannot insert unknown node type")
		}
	}

	return parts
}
