package adapter

import (
	"context"

	"github.com/nabcos/acd-cli/models"
)

// ChangesClient paginates node records from the remote changes API. The
// reconciliation core consumes the resulting change sets; it never talks to
// the network itself.
type ChangesClient interface {
	// Changes requests everything that changed since the given checkpoint.
	// An empty checkpoint requests the full node set. The returned slice
	// holds one ChangeSet per response frame, in arrival order.
	Changes(ctx context.Context, checkpoint string) ([]models.ChangeSet, error)
}
