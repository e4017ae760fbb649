package update

import (
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/types"
)

// Rollback restores the most recent snapshot onto the tree verbatim and
// reports the version the tree is back on. Only files captured in the
// snapshot are written; OperatorOwned paths were never captured, so they
// are never written. Returns ErrNoSnapshot when no snapshot exists.
func (e *Engine) Rollback() (*types.RollbackResult, error) {
	latest, err := e.snapshots.Latest()
	if err != nil {
		return nil, err
	}

	restored, err := e.snapshots.Restore(latest.Path)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("update")
	logger.Info().
		Str("version", latest.Version).
		Int("files", restored).
		Msg("Rolled back to snapshot")

	return &types.RollbackResult{
		RestoredVersion: latest.Version,
		SnapshotPath:    latest.Path,
		FilesRestored:   restored,
		Timestamp:       timeNow().UTC(),
	}, nil
}
