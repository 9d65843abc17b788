package gateway

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/light"
)

// FetchStates reads the remote state of every id, bounding each call by
// timeout. Entities that cannot be read are logged and left out; the
// returned snapshots keep the order of ids.
func FetchStates(ctx context.Context, gw Gateway, ids []string, timeout time.Duration) []light.Entity {
	snapshots := make([]light.Entity, 0, len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		var snapshot light.Entity
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		err := CallWithTimeout(callCtx, func(ctx context.Context) error {
			e, err := gw.GetState(ctx, id)
			if err != nil {
				return err
			}
			snapshot = e
			return nil
		})
		cancel()

		if err != nil {
			log.Warn().Err(err).Str("entity_id", id).Msg("Failed to fetch light state")
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots
}
