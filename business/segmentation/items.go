package segmentation

import (
	"context"
	"errors"

	"okazjeplus/domain"
	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"

	"golang.org/x/sync/errgroup"
)

type itemKey struct {
	itemType domain.ItemType
	itemID   string
}

func keyOf(in domain.Interaction) itemKey {
	return itemKey{itemType: in.ItemType, itemID: in.ItemID}
}

// resolveItems looks up every distinct item referenced by interactions with
// at most LookupConcurrency requests in flight. Failed lookups are logged and
// left out of the result; they never fail the batch.
func (s *Service) resolveItems(ctx context.Context, interactions []domain.Interaction) map[itemKey]domain.CatalogItem {
	seen := make(map[itemKey]struct{}, len(interactions))
	keys := make([]itemKey, 0, len(interactions))
	for _, in := range interactions {
		k := keyOf(in)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	found := make([]*domain.CatalogItem, len(keys))

	var g errgroup.Group
	g.SetLimit(s.cfg.LookupConcurrency)

	for i, k := range keys {
		g.Go(func() error {
			item, err := s.catalog.GetItem(ctx, k.itemType, k.itemID)
			if err != nil {
				ItemLookupFailuresTotal.WithLabelValues(string(k.itemType)).Inc()
				if errors.Is(err, domain.ErrItemNotFound) {
					logger.Debug("behavior_item_missing",
						"trace_id", trace.TraceIDFromContext(ctx),
						"item_type", string(k.itemType),
						"item_id", k.itemID,
					)
				} else {
					logger.Warn("behavior_item_lookup_failed",
						"trace_id", trace.TraceIDFromContext(ctx),
						"item_type", string(k.itemType),
						"item_id", k.itemID,
						"error", err,
					)
				}
				return nil
			}
			found[i] = &item
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[itemKey]domain.CatalogItem, len(keys))
	for i, item := range found {
		if item != nil {
			out[keys[i]] = *item
		}
	}
	return out
}
