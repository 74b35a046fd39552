package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/podrant/domain"
)

// ThreadSnapshot resolves interactions for every item that survives
// assembly, in one batched lookup. A failed lookup yields an empty snapshot
// so the thread still renders without engagement.
func ThreadSnapshot(ctx context.Context, items []domain.Item, src InteractionSource) domain.Snapshot {
	if src == nil {
		return domain.Snapshot{}
	}
	ids := reachableIDs(domain.Assemble(items))
	if len(ids) == 0 {
		return domain.Snapshot{}
	}
	snap, err := src.Interactions(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Int("items", len(ids)).Msg("interaction lookup failed")
		return domain.Snapshot{}
	}
	return snap
}

// reachableIDs lists the roots, then every reply below them, including the
// ones a depth cap would collapse, so expanding them later needs no further
// lookup.
func reachableIDs(th *domain.Thread) []string {
	roots := th.Roots()
	out := append([]string{}, roots...)
	var walk func(id string)
	walk = func(id string) {
		for _, kid := range th.Replies(id) {
			out = append(out, kid)
			walk(kid)
		}
	}
	for _, id := range roots {
		walk(id)
	}
	return out
}

// BuildThread assembles a flat batch into a tree and merges interactions.
// A failed lookup leaves the tree without engagement instead of failing.
func BuildThread(ctx context.Context, items []domain.Item, src InteractionSource) []domain.Node {
	tree := domain.Assemble(items).Tree(domain.MaxReplyDepth)
	if src == nil || len(tree) == 0 {
		return tree
	}
	return domain.Merge(tree, ThreadSnapshot(ctx, items, src))
}

// ListSnapshot resolves interactions for a flat list shown without
// threading, such as a profile's replies tab.
func ListSnapshot(ctx context.Context, items []domain.Item, src InteractionSource) domain.Snapshot {
	if src == nil || len(items) == 0 {
		return domain.Snapshot{}
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	snap, err := src.Interactions(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Int("items", len(ids)).Msg("interaction lookup failed")
		return domain.Snapshot{}
	}
	return snap
}
