package revision

import (
	"context"
)

// PrunePolicy returns the revisions that fall outside the newest keep
// entries. newest, when set, ranks first regardless of its LastModified,
// since timestamps only have one-second precision. The active revision is
// never returned.
func PrunePolicy(revisions []Revision, keep int, active, newest string) []Revision {
	if keep < 1 || len(revisions) <= keep {
		return nil
	}
	ranked := append([]Revision(nil), revisions...)
	sortRevisions(ranked)
	promote(ranked, newest)

	var doomed []Revision
	for _, r := range ranked[keep:] {
		if active != "" && r.Key == active {
			continue
		}
		doomed = append(doomed, r)
	}
	return doomed
}

// promote moves key to the front, keeping the order of the rest.
func promote(ranked []Revision, key string) {
	if key == "" {
		return
	}
	for i, r := range ranked {
		if r.Key != key {
			continue
		}
		copy(ranked[1:i+1], ranked[:i])
		ranked[0] = r
		return
	}
}

// Prune deletes revisions beyond the manifest size, keeping the active one.
func (s *Store) Prune(ctx context.Context) (int, error) {
	return s.prune(ctx, "")
}

func (s *Store) prune(ctx context.Context, newest string) (int, error) {
	revisions, err := s.manifest(ctx)
	if err != nil {
		return 0, backendErr("prune: list manifest", err)
	}
	if len(revisions) <= s.opts.ManifestSize {
		return 0, nil
	}

	active, err := s.activator.Active(ctx)
	if err != nil {
		return 0, backendErr("prune: resolve active revision", err)
	}

	doomed := PrunePolicy(revisions, s.opts.ManifestSize, active, newest)
	if len(doomed) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(doomed))
	for _, r := range doomed {
		keys = append(keys, r.ObjectKey())
	}
	s.log.Debug(ctx, "pruning revisions", "count", len(keys), "active", active)
	if err := s.storage.DeleteObjects(ctx, keys); err != nil {
		return 0, backendErr("prune: delete revisions", err)
	}
	return len(keys), nil
}
