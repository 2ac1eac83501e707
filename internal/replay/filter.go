package replay

import (
	"time"

	"github.com/samber/lo"

	"github.com/SmitUplenchwar2687/Cadence/internal/recorder"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// Filter selects which replayed events reach the callback.
type Filter struct {
	Kinds     []timestep.Kind // Only include these kinds (empty = all)
	MinDelta  time.Duration   // Only include events carrying at least this delta (zero = no limit)
	FromFrame uint64          // Only include events at or after this frame (zero = no limit)
	ToFrame   uint64          // Only include events at or before this frame (zero = no limit)
}

// ParseKinds turns names like "render,fixed-step" into kinds.
func ParseKinds(names []string) ([]timestep.Kind, error) {
	kinds := make([]timestep.Kind, 0, len(names))
	for _, n := range lo.Compact(names) {
		k, err := timestep.ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return lo.Uniq(kinds), nil
}

// Match returns true if the record passes the filter.
func (f *Filter) Match(r recorder.EventRecord) bool {
	if len(f.Kinds) > 0 && !lo.Contains(f.Kinds, r.Event.Kind) {
		return false
	}
	if f.MinDelta > 0 && r.Event.Delta < f.MinDelta {
		return false
	}
	if f.FromFrame > 0 && r.Frame < f.FromFrame {
		return false
	}
	if f.ToFrame > 0 && r.Frame > f.ToFrame {
		return false
	}
	return true
}
