// Package collision tracks bounding-box contacts between objects, the field
// boundary and stage regions across frames.
package collision

import (
	"strings"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/world"
)

// BackgroundKey is the synthetic id of the field boundary.
const BackgroundKey = "@bounds"

type idSet map[string]struct{}

// Tracker keeps the previous and current overlap sets per object.
// Refresh is called once per frame; queries between refreshes are stable.
type Tracker struct {
	prev    map[string]idSet
	curr    map[string]idSet
	regions map[string]core.Region
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		prev:    make(map[string]idSet),
		curr:    make(map[string]idSet),
		regions: make(map[string]core.Region),
	}
}

// WatchRegion registers a stage region and returns its synthetic id.
// Contacts with the region are computed from the next Refresh on.
func (t *Tracker) WatchRegion(r core.Region) string {
	key := r.Key()
	t.regions[key] = r
	return key
}

// Regions returns the number of watched regions.
func (t *Tracker) Regions() int {
	return len(t.regions)
}

// Refresh rotates the current overlap sets into the previous ones and
// recomputes the current sets from the objects' bounds.
func (t *Tracker) Refresh(objs *world.Objects, field core.Size) {
	t.prev = t.curr
	t.curr = make(map[string]idSet, objs.Len())

	var visible []*world.Object
	objs.Each(func(o *world.Object) {
		if o.Visible {
			visible = append(visible, o)
		}
	})

	bounds := field.Rect()
	for i, a := range visible {
		ab := a.Bounds()
		for _, b := range visible[i+1:] {
			if ab.Intersects(b.Bounds()) {
				t.link(a.ID, b.ID)
				t.link(b.ID, a.ID)
			}
		}
		if ab.X <= bounds.X || ab.Y <= bounds.Y || ab.Right() >= bounds.Right() || ab.Bottom() >= bounds.Bottom() {
			t.link(a.ID, BackgroundKey)
		}
		for key, r := range t.regions {
			if r.Overlaps(ab, field) {
				t.link(a.ID, key)
			}
		}
	}
}

func (t *Tracker) link(a, b string) {
	s, ok := t.curr[a]
	if !ok {
		s = make(idSet)
		t.curr[a] = s
	}
	s[b] = struct{}{}
}

func has(m map[string]idSet, a, b string) bool {
	_, ok := m[a][b]
	return ok
}

// Enter reports a contact present now and absent in the previous frame.
func (t *Tracker) Enter(a, b string) bool {
	return has(t.curr, a, b) && !has(t.prev, a, b)
}

// Stay reports a contact present in both frames.
func (t *Tracker) Stay(a, b string) bool {
	return has(t.curr, a, b) && has(t.prev, a, b)
}

// Exit reports a contact absent now and present in the previous frame.
func (t *Tracker) Exit(a, b string) bool {
	return !has(t.curr, a, b) && has(t.prev, a, b)
}

// Phase tests a lifecycle phase for the pair (a, b). An empty b matches
// any other object, never the boundary or a region.
func (t *Tracker) Phase(p rules.CollisionPhase, a, b string) bool {
	test := t.Enter
	switch p {
	case rules.CollisionStay:
		test = t.Stay
	case rules.CollisionExit:
		test = t.Exit
	}
	if b != "" {
		return test(a, b)
	}
	for other := range t.curr[a] {
		if !Synthetic(other) && test(a, other) {
			return true
		}
	}
	for other := range t.prev[a] {
		if !Synthetic(other) && test(a, other) {
			return true
		}
	}
	return false
}

// Overlapping returns the ids currently in contact with a.
func (t *Tracker) Overlapping(a string) []string {
	out := make([]string, 0, len(t.curr[a]))
	for id := range t.curr[a] {
		out = append(out, id)
	}
	return out
}

// Pairs returns the number of directed contacts in the current frame.
func (t *Tracker) Pairs() int {
	n := 0
	for _, s := range t.curr {
		n += len(s)
	}
	return n
}

// Reset forgets every contact. Watched regions are kept.
func (t *Tracker) Reset() {
	t.prev = make(map[string]idSet)
	t.curr = make(map[string]idSet)
}

// Synthetic reports whether id names the boundary or a region rather than an object.
func Synthetic(id string) bool {
	return id == BackgroundKey || strings.HasPrefix(id, "region:")
}
