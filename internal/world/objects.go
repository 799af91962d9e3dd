package world

import "fmt"

// Objects is the object arena: objects addressed by stable string ids,
// iterated in insertion order so every phase sees the same sequence.
type Objects struct {
	order []string
	byID  map[string]*Object
}

// NewObjects creates an arena holding the given objects.
func NewObjects(objs ...*Object) *Objects {
	a := &Objects{byID: make(map[string]*Object, len(objs))}
	for _, o := range objs {
		_ = a.Add(o)
	}
	return a
}

// Add inserts an object. Duplicate ids are rejected.
func (a *Objects) Add(o *Object) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("world: object id is required")
	}
	if _, ok := a.byID[o.ID]; ok {
		return fmt.Errorf("world: duplicate object id %q", o.ID)
	}
	a.byID[o.ID] = o
	a.order = append(a.order, o.ID)
	return nil
}

// Get looks up an object by id.
func (a *Objects) Get(id string) (*Object, bool) {
	if a == nil {
		return nil, false
	}
	o, ok := a.byID[id]
	return o, ok
}

// Remove deletes an object. Missing ids are ignored.
func (a *Objects) Remove(id string) {
	if _, ok := a.byID[id]; !ok {
		return
	}
	delete(a.byID, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// IDs returns object ids in insertion order.
func (a *Objects) IDs() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Each calls fn for every object in insertion order.
func (a *Objects) Each(fn func(*Object)) {
	if a == nil {
		return
	}
	for _, id := range a.order {
		fn(a.byID[id])
	}
}

// Len returns the number of objects.
func (a *Objects) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Clone deep-copies the arena.
func (a *Objects) Clone() *Objects {
	c := &Objects{byID: make(map[string]*Object, len(a.order))}
	for _, id := range a.order {
		_ = c.Add(a.byID[id].Clone())
	}
	return c
}
