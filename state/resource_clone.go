package state

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/mechanics/resources"
)

// CloneResource returns an independent resources.Resource carrying the
// same id/key/owner/current/maximum as r. GameState is replaced wholesale
// per action (spec §5 "no shared resources"), so every Resource embedded
// in Player must be copied rather than aliased whenever a command takes
// a pre-image or the engine clones state.
func CloneResource(r resources.Resource) resources.Resource {
	if r == nil {
		return nil
	}
	return resources.NewSimpleResource(resources.SimpleResourceConfig{
		ID:      r.GetID(),
		Type:    resources.ResourceTypeCustom,
		Owner:   entityOwner{id: r.Owner().GetID(), typ: r.Owner().GetType()},
		Key:     r.Key(),
		Current: r.Current(),
		Maximum: r.Maximum(),
	})
}

// Grant raises r's ceiling along with its current value. Move and
// influence points accumulate during a turn rather than refill toward a
// fixed cap, so granting must lift Maximum before Restore (which clamps
// to it).
func Grant(r resources.Resource, amount int) {
	if amount <= 0 {
		return
	}
	r.SetMaximum(r.Maximum() + amount)
	r.Restore(amount)
}

// Ungrant reverses Grant: consume the amount back out, then lower the
// ceiling. Only safe when nothing spent the granted points in between,
// which the LIFO undo stack guarantees.
func Ungrant(r resources.Resource, amount int) {
	if amount <= 0 {
		return
	}
	_ = r.Consume(amount)
	r.SetMaximum(r.Maximum() - amount)
}

// entityOwner is a value-typed core.Entity used by CloneResource so the
// cloned resource's owner never aliases the original's owner value.
type entityOwner struct {
	id  string
	typ string
}

// GetID implements core.Entity.
func (e entityOwner) GetID() string { return e.id }

// GetType implements core.Entity.
func (e entityOwner) GetType() string { return e.typ }

var _ core.Entity = entityOwner{}
