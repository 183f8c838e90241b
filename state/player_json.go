package state

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-toolkit/mechanics/resources"
)

// resourceJSON is the persisted view of a resources.Resource: the two
// numbers that matter for round-tripping (spec §6 "MUST round-trip the
// full GameState losslessly"). Identity fields (id/key/owner) are
// rebuilt deterministically from the player id on load.
type resourceJSON struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

func resourceToJSON(r resources.Resource) resourceJSON {
	if r == nil {
		return resourceJSON{}
	}
	return resourceJSON{Current: r.Current(), Maximum: r.Maximum()}
}

// playerAlias breaks the MarshalJSON recursion.
type playerAlias Player

type playerJSON struct {
	*playerAlias

	Crystals        map[Color]resourceJSON `json:"crystals"`
	MovePoints      resourceJSON           `json:"move_points"`
	InfluencePoints resourceJSON           `json:"influence_points"`
}

// MarshalJSON serializes the resource-backed fields (which carry
// json:"-" on the struct) as plain {current, maximum} pairs alongside
// the ordinary fields.
func (p *Player) MarshalJSON() ([]byte, error) {
	out := playerJSON{
		playerAlias: (*playerAlias)(p),
		Crystals:    make(map[Color]resourceJSON, len(p.Crystals)),
		MovePoints:      resourceToJSON(p.MovePoints),
		InfluencePoints: resourceToJSON(p.InfluencePoints),
	}
	for c, r := range p.Crystals {
		out.Crystals[c] = resourceToJSON(r)
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the resource pools from their persisted
// {current, maximum} pairs, re-minting their ids from the player id the
// same way NewPlayer does.
func (p *Player) UnmarshalJSON(data []byte) error {
	in := playerJSON{playerAlias: (*playerAlias)(p)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	owner := resourceOwner(p.ID)
	p.Crystals = make(map[Color]resources.Resource, len(in.Crystals))
	for c, rj := range in.Crystals {
		p.Crystals[c] = resources.NewSimpleResource(resources.SimpleResourceConfig{
			ID:      "crystal_" + string(c) + "_" + string(p.ID),
			Type:    resources.ResourceTypeCustom,
			Owner:   owner,
			Key:     "crystal_" + string(c),
			Current: rj.Current,
			Maximum: rj.Maximum,
		})
	}
	p.MovePoints = resources.NewSimpleResource(resources.SimpleResourceConfig{
		ID: "move_" + string(p.ID), Type: resources.ResourceTypeCustom, Owner: owner,
		Key: "move", Current: in.MovePoints.Current, Maximum: in.MovePoints.Maximum,
	})
	p.InfluencePoints = resources.NewSimpleResource(resources.SimpleResourceConfig{
		ID: "influence_" + string(p.ID), Type: resources.ResourceTypeCustom, Owner: owner,
		Key: "influence", Current: in.InfluencePoints.Current, Maximum: in.InfluencePoints.Maximum,
	})
	return nil
}
