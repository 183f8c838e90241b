package state

// RNGState is the JSON-serializable view of the engine's RNG position
// (spec §5, §6: persistence must round-trip losslessly). Package rng
// turns this into a live dice.Roller via rng.Resume(state.RNG.Seed,
// state.RNG.Counter) and back into this shape via (*rng.Source).Seed()/
// Counter() after a draw.
type RNGState struct {
	Seed    uint64 `json:"seed"`
	Counter uint64 `json:"counter"`
}
