package gameevent

import (
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/require"
)

func TestRefForIsInternedPerType(t *testing.T) {
	// events.Bus matches subscriptions by *core.Ref pointer identity, so
	// the same Type must always yield the same pointer.
	require.Same(t, RefFor(TypeMoved), RefFor(TypeMoved))
	require.NotSame(t, RefFor(TypeMoved), RefFor(TypeExplored))
	require.Same(t, RefFor(TypeMoved), Event{Type: TypeMoved}.EventRef())
}

func TestEventPublishesThroughBus(t *testing.T) {
	bus := events.NewBus()
	var got []Event
	_, err := bus.Subscribe(RefFor(TypeEnemyDefeated), func(e Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(Event{Type: TypeEnemyDefeated, EnemyInstanceID: "e1"}))
	require.NoError(t, bus.Publish(Event{Type: TypeMoved}))

	require.Len(t, got, 1, "only the subscribed ref's events arrive")
	require.Equal(t, TypeEnemyDefeated, got[0].Type)
}
