package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
)

func stepsEvent(username string, steps int) shared.StepsLoggedEvent {
	return shared.StepsLoggedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventStepsLogged, username),
		Username:  username,
		Steps:     steps,
	}
}

func TestSubscribeReceivesMatchingType(t *testing.T) {
	bus := NewEventBus(nil)

	var received []shared.Event
	bus.Subscribe(shared.EventStepsLogged, func(e shared.Event) {
		received = append(received, e)
	})

	bus.Publish(stepsEvent("alice", 5000))
	bus.Publish(shared.MemberRemovedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventMemberRemoved, "bob"),
		Username:  "bob",
	})

	assert.Len(t, received, 1)
	assert.Equal(t, shared.EventStepsLogged, received[0].EventType())
	assert.Equal(t, "alice", received[0].AggregateID())
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewEventBus(nil)

	count := 0
	bus.SubscribeAll(func(e shared.Event) { count++ })

	bus.Publish(stepsEvent("alice", 5000))
	bus.Publish(shared.MemberRemovedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventMemberRemoved, "bob"),
		Username:  "bob",
	})

	assert.Equal(t, 2, count)
}

func TestDispatchOrderIsSubscriptionOrder(t *testing.T) {
	bus := NewEventBus(nil)

	var order []string
	bus.Subscribe(shared.EventStepsLogged, func(e shared.Event) { order = append(order, "first") })
	bus.Subscribe(shared.EventStepsLogged, func(e shared.Event) { order = append(order, "second") })

	bus.Publish(stepsEvent("alice", 100))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus(nil)

	delivered := false
	bus.Subscribe(shared.EventStepsLogged, func(e shared.Event) { panic("boom") })
	bus.Subscribe(shared.EventStepsLogged, func(e shared.Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(stepsEvent("alice", 100))
	})
	assert.True(t, delivered)
}

func TestNilHandlerIgnored(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe(shared.EventStepsLogged, nil)
	bus.SubscribeAll(nil)

	assert.NotPanics(t, func() {
		bus.Publish(stepsEvent("alice", 100))
	})
}
