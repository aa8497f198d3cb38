package events

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 7, Estado: "Reservada"})
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventBookingCreated, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, received.Decode(&decoded))
	assert.Equal(t, int64(7), decoded.BookingID)
	assert.Nil(t, decoded.MembershipID)
}

func TestEventBusWildcardAndOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string

	bus.Subscribe(AllEvents, func(e *Event) error { calls = append(calls, "all:"+e.Type); return nil })
	bus.Subscribe(EventOrderCreated, func(_ *Event) error { calls = append(calls, "order"); return nil })

	require.NoError(t, bus.Publish(&Event{Type: EventOrderCreated}))
	require.NoError(t, bus.Publish(&Event{Type: EventOrderDeleted}))

	assert.Equal(t, []string{"order", "all:" + EventOrderCreated, "all:" + EventOrderDeleted}, calls)
}

func TestEventBusHandlerErrors(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	var reached bool

	bus.Subscribe(EventMovementRecorded, func(_ *Event) error { return boom })
	bus.Subscribe(EventMovementRecorded, func(_ *Event) error { reached = true; return nil })

	err := bus.PublishJSON(EventMovementRecorded, MovementEventPayload{Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, boom)
	assert.True(t, reached)
}

func TestEventBusNilAndNoSubscribers(t *testing.T) {
	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(EventOrderUpdated, nil))

	bus := NewEventBus()
	assert.NoError(t, bus.Publish(&Event{Type: "unknown"}))
	assert.NoError(t, bus.PublishJSON("unknown", nil))
}

func TestNewJSONEvent(t *testing.T) {
	event, err := NewJSONEvent(EventMembershipsExpired, ExpiryEventPayload{Today: "2025-01-11", Expired: 3})
	require.NoError(t, err)
	assert.Equal(t, EventMembershipsExpired, event.Type)
	assert.JSONEq(t, `{"today":"2025-01-11","expired":3}`, string(event.Payload))

	_, err = NewJSONEvent("bad", func() {})
	assert.Error(t, err)
}

func TestEventBusRecoversPanics(t *testing.T) {
	bus := NewEventBus()
	var reached bool
	bus.Subscribe(EventBookingCreated, func(_ *Event) error { panic("nil map") })
	bus.Subscribe(AllEvents, func(_ *Event) error { reached = true; return nil })

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking_created handler panicked")
	assert.True(t, reached)
}

func TestEventDecodeError(t *testing.T) {
	ev := &Event{Type: EventOrderCreated, Payload: []byte("{")}
	var p OrderEventPayload
	assert.ErrorContains(t, ev.Decode(&p), "decode order_created payload")
}
