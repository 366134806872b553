package guardian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SubscribeFiltersByGuardian(t *testing.T) {
	hub := NewHub()
	mine, cancelMine := hub.Subscribe("g-1")
	defer cancelMine()
	all, cancelAll := hub.Subscribe("")
	defer cancelAll()

	hub.Publish(Message{Type: TypeAlertEvent, To: "g-2"})
	hub.Publish(Message{Type: TypeAlertEvent, To: "g-1"})

	assert.Len(t, mine, 1)
	assert.Len(t, all, 2)
	assert.Equal(t, "g-1", (<-mine).To)
}

func TestHub_CancelClosesStream(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g-1")
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, hub.Subscribers())
	hub.Publish(Message{Type: TypeAlertEvent, To: "g-1"})
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g-1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Message{Type: TypeAlertEvent, To: "g-1"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("")
	defer cancel()

	err := hub.Broadcast("elder_1", TypeAlertEvent, AlertEventPayload{ID: "7", Type: "SOS"}, []string{"g-1", "g-2"})
	require.NoError(t, err)
	require.Len(t, ch, 2)

	first, second := <-ch, <-ch
	assert.ElementsMatch(t, []string{"g-1", "g-2"}, []string{first.To, second.To})
	assert.Equal(t, "elder_1", first.From)
	assert.NotEmpty(t, first.RequestID)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	var payload AlertEventPayload
	require.NoError(t, first.Decode(&payload))
	assert.Equal(t, "SOS", payload.Type)
}

func TestHub_NilIsNoop(t *testing.T) {
	var hub *Hub
	ch, cancel := hub.Subscribe("g-1")
	defer cancel()

	hub.Publish(Message{Type: TypeAlertEvent})
	assert.NoError(t, hub.Broadcast("elder", TypeAlertEvent, struct{}{}, []string{"g-1"}))
	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, hub.Subscribers())
}
