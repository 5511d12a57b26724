package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClientCount(t *testing.T, hub *Hub, userID uint64, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		got := len(hub.userClients[userID])
		hub.mu.RUnlock()
		if got == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("у userID %d не дождались %d клиентов в хабе", userID, want)
}

// Клиент без работающего WritePump не должен останавливать рассылку:
// когда его буфер переполнен, сообщения уходят мимо, а сам клиент
// снимается с учёта.
func TestHub_SendMessageToUserDoesNotBlockOnStalledClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stalled := NewClient(hub, nil, 7)
	hub.Register <- stalled
	waitForClientCount(t, hub, 7, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Ёмкость буфера — 256; избыток обязан отбрасываться без блокировки.
		for i := 0; i < 300; i++ {
			_ = hub.SendMessageToUser(7, map[string]int{"seq": i}, MessageTypeNotify)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("рассылка зависла на клиенте с переполненным буфером")
	}

	// Переполнившийся клиент в итоге отсоединяется.
	waitForClientCount(t, hub, 7, 0)
}

func TestHub_StalledClientDoesNotStarveOthers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stalled := NewClient(hub, nil, 7)
	hub.Register <- stalled

	healthy := NewClient(hub, nil, 8)
	hub.Register <- healthy
	waitForClientCount(t, hub, 7, 1)
	waitForClientCount(t, hub, 8, 1)

	received := make(chan []byte, 16)
	go func() {
		for msg := range healthy.Send {
			received <- msg
		}
	}()

	for i := 0; i < 300; i++ {
		require.NoError(t, hub.SendMessageToUser(7, map[string]int{"seq": i}, MessageTypeNotify))
	}
	require.NoError(t, hub.SendMessageToUser(8, map[string]string{"hello": "мир"}, MessageTypeNotify))

	select {
	case msg := <-received:
		assert.Contains(t, string(msg), MessageTypeNotify)
	case <-time.After(2 * time.Second):
		t.Fatal("живой клиент не получил сообщение после зависшего соседа")
	}
}
