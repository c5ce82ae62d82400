package ws_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"foodhouse/internal/dto"
	"foodhouse/internal/model"
	"foodhouse/internal/ws"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// connPair opens a real websocket and hands back both ends: the server side
// (what the hub holds) and the client side (what a device reads).
func connPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("server side of websocket never arrived")
	}
	return server, client
}

func cartPayload(sessionID uuid.UUID, version int64) *dto.CartResponse {
	return &dto.CartResponse{SessionID: sessionID.String(), Version: version}
}

// Many mutations can fan out to the same device at once; every write must
// land on the socket without tripping the one-writer-per-connection rule.
func TestConcurrentBroadcastsToOneSubscriber(t *testing.T) {
	hub := ws.NewHub()
	sessionID := uuid.New()
	server, client := connPair(t)
	hub.SubscribeSession(sessionID, server)

	const broadcasts = 16
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func(version int64) {
			defer wg.Done()
			hub.PublishCart(sessionID, cartPayload(sessionID, version))
		}(int64(i))
	}
	// A reconnect snapshot races the broadcasts through the same lock.
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, hub.SendTo(server, ws.Message{
			Event: ws.EventCartUpdate,
			Data:  cartPayload(sessionID, 0),
		}))
	}()

	received := 0
	for received < broadcasts+1 {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg ws.Message
		require.NoError(t, client.ReadJSON(&msg))
		assert.Equal(t, ws.EventCartUpdate, msg.Event)
		received++
	}
	wg.Wait()

	assert.Equal(t, 1, hub.SessionSubscriberCount(sessionID))
}

func TestKitchenBroadcastScopedToStore(t *testing.T) {
	hub := ws.NewHub()
	storeA, storeB := uuid.New(), uuid.New()
	serverA, clientA := connPair(t)
	serverB, clientB := connPair(t)
	hub.SubscribeStore(storeA, serverA)
	hub.SubscribeStore(storeB, serverB)

	orderID := uuid.New()
	hub.PublishOrderStatus(storeA, orderID, 7, model.StatusPreparing)

	require.NoError(t, clientA.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, clientA.ReadJSON(&msg))
	assert.Equal(t, ws.EventOrderStatus, msg.Event)

	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, orderID.String(), data["order_id"])
	assert.Equal(t, string(model.StatusPreparing), data["status"])

	// The other store's display hears nothing.
	require.NoError(t, clientB.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	var stray ws.Message
	assert.Error(t, clientB.ReadJSON(&stray))
}

func TestUnsubscribeDropsAllTopics(t *testing.T) {
	hub := ws.NewHub()
	sessionID, storeID := uuid.New(), uuid.New()
	server, _ := connPair(t)
	hub.SubscribeSession(sessionID, server)
	hub.SubscribeStore(storeID, server)
	require.Equal(t, 1, hub.SessionSubscriberCount(sessionID))

	hub.Unsubscribe(server)
	assert.Equal(t, 0, hub.SessionSubscriberCount(sessionID))

	// Broadcasting into empty topics is a no-op, not a fault.
	hub.PublishCart(sessionID, cartPayload(sessionID, 1))
	hub.PublishOrderStatus(storeID, uuid.New(), 1, model.StatusReady)

	// Unsubscribing twice is harmless.
	hub.Unsubscribe(server)
}
