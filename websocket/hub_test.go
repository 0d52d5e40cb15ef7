package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harshith2312008/leon-chat-app/models"
)

func testClient(id, userID string, buffer int) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		Send:   make(chan []byte, buffer),
	}
}

func receivedEvent(t *testing.T, c *Client) *models.Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var ev models.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return &ev
	default:
		t.Fatal("no event on send channel")
		return nil
	}
}

func TestRegisterAndPublish(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	c := testClient("c1", "u1", 4)
	hub.Register(c)

	if !hub.IsOnline("u1") {
		t.Fatal("u1 not online after register")
	}
	if !hub.Publish("u1", &models.Event{Event: models.EventPong}) {
		t.Fatal("Publish returned false for online user")
	}
	if ev := receivedEvent(t, c); ev.Event != models.EventPong {
		t.Fatalf("got event %q, want pong", ev.Event)
	}
}

func TestRegisterIdempotentPerConnection(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	c := testClient("c1", "u1", 4)
	hub.Register(c)
	hub.Register(c)

	if got := len(hub.ConnectionsFor("u1")); got != 1 {
		t.Fatalf("u1 has %d connections after double register, want 1", got)
	}
}

func TestPublishOfflineUser(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)

	if hub.Publish("ghost", &models.Event{Event: models.EventPong}) {
		t.Fatal("Publish returned true for user with no connections")
	}
}

func TestMultiDeviceFanOut(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	phone := testClient("c1", "u1", 4)
	laptop := testClient("c2", "u1", 4)
	hub.Register(phone)
	hub.Register(laptop)

	if !hub.Publish("u1", &models.Event{Event: models.EventReceiveMessage}) {
		t.Fatal("Publish returned false")
	}
	for _, c := range []*Client{phone, laptop} {
		if ev := receivedEvent(t, c); ev.Event != models.EventReceiveMessage {
			t.Fatalf("connection %s got event %q, want receive_message", c.ID, ev.Event)
		}
	}
}

func TestPublishExceptSkipsOrigin(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	origin := testClient("c1", "u1", 4)
	other := testClient("c2", "u1", 4)
	hub.Register(origin)
	hub.Register(other)

	if !hub.PublishExcept("u1", "c1", &models.Event{Event: models.EventMessageSent}) {
		t.Fatal("PublishExcept returned false")
	}
	if len(origin.Send) != 0 {
		t.Fatal("origin connection received its own echo")
	}
	if ev := receivedEvent(t, other); ev.Event != models.EventMessageSent {
		t.Fatalf("other connection got event %q, want message_sent", ev.Event)
	}
}

func TestStalledConnectionDropsEventOnly(t *testing.T) {
	hub := NewHub(10 * time.Millisecond)
	stalled := testClient("c1", "u1", 0)
	healthy := testClient("c2", "u1", 4)
	hub.Register(stalled)
	hub.Register(healthy)

	start := time.Now()
	delivered := hub.Publish("u1", &models.Event{Event: models.EventReceiveMessage})
	elapsed := time.Since(start)

	if !delivered {
		t.Fatal("Publish returned false despite a healthy connection")
	}
	if len(healthy.Send) != 1 {
		t.Fatal("healthy connection did not receive the event")
	}
	if elapsed > time.Second {
		t.Fatalf("publish blocked for %v on a stalled connection", elapsed)
	}
	// The stalled connection stays registered: unreachable for this
	// event, not disconnected.
	if got := len(hub.ConnectionsFor("u1")); got != 2 {
		t.Fatalf("u1 has %d connections after stall, want 2", got)
	}
}

func TestUnregisterIsSafeToRepeat(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	c := testClient("c1", "u1", 4)
	hub.Register(c)

	hub.Unregister(c)
	hub.Unregister(c)

	if hub.IsOnline("u1") {
		t.Fatal("u1 still online after unregister")
	}
	if hub.Publish("u1", &models.Event{Event: models.EventPong}) {
		t.Fatal("Publish returned true after all connections unregistered")
	}
}

func TestUnregisterOneOfManyConnections(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	phone := testClient("c1", "u1", 4)
	laptop := testClient("c2", "u1", 4)
	hub.Register(phone)
	hub.Register(laptop)

	hub.Unregister(phone)

	if !hub.IsOnline("u1") {
		t.Fatal("u1 offline while a connection remains")
	}
	if !hub.Publish("u1", &models.Event{Event: models.EventPong}) {
		t.Fatal("Publish returned false with one live connection")
	}
	if len(laptop.Send) != 1 {
		t.Fatal("remaining connection did not receive the event")
	}
}

func TestConnectionsForIsASnapshot(t *testing.T) {
	hub := NewHub(50 * time.Millisecond)
	c := testClient("c1", "u1", 4)
	hub.Register(c)

	snapshot := hub.ConnectionsFor("u1")
	hub.Unregister(c)

	if len(snapshot) != 1 {
		t.Fatalf("snapshot mutated by later unregister: %d entries", len(snapshot))
	}
	if len(hub.ConnectionsFor("u1")) != 0 {
		t.Fatal("live view still has connections after unregister")
	}
}
