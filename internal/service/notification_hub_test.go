package service

import (
	"encoding/json"
	"python_tutor_backend/internal/model"
	"testing"
	"time"
)

func startTestHub(t *testing.T) *NotificationHub {
	t.Helper()
	hub := NewNotificationHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func connectTestClient(t *testing.T, hub *NotificationHub, userID uint, role model.UserRole) *Client {
	t.Helper()
	c := &Client{Hub: hub, Send: make(chan []byte, 8), UserID: userID, Role: role}
	hub.register <- c
	waitFor(t, func() bool {
		s := hub.getShard(userID)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.clients[userID] == c
	})
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func received(c *Client) []Notification {
	var out []Notification
	for {
		select {
		case raw := <-c.Send:
			var n Notification
			json.Unmarshal(raw, &n)
			out = append(out, n)
		default:
			return out
		}
	}
}

func TestNotificationHub_PushToUsers(t *testing.T) {
	hub := startTestHub(t)
	alice := connectTestClient(t, hub, 1, model.Student)
	bob := connectTestClient(t, hub, 2, model.Student)

	hub.PushToUsers([]uint{1, 99}, Notification{Type: NotifyMessageAnswered, Data: map[string]uint{"messageId": 7}})

	if got := received(alice); len(got) != 1 || got[0].Type != NotifyMessageAnswered {
		t.Errorf("alice received %+v", got)
	}
	if got := received(bob); len(got) != 0 {
		t.Errorf("bob received %+v, want nothing", got)
	}
}

func TestNotificationHub_PushToRole(t *testing.T) {
	hub := startTestHub(t)
	student := connectTestClient(t, hub, 1, model.Student)
	prof := connectTestClient(t, hub, 2, model.Professor)
	admin := connectTestClient(t, hub, 3, model.Admin)

	hub.PushToRole(model.Professor, Notification{Type: NotifyNewMessage})

	if len(received(prof)) != 1 {
		t.Error("professor did not receive the role notification")
	}
	if len(received(admin)) != 1 {
		t.Error("admin did not receive the role notification")
	}
	if len(received(student)) != 0 {
		t.Error("student received a professor notification")
	}
}

func TestNotificationHub_Broadcast(t *testing.T) {
	hub := startTestHub(t)
	clients := []*Client{
		connectTestClient(t, hub, 1, model.Student),
		connectTestClient(t, hub, 40, model.Student),
		connectTestClient(t, hub, 2, model.Professor),
	}

	hub.Broadcast(Notification{Type: NotifyAnnouncement})

	for _, c := range clients {
		if got := received(c); len(got) != 1 || got[0].Type != NotifyAnnouncement {
			t.Errorf("user %d received %+v", c.UserID, got)
		}
	}
}

func TestNotificationHub_ReplacesConnection(t *testing.T) {
	hub := startTestHub(t)
	old := connectTestClient(t, hub, 5, model.Student)
	fresh := connectTestClient(t, hub, 5, model.Student)

	if _, ok := <-old.Send; ok {
		t.Error("replaced connection still open")
	}
	if !hub.IsOnline(5) {
		t.Fatal("user 5 offline after reconnect")
	}

	hub.PushToUsers([]uint{5}, Notification{Type: NotifyAnnouncement})
	if len(received(fresh)) != 1 {
		t.Error("new connection did not receive the notification")
	}

	// the stale client unregistering must not drop the live one
	hub.unregister <- old
	time.Sleep(20 * time.Millisecond)
	if !hub.IsOnline(5) {
		t.Error("stale unregister removed the live connection")
	}

	hub.unregister <- fresh
	waitFor(t, func() bool { return !hub.IsOnline(5) })
}
