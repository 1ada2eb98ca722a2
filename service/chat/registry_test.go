package chat

import (
	"sync"
	"testing"
)

func newTestConn() *WsConn {
	return NewWsConn(nil)
}

func contains(conns []*WsConn, c *WsConn) bool {
	for _, x := range conns {
		if x == c {
			return true
		}
	}
	return false
}

func TestRegistryJoinLookupLeave(t *testing.T) {
	r := NewRegistry()
	c := newTestConn()

	r.Join("u1", c)
	if got := r.Lookup("u1"); len(got) != 1 || !contains(got, c) {
		t.Fatalf("Lookup after Join = %v, want [c]", got)
	}
	if c.UserID() != "u1" {
		t.Fatalf("conn user = %q, want u1", c.UserID())
	}

	r.Leave(c)
	if got := r.Lookup("u1"); len(got) != 0 {
		t.Fatalf("Lookup after Leave = %v, want empty", got)
	}
	if c.UserID() != "" {
		t.Fatalf("conn user after leave = %q, want empty", c.UserID())
	}
}

func TestRegistryLeaveIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newTestConn()

	// 未 Join 直接 Leave：no-op
	r.Leave(c)

	r.Join("u1", c)
	r.Leave(c)
	r.Leave(c)
	if got := r.CountUser("u1"); got != 0 {
		t.Fatalf("CountUser = %d, want 0", got)
	}
}

func TestRegistryLookupUnknownUser(t *testing.T) {
	r := NewRegistry()
	if got := r.Lookup("nobody"); got == nil || len(got) != 0 {
		t.Fatalf("Lookup unknown = %v, want empty non-nil", got)
	}
}

func TestRegistryRejoinSameIdentity(t *testing.T) {
	r := NewRegistry()
	c := newTestConn()

	r.Join("u1", c)
	r.Join("u1", c) // setup 重发，无需先 Leave
	if got := r.Lookup("u1"); len(got) != 1 {
		t.Fatalf("Lookup after rejoin = %d conns, want 1", len(got))
	}
}

func TestRegistryRebindDifferentIdentity(t *testing.T) {
	r := NewRegistry()
	c := newTestConn()

	r.Join("u1", c)
	r.Join("u2", c)
	if got := r.Lookup("u1"); len(got) != 0 {
		t.Fatalf("old identity still has %d conns", len(got))
	}
	if got := r.Lookup("u2"); len(got) != 1 || !contains(got, c) {
		t.Fatalf("new identity lookup = %v, want [c]", got)
	}
	if c.UserID() != "u2" {
		t.Fatalf("conn user = %q, want u2", c.UserID())
	}
}

func TestRegistryMultipleConnectionsPerIdentity(t *testing.T) {
	r := NewRegistry()
	c1, c2 := newTestConn(), newTestConn()

	r.Join("u1", c1)
	r.Join("u1", c2)
	if got := r.Lookup("u1"); len(got) != 2 {
		t.Fatalf("Lookup = %d conns, want 2", len(got))
	}

	r.Leave(c1)
	got := r.Lookup("u1")
	if len(got) != 1 || !contains(got, c2) {
		t.Fatalf("after leaving c1, Lookup = %v, want [c2]", got)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestConn()
			r.Join("u1", c)
			r.Lookup("u1")
			r.Leave(c)
		}()
	}
	wg.Wait()

	if got := r.CountUser("u1"); got != 0 {
		t.Fatalf("CountUser after churn = %d, want 0", got)
	}
}
