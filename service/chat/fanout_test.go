package chat

import (
	"testing"
	"time"
)

func recvOne(t *testing.T, c *WsConn) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatalf("no frame received")
		return nil
	}
}

func assertEmpty(t *testing.T, c *WsConn) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected frame: %s", data)
	default:
	}
}

func TestDeliverFanoutAndEcho(t *testing.T) {
	s := NewServer("gw-test")
	c1, c2, c3 := newTestConn(), newTestConn(), newTestConn()

	s.Registry().Join("u1", c1)
	s.Registry().Join("u1", c2)
	// c3 不属于 u1，仍应收到回显

	payload := []byte(`{"event":"receive_message"}`)
	s.Deliver(payload, "u1", c3)

	for _, c := range []*WsConn{c1, c2, c3} {
		if got := recvOne(t, c); string(got) != string(payload) {
			t.Fatalf("conn got %s, want %s", got, payload)
		}
	}
}

func TestDeliverReceiverOffline(t *testing.T) {
	s := NewServer("gw-test")
	origin := newTestConn()

	// 接收方无任何连接：不报错，只回显
	s.Deliver([]byte("x"), "ghost", origin)
	if got := recvOne(t, origin); string(got) != "x" {
		t.Fatalf("origin got %s, want x", got)
	}
}

func TestDeliverNoReceiverHint(t *testing.T) {
	s := NewServer("gw-test")
	c1, origin := newTestConn(), newTestConn()
	s.Registry().Join("u1", c1)

	s.Deliver([]byte("y"), "", origin)
	if got := recvOne(t, origin); string(got) != "y" {
		t.Fatalf("origin got %s, want y", got)
	}
	assertEmpty(t, c1)
}

func TestPushDropsWhenQueueFull(t *testing.T) {
	c := newTestConn()
	for i := 0; i < sendQueueSize; i++ {
		c.Push([]byte("fill"))
	}
	// 队列已满：Push 不阻塞、直接丢弃
	done := make(chan struct{})
	go func() {
		c.Push([]byte("overflow"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Push blocked on full queue")
	}
}

func TestPushAfterClose(t *testing.T) {
	c := newTestConn()
	c.Close()
	c.Push([]byte("late")) // 不得 panic 或阻塞
}
