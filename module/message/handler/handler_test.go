package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tuta081098/chat-moji/module/chat/model"
	chatsvc "github.com/tuta081098/chat-moji/module/chat/service"
	chat "github.com/tuta081098/chat-moji/service/chat"
	"github.com/tuta081098/chat-moji/tools/errs"
)

// memStore 只实现处理器路径会碰到的方法。
type memStore struct {
	messages   []*model.Message
	failCreate bool
}

func (m *memStore) CreateMessage(_ context.Context, msg *model.Message) (string, error) {
	if m.failCreate {
		return "", errs.ErrDatabase.WrapMsg("down")
	}
	m.messages = append(m.messages, msg)
	return msg.ID, nil
}

func (m *memStore) GetConversation(context.Context, string) (*model.Conversation, error) {
	return nil, errs.ErrRecordNotFound.WrapMsg("conversation")
}

func (m *memStore) SaveConversation(context.Context, *model.Conversation) error { return nil }

func (m *memStore) CreateConversation(_ context.Context, conv *model.Conversation) (string, error) {
	return conv.ID, nil
}

func (m *memStore) FindDirectConversation(context.Context, string, string) (*model.Conversation, error) {
	return nil, errs.ErrRecordNotFound.WrapMsg("direct conversation")
}

func (m *memStore) ListMessages(context.Context, string, int64, int64) ([]*model.Message, error) {
	return nil, nil
}

func recvFrame(t *testing.T, c *chat.WsConn) *chat.Frame {
	t.Helper()
	select {
	case data := <-c.Send:
		f, err := chat.ParseFrameJSON(data)
		if err != nil {
			t.Fatalf("bad frame %s: %v", data, err)
		}
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *chat.WsConn) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected frame: %s", data)
	default:
	}
}

func setupFrame(t *testing.T, userID string) *chat.Frame {
	t.Helper()
	raw, err := chat.BuildFrame(chat.EventSetup, userID)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	f, err := chat.ParseFrameJSON(raw)
	if err != nil {
		t.Fatalf("ParseFrameJSON: %v", err)
	}
	return f
}

func sendFrame(t *testing.T, data chat.SendMessageData) *chat.Frame {
	t.Helper()
	raw, err := chat.BuildFrame(chat.EventSendMessage, data)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	f, err := chat.ParseFrameJSON(raw)
	if err != nil {
		t.Fatalf("ParseFrameJSON: %v", err)
	}
	return f
}

func TestSetupBindsAndAcksOrigin(t *testing.T) {
	s := chat.NewServer("gw-test")
	c, other := chat.NewWsConn(nil), chat.NewWsConn(nil)
	s.Registry().Join("u9", other)

	h := &SetupHandler{}
	if err := h.Handle(&chat.ChatContext{S: s}, setupFrame(t, "u1"), c); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if got := s.Registry().Lookup("u1"); len(got) != 1 || got[0] != c {
		t.Fatalf("Lookup after setup = %v", got)
	}
	if f := recvFrame(t, c); f.Event != chat.EventConnected {
		t.Fatalf("ack event = %q", f.Event)
	}
	// 回执不广播
	assertNoFrame(t, other)
}

func TestSetupRebind(t *testing.T) {
	s := chat.NewServer("gw-test")
	c := chat.NewWsConn(nil)
	h := &SetupHandler{}

	_ = h.Handle(&chat.ChatContext{S: s}, setupFrame(t, "u1"), c)
	<-c.Send // 第一次回执
	_ = h.Handle(&chat.ChatContext{S: s}, setupFrame(t, "u2"), c)

	if got := s.Registry().Lookup("u1"); len(got) != 0 {
		t.Fatalf("old identity still bound: %v", got)
	}
	if got := s.Registry().Lookup("u2"); len(got) != 1 {
		t.Fatalf("new identity not bound: %v", got)
	}
}

func TestSetupRejectsEmptyUser(t *testing.T) {
	s := chat.NewServer("gw-test")
	c := chat.NewWsConn(nil)
	h := &SetupHandler{}

	if err := h.Handle(&chat.ChatContext{S: s}, setupFrame(t, "  "), c); !errors.Is(err, errs.ErrArgs) {
		t.Fatalf("err = %v, want ErrArgs", err)
	}
	assertNoFrame(t, c)
}

func TestSendMessageEndToEnd(t *testing.T) {
	st := &memStore{}
	s := chat.NewServer("gw-test")
	h := NewSendMessageHandler(chatsvc.NewIngestor(st, nil))

	r1, r2, origin := chat.NewWsConn(nil), chat.NewWsConn(nil), chat.NewWsConn(nil)
	s.Registry().Join("u2", r1)
	s.Registry().Join("u2", r2)
	s.Registry().Join("u1", origin)

	f := sendFrame(t, chat.SendMessageData{SenderID: "u1", ReceiverID: "u2", Content: "hello"})
	if err := h.Handle(&chat.ChatContext{S: s}, f, origin); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(st.messages) != 1 {
		t.Fatalf("persisted %d messages, want 1", len(st.messages))
	}

	// 接收方所有连接 + 发送连接各一帧，载荷一致
	for _, c := range []*chat.WsConn{r1, r2, origin} {
		got := recvFrame(t, c)
		if got.Event != chat.EventReceiveMessage {
			t.Fatalf("event = %q", got.Event)
		}
		var p model.OutboundPayload
		if err := json.Unmarshal(got.Data, &p); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if p.SenderID != "u1" || p.ReceiverID != "u2" || p.Content != "hello" || p.ID == "" {
			t.Fatalf("payload = %+v", p)
		}
	}
}

func TestSendMessageInvalidDroppedSilently(t *testing.T) {
	st := &memStore{}
	s := chat.NewServer("gw-test")
	h := NewSendMessageHandler(chatsvc.NewIngestor(st, nil))
	origin := chat.NewWsConn(nil)

	f := sendFrame(t, chat.SendMessageData{SenderID: "u1", Content: ""})
	if err := h.Handle(&chat.ChatContext{S: s}, f, origin); err != nil {
		t.Fatalf("invalid event must be swallowed, got %v", err)
	}
	if len(st.messages) != 0 {
		t.Fatalf("invalid event persisted")
	}
	assertNoFrame(t, origin)
}

func TestSendMessageStorageFailureNoDelivery(t *testing.T) {
	st := &memStore{failCreate: true}
	s := chat.NewServer("gw-test")
	h := NewSendMessageHandler(chatsvc.NewIngestor(st, nil))
	origin := chat.NewWsConn(nil)

	f := sendFrame(t, chat.SendMessageData{SenderID: "u1", ReceiverID: "u2", Content: "hi"})
	if err := h.Handle(&chat.ChatContext{S: s}, f, origin); !errors.Is(err, errs.ErrDatabase) {
		t.Fatalf("err = %v, want ErrDatabase", err)
	}
	assertNoFrame(t, origin)
}
