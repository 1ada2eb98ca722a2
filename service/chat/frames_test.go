package chat

import (
	"encoding/json"
	"testing"
)

func TestParseFrameJSON(t *testing.T) {
	raw := []byte(`{"event":"send_message","data":{"sender_id":"u1","content":"hi"}}`)
	f, err := ParseFrameJSON(raw)
	if err != nil {
		t.Fatalf("ParseFrameJSON: %v", err)
	}
	if f.Event != EventSendMessage {
		t.Fatalf("event = %q", f.Event)
	}

	req, err := DecodeSendMessage(f.Data)
	if err != nil {
		t.Fatalf("DecodeSendMessage: %v", err)
	}
	if req.SenderID != "u1" || req.Content != "hi" {
		t.Fatalf("decoded = %+v", req)
	}
}

func TestParseFrameJSONErrors(t *testing.T) {
	if _, err := ParseFrameJSON([]byte(`not json`)); err == nil {
		t.Fatal("want error on bad json")
	}
	if _, err := ParseFrameJSON([]byte(`{"data":{}}`)); err == nil {
		t.Fatal("want error on missing event")
	}
}

func TestDecodeSetupForms(t *testing.T) {
	// 字符串形态（socket.io 客户端原样传 user id）
	uid, err := DecodeSetup(json.RawMessage(`" u42 "`))
	if err != nil || uid != "u42" {
		t.Fatalf("string form = %q, %v", uid, err)
	}
	// 对象形态
	uid, err = DecodeSetup(json.RawMessage(`{"user_id":"u7"}`))
	if err != nil || uid != "u7" {
		t.Fatalf("object form = %q, %v", uid, err)
	}
}

func TestBuildFrameRoundTrip(t *testing.T) {
	b, err := BuildFrame(EventReceiveMessage, map[string]string{"id": "1"})
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	f, err := ParseFrameJSON(b)
	if err != nil {
		t.Fatalf("ParseFrameJSON: %v", err)
	}
	if f.Event != EventReceiveMessage {
		t.Fatalf("event = %q", f.Event)
	}
}

func TestBuildConnectedAck(t *testing.T) {
	f, err := ParseFrameJSON(BuildConnectedAck())
	if err != nil || f.Event != EventConnected {
		t.Fatalf("ack = %+v, %v", f, err)
	}
}
