package chat

import (
	"encoding/json"
	"strings"

	"github.com/tuta081098/chat-moji/tools/errs"
)

// 线上协议：文本帧，JSON 信封 {"event": "...", "data": ...}
// 入站事件：setup / send_message；出站事件：connected / receive_message。

const (
	EventSetup          = "setup"
	EventSendMessage    = "send_message"
	EventConnected      = "connected"
	EventReceiveMessage = "receive_message"
)

type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessageData send_message 的载荷。
type SendMessageData struct {
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id,omitempty"`
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
}

func ParseFrameJSON(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, errs.WrapMsg(err, "unmarshal frame failed")
	}
	if frame.Event == "" {
		return nil, errs.New("frame missing event")
	}
	return frame, nil
}

// DecodeSetup setup 的 data 兼容两种形态："<userId>" 或 {"user_id":"..."}
func DecodeSetup(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var obj struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", errs.WrapMsg(err, "decode setup payload")
	}
	return strings.TrimSpace(obj.UserID), nil
}

func DecodeSendMessage(data json.RawMessage) (*SendMessageData, error) {
	req := &SendMessageData{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, errs.WrapMsg(err, "decode send_message payload")
	}
	return req, nil
}

// BuildFrame 组装出站帧。
func BuildFrame(event string, v any) ([]byte, error) {
	var (
		data json.RawMessage
		err  error
	)
	if v != nil {
		data, err = json.Marshal(v)
		if err != nil {
			return nil, errs.WrapMsg(err, "marshal frame data", "event", event)
		}
	}
	return json.Marshal(&Frame{Event: event, Data: data})
}

// BuildConnectedAck setup 的一对一回执。
func BuildConnectedAck() []byte {
	b, _ := json.Marshal(&Frame{Event: EventConnected})
	return b
}
