package service

import (
	"context"
	"testing"
	"time"

	"github.com/tuta081098/chat-moji/module/chat/model"
)

func seedDirectConv(st *fakeStore, id, a, b string) {
	st.conversations[id] = &model.Conversation{
		ID:      id,
		Type:    model.ConvTypeDirect,
		Members: []string{a, b},
	}
}

func seedMessage(st *fakeStore, convID, sender, content string, at time.Time) {
	st.messages = append(st.messages, &model.Message{
		ID:             content, // 测试里用内容当 id，便于断言
		ConversationID: convID,
		SenderID:       sender,
		Content:        content,
		CreatedAt:      at,
	})
}

func TestHistoryListBetweenChronological(t *testing.T) {
	st := newFakeStore()
	seedDirectConv(st, "conv1", "A", "B")
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"m1", "m2", "m3"} {
		seedMessage(st, "conv1", "A", content, base.Add(time.Duration(i)*time.Minute))
	}

	h := NewHistoryService(st, nil)
	page, err := h.ListBetween(context.Background(), "B", "A", 20, 0)
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("page len = %d, want 3", len(page))
	}
	// 返回时间正序
	for i, want := range []string{"m1", "m2", "m3"} {
		if page[i].Content != want {
			t.Fatalf("page[%d] = %q, want %q", i, page[i].Content, want)
		}
	}
}

func TestHistoryPagingAnchorsLatest(t *testing.T) {
	st := newFakeStore()
	seedDirectConv(st, "conv1", "A", "B")
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		seedMessage(st, "conv1", "A", "m"+string(rune('0'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	h := NewHistoryService(st, nil)
	// limit=2, skip=0 → 最近两条，时间正序
	page, err := h.ListBetween(context.Background(), "A", "B", 2, 0)
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(page) != 2 || page[0].Content != "m4" || page[1].Content != "m5" {
		t.Fatalf("first page = %v", views(page))
	}
	// 下一页往更早方向翻
	page, err = h.ListBetween(context.Background(), "A", "B", 2, 2)
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if len(page) != 2 || page[0].Content != "m2" || page[1].Content != "m3" {
		t.Fatalf("second page = %v", views(page))
	}
}

func TestHistoryNoConversationEmptyPage(t *testing.T) {
	st := newFakeStore()
	h := NewHistoryService(st, nil)

	page, err := h.ListBetween(context.Background(), "A", "stranger", 20, 0)
	if err != nil {
		t.Fatalf("ListBetween: %v", err)
	}
	if page == nil || len(page) != 0 {
		t.Fatalf("page = %v, want empty non-nil", page)
	}
}

func TestHistoryDisplayTimezone(t *testing.T) {
	st := newFakeStore()
	seedDirectConv(st, "conv1", "A", "B")
	seedMessage(st, "conv1", "A", "m1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	h := NewHistoryService(st, time.FixedZone("UTC+7", 7*3600))
	page, err := h.ListBetween(context.Background(), "A", "B", 20, 0)
	if err != nil || len(page) != 1 {
		t.Fatalf("page = %v, %v", page, err)
	}
	if page[0].CreatedAt != "2025-06-01T17:00:00+07:00" {
		t.Fatalf("created_at = %q", page[0].CreatedAt)
	}
}

func views(page []*MessageView) []string {
	out := make([]string, len(page))
	for i, v := range page {
		out[i] = v.Content
	}
	return out
}

func TestOpenDirectCreatesThenReuses(t *testing.T) {
	st := newFakeStore()
	svc := NewConversationService(st)

	id1, reused, err := svc.OpenDirect(context.Background(), "A", "B")
	if err != nil || reused {
		t.Fatalf("first open: id=%q reused=%v err=%v", id1, reused, err)
	}
	id2, reused, err := svc.OpenDirect(context.Background(), "B", "A")
	if err != nil || !reused {
		t.Fatalf("second open: reused=%v err=%v", reused, err)
	}
	if id1 != id2 {
		t.Fatalf("ids differ: %q vs %q", id1, id2)
	}
}

func TestOpenDirectValidation(t *testing.T) {
	svc := NewConversationService(newFakeStore())
	if _, _, err := svc.OpenDirect(context.Background(), "", "B"); err == nil {
		t.Fatal("want error on empty userID")
	}
	if _, _, err := svc.OpenDirect(context.Background(), "A", ""); err == nil {
		t.Fatal("want error on empty participantID")
	}
}
