package store

import (
	"context"
	"testing"
	"time"

	"github.com/sweetpotato0/agentchat/groupchat"
	"github.com/sweetpotato0/agentchat/message"
)

func testRecord(id string) *groupchat.Record {
	return &groupchat.Record{
		ID:     id,
		Config: groupchat.DefaultChatConfig("stored chat"),
		Participants: []groupchat.ParticipantInfo{
			{AgentName: "alpha", Role: groupchat.RoleParticipant, Priority: 1, MaxConsecutiveTurns: 3},
		},
		History:   []*message.Message{message.New(message.RoleUser, "hello")},
		TurnCount: 2,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestInMemoryStoreSaveLoad(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Save(ctx, testRecord("s1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != "s1" || loaded.TurnCount != 2 {
		t.Errorf("Unexpected record: %+v", loaded)
	}
	if len(loaded.History) != 1 || loaded.History[0].Content != "hello" {
		t.Errorf("Unexpected history: %+v", loaded.History)
	}
}

func TestInMemoryStoreIsolation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	record := testRecord("s1")
	if err := s.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	record.TurnCount = 99

	loaded, err := s.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TurnCount != 2 {
		t.Errorf("Expected stored copy unaffected by caller mutation, got %d", loaded.TurnCount)
	}

	loaded.History[0].Content = "changed"
	again, _ := s.Load(ctx, "s1")
	if again.History[0].Content != "hello" {
		t.Error("Expected loads to return independent copies")
	}
}

func TestInMemoryStoreValidation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Save(ctx, nil); err == nil {
		t.Error("Expected error saving nil record")
	}
	if err := s.Save(ctx, &groupchat.Record{}); err == nil {
		t.Error("Expected error saving record without id")
	}
	if _, err := s.Load(ctx, "missing"); err == nil {
		t.Error("Expected error loading unknown session")
	}
}

func TestInMemoryStoreLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"s1", "s2"} {
		if err := s.Save(ctx, testRecord(id)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	exists, err := s.Exists(ctx, "s1")
	if err != nil || !exists {
		t.Errorf("Expected s1 to exist, got %v/%v", exists, err)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(ids))
	}

	count, err := s.Count(ctx)
	if err != nil || count != 2 {
		t.Errorf("Expected count 2, got %d/%v", count, err)
	}

	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	exists, _ = s.Exists(ctx, "s1")
	if exists {
		t.Error("Expected s1 gone after delete")
	}
}
