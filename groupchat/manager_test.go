package groupchat_test

import (
	"context"
	"testing"

	"github.com/sweetpotato0/agentchat/agent"
	"github.com/sweetpotato0/agentchat/groupchat"
	"github.com/sweetpotato0/agentchat/groupchat/store"
	"github.com/sweetpotato0/agentchat/message"
)

func managerFixture(t *testing.T) (*groupchat.Manager, *agent.InMemoryRegistry) {
	t.Helper()
	registry := agent.NewInMemoryRegistry()
	registry.Register(agent.NewStatic("alpha", "", func(ctx context.Context, text string, history []*message.Message) (string, error) {
		return "ack", nil
	}))
	m := groupchat.NewManager(registry, groupchat.WithStore(store.NewInMemoryStore()))
	return m, registry
}

func sessionConfig() groupchat.ChatConfig {
	cfg := groupchat.DefaultChatConfig("managed chat")
	cfg.ResponseWaitTime = 0
	cfg.MaxTurns = 2
	return cfg
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := managerFixture(t)
	ctx := context.Background()

	gc, err := m.Create(ctx, "s1", sessionConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if gc.ID() != "s1" {
		t.Errorf("Expected session id s1, got %s", gc.ID())
	}

	if _, err := m.Create(ctx, "s1", sessionConfig()); err == nil {
		t.Error("Expected duplicate create to fail")
	}

	got, err := m.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != gc {
		t.Error("Expected cached session instance")
	}
}

func TestManagerGetMissing(t *testing.T) {
	m, _ := managerFixture(t)
	if _, err := m.Get(context.Background(), "nope"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestManagerGetOrCreate(t *testing.T) {
	m, _ := managerFixture(t)
	ctx := context.Background()

	gc, err := m.GetOrCreate(ctx, "s1", sessionConfig())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	again, err := m.GetOrCreate(ctx, "s1", sessionConfig())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if gc != again {
		t.Error("Expected the same session on repeat GetOrCreate")
	}
}

func TestManagerSaveAndRehydrate(t *testing.T) {
	registry := agent.NewInMemoryRegistry()
	registry.Register(agent.NewStatic("alpha", "", func(ctx context.Context, text string, history []*message.Message) (string, error) {
		return "ack", nil
	}))
	backing := store.NewInMemoryStore()
	m := groupchat.NewManager(registry, groupchat.WithStore(backing))
	ctx := context.Background()

	gc, err := m.Create(ctx, "s1", sessionConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := gc.AddParticipant("alpha", groupchat.RoleParticipant, 1, 3); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if _, err := gc.Send(ctx, "hello", "", nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := m.Save(ctx, gc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh manager over the same store sees the persisted state.
	m2 := groupchat.NewManager(registry, groupchat.WithStore(backing))
	restored, err := m2.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if restored.TurnCount() != gc.TurnCount() {
		t.Errorf("Expected turn count %d after rehydration, got %d", gc.TurnCount(), restored.TurnCount())
	}
	if len(restored.History()) != len(gc.History()) {
		t.Errorf("Expected %d history entries, got %d", len(gc.History()), len(restored.History()))
	}
	if len(restored.Participants()) != 1 {
		t.Errorf("Expected 1 participant after rehydration, got %d", len(restored.Participants()))
	}
}

func TestManagerRehydrateMissingAgent(t *testing.T) {
	registry := agent.NewInMemoryRegistry()
	registry.Register(agent.NewStatic("alpha", "", func(ctx context.Context, text string, history []*message.Message) (string, error) {
		return "ack", nil
	}))
	backing := store.NewInMemoryStore()
	m := groupchat.NewManager(registry, groupchat.WithStore(backing))
	ctx := context.Background()

	gc, err := m.Create(ctx, "s1", sessionConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := gc.AddParticipant("alpha", groupchat.RoleParticipant, 1, 3); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if err := m.Save(ctx, gc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	empty := agent.NewInMemoryRegistry()
	m2 := groupchat.NewManager(empty, groupchat.WithStore(backing))
	if _, err := m2.Get(ctx, "s1"); err == nil {
		t.Error("Expected rehydration to fail when a participant no longer resolves")
	}
}

func TestManagerDelete(t *testing.T) {
	m, _ := managerFixture(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, "s1", sessionConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	count, err := m.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 sessions after delete, got %d", count)
	}
}

func TestManagerList(t *testing.T) {
	m, _ := managerFixture(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2"} {
		if _, err := m.Create(ctx, id, sessionConfig()); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	ids, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(ids))
	}
}

func TestManagerWithoutStore(t *testing.T) {
	m := groupchat.NewManager(agent.NewInMemoryRegistry())
	if _, err := m.Create(context.Background(), "s1", sessionConfig()); err == nil {
		t.Error("Expected error without a configured store")
	}
	if _, err := m.List(context.Background()); err == nil {
		t.Error("Expected error without a configured store")
	}
}
