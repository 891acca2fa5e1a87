package state_test

import (
	"context"
	"testing"

	"github.com/glowbotai/glowbot/internal/state"
	"github.com/glowbotai/glowbot/internal/testutil"
)

func TestGetOrCreateIsLazy(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	store := state.NewStore(db)
	ctx := context.Background()

	conv, err := store.GetOrCreate(ctx, "+15550001111", "Dana")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if conv.Identity != "+15550001111" || conv.DisplayName != "Dana" {
		t.Fatalf("unexpected record: %+v", conv)
	}
	if conv.Profile != nil || conv.Phase != "" {
		t.Fatalf("fresh record must be empty: %+v", conv)
	}

	again, err := store.GetOrCreate(ctx, "+15550001111", "")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.CreatedAt != conv.CreatedAt {
		t.Fatalf("second call must load, not recreate")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	store := state.NewStore(db)
	ctx := context.Background()

	conv, err := store.GetOrCreate(ctx, "+15550002222", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	conv.Profile = []byte(`{"language":"english"}`)
	conv.Phase = "reviewing"
	conv.History = []byte(`[{"kind":"request","content":"hi"}]`)
	conv.Routine = []byte(`{"narrative_summary":"plan"}`)
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "+15550002222")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phase != "reviewing" {
		t.Fatalf("phase: got %q", got.Phase)
	}
	if string(got.Profile) != `{"language":"english"}` {
		t.Fatalf("profile blob mismatch: %s", got.Profile)
	}
	if string(got.Routine) != `{"narrative_summary":"plan"}` {
		t.Fatalf("routine blob mismatch: %s", got.Routine)
	}
}

func TestSaveUnknownIdentityFails(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	store := state.NewStore(db)

	err := store.Save(context.Background(), state.Conversation{Identity: "+15559999999"})
	if err == nil {
		t.Fatalf("expected error saving a never-created identity")
	}
}

func TestMessageLogAppend(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	store := state.NewStore(db)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, "+15550003333", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.LogMessage(ctx, "+15550003333", state.RoleUser, "hello", ""); err != nil {
		t.Fatalf("log user: %v", err)
	}
	if err := store.LogMessage(ctx, "+15550003333", state.RoleAssistant, "hi!", ""); err != nil {
		t.Fatalf("log assistant: %v", err)
	}

	n, err := store.MessageCount(ctx, "+15550003333")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 logged messages, got %d", n)
	}
}
