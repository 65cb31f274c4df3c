package store

import (
	"context"
	"testing"
)

func TestActivityLog_AppendAndRecent(t *testing.T) {
	t.Setenv("RETRIEVEX_CONFIG_DIR", t.TempDir())
	ctx := context.Background()

	log, err := OpenActivityLog(ctx)
	if err != nil {
		t.Fatalf("OpenActivityLog: %v", err)
	}
	defer log.Close()

	if err := log.Append(ctx, "login", map[string]any{"username": "u"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(ctx, "chat_send", map[string]any{"notebook_id": 3}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(ctx, "navigate", nil); err != nil {
		t.Fatalf("Append nil data: %v", err)
	}

	got, err := log.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 activities; got %d", len(got))
	}
	// Newest first.
	if got[0].Type != "navigate" || got[2].Type != "login" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[2].Data["username"] != "u" {
		t.Fatalf("payload lost: %+v", got[2])
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatal("timestamp missing")
	}
}

func TestActivityLog_RecentHonorsLimit(t *testing.T) {
	t.Setenv("RETRIEVEX_CONFIG_DIR", t.TempDir())
	ctx := context.Background()

	log, err := OpenActivityLog(ctx)
	if err != nil {
		t.Fatalf("OpenActivityLog: %v", err)
	}
	defer log.Close()

	for i := 0; i < 5; i++ {
		if err := log.Append(ctx, "navigate", nil); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := log.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2; got %d", len(got))
	}
}
