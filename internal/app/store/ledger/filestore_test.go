package ledgerstore_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	ledgerstore "github.com/wonyeong0810/studyBot/internal/app/store/ledger"
	"github.com/wonyeong0810/studyBot/internal/testutil"
	"go.uber.org/zap"
)

func newFileStore(t *testing.T) ledgerstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	store, err := ledgerstore.NewFileStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStore_Contract(t *testing.T) {
	runContract(t, newFileStore)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store, err := ledgerstore.NewFileStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice", "bob")
	if err := store.RecordSubmission(ctx, "g1", "2026-08-28", "alice"); err != nil {
		t.Fatalf("RecordSubmission: %v", err)
	}
	if _, err := store.AssessPenalties(ctx, "g1", "2026-08-28"); err != nil {
		t.Fatalf("AssessPenalties: %v", err)
	}

	// Reload from disk into a fresh store.
	reloaded, err := ledgerstore.NewFileStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if ch, _ := reloaded.Channel(ctx, "g1"); ch != "chan-1" {
		t.Errorf("channel: got %q, want chan-1", ch)
	}
	if ok, _ := reloaded.IsParticipant(ctx, "g1", "bob"); !ok {
		t.Error("bob should still be a participant")
	}
	if ok, _ := reloaded.HasSubmitted(ctx, "g1", "2026-08-28", "alice"); !ok {
		t.Error("alice's submission should survive reload")
	}
	if bal, _ := reloaded.BalanceOf(ctx, "g1", "bob"); bal != 1000 {
		t.Errorf("bob balance: got %d, want 1000", bal)
	}

	board, _ := store.Leaderboard(ctx, "g1", 10)
	reloadedBoard, _ := reloaded.Leaderboard(ctx, "g1", 10)
	if !reflect.DeepEqual(board, reloadedBoard) {
		t.Errorf("leaderboard changed across reload: %v vs %v", board, reloadedBoard)
	}
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store, err := ledgerstore.NewFileStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore on corrupt file: %v", err)
	}

	ids, err := store.Communities(context.Background())
	if err != nil {
		t.Fatalf("Communities: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("corrupt file should load as empty state, got %v", ids)
	}
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store, err := ledgerstore.NewFileStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.AddParticipant(ctx, "g1", "alice"); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp.") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "ledger.json")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store, err := ledgerstore.NewFileStore(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.BindChannel(ctx, "g1", "chan-1"); err != nil {
		t.Fatalf("BindChannel: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("ledger file not written: %v", err)
	}
}
