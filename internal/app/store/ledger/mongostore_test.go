package ledgerstore_test

import (
	"testing"

	ledgerstore "github.com/wonyeong0810/studyBot/internal/app/store/ledger"
	"github.com/wonyeong0810/studyBot/internal/testutil"
)

func newMongoStore(t *testing.T) ledgerstore.Store {
	t.Helper()
	return ledgerstore.NewMongoStore(testutil.SetupTestDB(t))
}

func TestMongoStore_Contract(t *testing.T) {
	runContract(t, newMongoStore)
}

func TestMongoStore_LazyDocumentCreation(t *testing.T) {
	store := newMongoStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The first mutation materializes the document.
	if err := store.RecordSubmission(ctx, "g1", "2026-08-28", "alice"); err != nil {
		t.Fatalf("RecordSubmission: %v", err)
	}

	ok, err := store.HasSubmitted(ctx, "g1", "2026-08-28", "alice")
	if err != nil {
		t.Fatalf("HasSubmitted: %v", err)
	}
	if !ok {
		t.Error("submission should be recorded on a lazily created document")
	}

	// The lazily created document behaves like an empty community.
	if ch, _ := store.Channel(ctx, "g1"); ch != "" {
		t.Errorf("channel: got %q, want empty", ch)
	}
	if ok, _ := store.IsParticipant(ctx, "g1", "alice"); ok {
		t.Error("recording a submission must not implicitly enroll")
	}
}
