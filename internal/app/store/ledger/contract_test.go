package ledgerstore_test

import (
	"context"
	"reflect"
	"testing"

	ledgerstore "github.com/wonyeong0810/studyBot/internal/app/store/ledger"
	"github.com/wonyeong0810/studyBot/internal/domain/models"
	"github.com/wonyeong0810/studyBot/internal/testutil"
)

// runContract exercises the full Store contract. Both backends run the
// same suite so their externally observable behavior cannot drift.
func runContract(t *testing.T, newStore func(t *testing.T) ledgerstore.Store) {
	t.Run("ChannelBinding", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		// Unknown community reads as unset, not an error.
		ch, err := store.Channel(ctx, "g1")
		if err != nil {
			t.Fatalf("Channel: %v", err)
		}
		if ch != "" {
			t.Errorf("unbound channel: got %q, want empty", ch)
		}

		if err := store.BindChannel(ctx, "g1", "chan-1"); err != nil {
			t.Fatalf("BindChannel: %v", err)
		}
		ch, err = store.Channel(ctx, "g1")
		if err != nil {
			t.Fatalf("Channel: %v", err)
		}
		if ch != "chan-1" {
			t.Errorf("got %q, want chan-1", ch)
		}

		// Rebinding replaces the previous channel.
		if err := store.BindChannel(ctx, "g1", "chan-2"); err != nil {
			t.Fatalf("BindChannel: %v", err)
		}
		if ch, _ := store.Channel(ctx, "g1"); ch != "chan-2" {
			t.Errorf("after rebind: got %q, want chan-2", ch)
		}
	})

	t.Run("RosterIdempotence", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		if err := store.AddParticipant(ctx, "g1", "alice"); err != nil {
			t.Fatalf("AddParticipant: %v", err)
		}
		if err := store.AddParticipant(ctx, "g1", "alice"); err != nil {
			t.Fatalf("AddParticipant (repeat): %v", err)
		}

		ok, err := store.IsParticipant(ctx, "g1", "alice")
		if err != nil {
			t.Fatalf("IsParticipant: %v", err)
		}
		if !ok {
			t.Error("alice should be a participant")
		}

		// The zero balance entry exists exactly once.
		bal, err := store.BalanceOf(ctx, "g1", "alice")
		if err != nil {
			t.Fatalf("BalanceOf: %v", err)
		}
		if bal != 0 {
			t.Errorf("initial balance: got %d, want 0", bal)
		}
		pending, err := store.PendingFor(ctx, "g1", "2026-08-28")
		if err != nil {
			t.Fatalf("PendingFor: %v", err)
		}
		if !reflect.DeepEqual(pending, []string{"alice"}) {
			t.Errorf("pending: got %v, want [alice]", pending)
		}
	})

	t.Run("RemoveKeepsHistory", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice", "bob")
		if _, err := store.AssessPenalties(ctx, "g1", "2026-08-27"); err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}
		if _, err := store.AssessPenalties(ctx, "g1", "2026-08-28"); err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}

		if err := store.RemoveParticipant(ctx, "g1", "bob"); err != nil {
			t.Fatalf("RemoveParticipant: %v", err)
		}
		// Removal is idempotent.
		if err := store.RemoveParticipant(ctx, "g1", "bob"); err != nil {
			t.Fatalf("RemoveParticipant (repeat): %v", err)
		}

		ok, _ := store.IsParticipant(ctx, "g1", "bob")
		if ok {
			t.Error("bob should no longer be a participant")
		}
		bal, err := store.BalanceOf(ctx, "g1", "bob")
		if err != nil {
			t.Fatalf("BalanceOf: %v", err)
		}
		if bal != 2000 {
			t.Errorf("balance after leaving: got %d, want 2000", bal)
		}
		pending, _ := store.PendingFor(ctx, "g1", "2026-08-29")
		if !reflect.DeepEqual(pending, []string{"alice"}) {
			t.Errorf("pending after leave: got %v, want [alice]", pending)
		}
	})

	t.Run("SubmissionIdempotence", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice", "bob")

		for i := 0; i < 2; i++ {
			if err := store.RecordSubmission(ctx, "g1", "2026-08-28", "alice"); err != nil {
				t.Fatalf("RecordSubmission: %v", err)
			}
		}

		ok, err := store.HasSubmitted(ctx, "g1", "2026-08-28", "alice")
		if err != nil {
			t.Fatalf("HasSubmitted: %v", err)
		}
		if !ok {
			t.Error("alice should have submitted")
		}
		if ok, _ := store.HasSubmitted(ctx, "g1", "2026-08-28", "bob"); ok {
			t.Error("bob should not have submitted")
		}

		// Double-recording does not double-penalize later.
		changed, err := store.AssessPenalties(ctx, "g1", "2026-08-28")
		if err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}
		want := []models.BalanceEntry{{Member: "bob", Amount: 1000}}
		if !reflect.DeepEqual(changed, want) {
			t.Errorf("assess: got %v, want %v", changed, want)
		}
	})

	t.Run("AssessPenalties", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice", "bob")
		if err := store.RecordSubmission(ctx, "g1", "2026-08-28", "alice"); err != nil {
			t.Fatalf("RecordSubmission: %v", err)
		}

		changed, err := store.AssessPenalties(ctx, "g1", "2026-08-28")
		if err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}
		want := []models.BalanceEntry{{Member: "bob", Amount: 1000}}
		if !reflect.DeepEqual(changed, want) {
			t.Errorf("first assessment: got %v, want %v", changed, want)
		}

		// No once-only guard at the store level: a second call for the
		// same day charges again.
		changed, err = store.AssessPenalties(ctx, "g1", "2026-08-28")
		if err != nil {
			t.Fatalf("AssessPenalties (repeat): %v", err)
		}
		want = []models.BalanceEntry{{Member: "bob", Amount: 2000}}
		if !reflect.DeepEqual(changed, want) {
			t.Errorf("second assessment: got %v, want %v", changed, want)
		}

		// Submitters are untouched.
		if bal, _ := store.BalanceOf(ctx, "g1", "alice"); bal != 0 {
			t.Errorf("alice balance: got %d, want 0", bal)
		}
	})

	t.Run("AssessPenaltiesNothingMissed", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice")
		if err := store.RecordSubmission(ctx, "g1", "2026-08-28", "alice"); err != nil {
			t.Fatalf("RecordSubmission: %v", err)
		}

		changed, err := store.AssessPenalties(ctx, "g1", "2026-08-28")
		if err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}
		if len(changed) != 0 {
			t.Errorf("got %v, want empty", changed)
		}
		if bal, _ := store.BalanceOf(ctx, "g1", "alice"); bal != 0 {
			t.Errorf("balance changed: got %d, want 0", bal)
		}
	})

	t.Run("LeaderboardAndTotal", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice", "bob", "carol")
		// bob misses two days, carol one, alice none.
		_ = store.RecordSubmission(ctx, "g1", "2026-08-27", "alice")
		_ = store.RecordSubmission(ctx, "g1", "2026-08-27", "carol")
		_ = store.RecordSubmission(ctx, "g1", "2026-08-28", "alice")
		if _, err := store.AssessPenalties(ctx, "g1", "2026-08-27"); err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}
		if _, err := store.AssessPenalties(ctx, "g1", "2026-08-28"); err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}

		board, err := store.Leaderboard(ctx, "g1", 10)
		if err != nil {
			t.Fatalf("Leaderboard: %v", err)
		}
		want := []models.BalanceEntry{
			{Member: "bob", Amount: 2000},
			{Member: "carol", Amount: 1000},
			{Member: "alice", Amount: 0},
		}
		if !reflect.DeepEqual(board, want) {
			t.Errorf("leaderboard: got %v, want %v", board, want)
		}

		total, err := store.TotalBalance(ctx, "g1")
		if err != nil {
			t.Fatalf("TotalBalance: %v", err)
		}
		if total != 3000 {
			t.Errorf("total: got %d, want 3000", total)
		}

		// Truncation never changes the total.
		if _, err := store.Leaderboard(ctx, "g1", 1); err != nil {
			t.Fatalf("Leaderboard(1): %v", err)
		}
		if total, _ := store.TotalBalance(ctx, "g1"); total != 3000 {
			t.Errorf("total after truncated query: got %d, want 3000", total)
		}
	})

	t.Run("CommunityIsolation", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.SeedCommunity(t, ctx, store, "g1", "chan-1", "alice")
		testutil.SeedCommunity(t, ctx, store, "g2", "chan-2", "bob")

		if _, err := store.AssessPenalties(ctx, "g1", "2026-08-28"); err != nil {
			t.Fatalf("AssessPenalties: %v", err)
		}
		if bal, _ := store.BalanceOf(ctx, "g2", "bob"); bal != 0 {
			t.Errorf("g2 balance leaked: got %d, want 0", bal)
		}

		ids, err := store.Communities(ctx)
		if err != nil {
			t.Fatalf("Communities: %v", err)
		}
		if !reflect.DeepEqual(ids, []string{"g1", "g2"}) {
			t.Errorf("communities: got %v, want [g1 g2]", ids)
		}
	})

	t.Run("UnknownCommunityQueries", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if ok, err := store.IsParticipant(ctx, "nope", "alice"); err != nil || ok {
			t.Errorf("IsParticipant: got (%v, %v), want (false, nil)", ok, err)
		}
		if bal, err := store.BalanceOf(ctx, "nope", "alice"); err != nil || bal != 0 {
			t.Errorf("BalanceOf: got (%d, %v), want (0, nil)", bal, err)
		}
		if pending, err := store.PendingFor(ctx, "nope", "2026-08-28"); err != nil || len(pending) != 0 {
			t.Errorf("PendingFor: got (%v, %v), want empty", pending, err)
		}
		if board, err := store.Leaderboard(ctx, "nope", 10); err != nil || len(board) != 0 {
			t.Errorf("Leaderboard: got (%v, %v), want empty", board, err)
		}
	})
}
