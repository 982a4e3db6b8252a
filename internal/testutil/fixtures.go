package testutil

import (
	"context"
	"testing"

	ledgerstore "github.com/wonyeong0810/studyBot/internal/app/store/ledger"
)

// SeedCommunity enrolls the given members in a community and binds a
// channel, failing the test on any store error.
func SeedCommunity(t *testing.T, ctx context.Context, store ledgerstore.Store, communityID, channelID string, members ...string) {
	t.Helper()

	if err := store.BindChannel(ctx, communityID, channelID); err != nil {
		t.Fatalf("seed: bind channel: %v", err)
	}
	for _, m := range members {
		if err := store.AddParticipant(ctx, communityID, m); err != nil {
			t.Fatalf("seed: add participant %s: %v", m, err)
		}
	}
}
