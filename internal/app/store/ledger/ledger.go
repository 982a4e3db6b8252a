// Package ledgerstore owns all persisted accountability state.
//
// The Store interface is the complete contract; the file-backed and
// Mongo-backed implementations must be interchangeable, producing
// identical answers to every query given the same mutation sequence.
// Callers never mutate returned snapshots: all mutation goes through
// store operations, and every mutation is durable before the call
// returns.
package ledgerstore

import (
	"context"

	"github.com/wonyeong0810/studyBot/internal/domain/models"
)

// Store is the accountability ledger contract. All operations are keyed
// by community id; community records are created lazily on first
// reference and never deleted.
type Store interface {
	// BindChannel sets the community's submission channel, creating the
	// community record if absent.
	BindChannel(ctx context.Context, communityID, channelID string) error

	// Channel returns the bound submission channel, "" if unset.
	Channel(ctx context.Context, communityID string) (string, error)

	// AddParticipant idempotently adds the member to the roster and
	// ensures a zero balance entry exists.
	AddParticipant(ctx context.Context, communityID, memberID string) error

	// RemoveParticipant idempotently removes the member from the roster
	// only; balances and submission history are untouched.
	RemoveParticipant(ctx context.Context, communityID, memberID string) error

	// IsParticipant reports current roster membership.
	IsParticipant(ctx context.Context, communityID, memberID string) (bool, error)

	// RecordSubmission idempotently adds the member to the day's
	// submission set.
	RecordSubmission(ctx context.Context, communityID, day, memberID string) error

	// HasSubmitted reports whether the member submitted on the day.
	HasSubmitted(ctx context.Context, communityID, day, memberID string) (bool, error)

	// PendingFor returns participants minus the day's submitters,
	// sorted ascending.
	PendingFor(ctx context.Context, communityID, day string) ([]string, error)

	// AssessPenalties charges every participant missing from the day's
	// submission set one penalty unit and returns exactly the changed
	// (member, new-balance) pairs. There is no already-assessed guard;
	// calling twice for the same day charges twice. The scheduler's
	// once-per-day firing is the control.
	AssessPenalties(ctx context.Context, communityID, day string) ([]models.BalanceEntry, error)

	// BalanceOf returns the member's balance, 0 if never enrolled.
	BalanceOf(ctx context.Context, communityID, memberID string) (int64, error)

	// Leaderboard returns balances sorted by amount descending, ties by
	// member id ascending, truncated to limit (non-positive = all).
	Leaderboard(ctx context.Context, communityID string, limit int) ([]models.BalanceEntry, error)

	// TotalBalance returns the sum of all balances.
	TotalBalance(ctx context.Context, communityID string) (int64, error)

	// Communities lists every known community id, sorted ascending.
	// Scheduler sweeps iterate this.
	Communities(ctx context.Context) ([]string, error)
}
