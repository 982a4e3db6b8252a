// Package accountability is the single entry point the chat glue uses
// to reach the ledger. Every business rule lives here: who may bind
// channels and manage the roster, what counts as a valid submission,
// and how the daily reminder and settlement sweeps run. The chat glue
// renders and delivers; this package only decides and records.
package accountability

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonyeong0810/studyBot/internal/app/policy/accesspolicy"
	ledgerstore "github.com/wonyeong0810/studyBot/internal/app/store/ledger"
	"github.com/wonyeong0810/studyBot/internal/app/system/dayclock"
	"github.com/wonyeong0810/studyBot/internal/domain/models"
	"go.uber.org/zap"
)

// Validation rejections. These are expected outcomes the glue maps to
// silence or a short notice, never crashes. Storage failures are
// returned wrapped and are the only "real" errors.
var (
	ErrNotPermitted     = errors.New("caller lacks permission for this action")
	ErrBotAccount       = errors.New("bot accounts cannot participate")
	ErrNotParticipant   = errors.New("author is not a participant")
	ErrNoChannel        = errors.New("no submission channel bound")
	ErrWrongChannel     = errors.New("message is not in the submission channel")
	ErrNoImage          = errors.New("message carries no image attachment")
	ErrAlreadySubmitted = errors.New("already submitted for the active day")
)

// DefaultLeaderboardLimit caps leaderboard queries unless the caller
// asks for another limit.
const DefaultLeaderboardLimit = 10

// Service enforces the accountability rules in front of the ledger
// store. It holds no state of its own beyond its dependencies.
type Service struct {
	ledger ledgerstore.Store
	clock  *dayclock.Clock
	log    *zap.Logger
}

// NewService builds the facade over the given store and clock.
func NewService(ledger ledgerstore.Store, clock *dayclock.Clock, logger *zap.Logger) *Service {
	return &Service{ledger: ledger, clock: clock, log: logger}
}

// BindChannel sets the community's submission channel. Manager only.
func (s *Service) BindChannel(ctx context.Context, actor accesspolicy.Actor, communityID, channelID string) error {
	if !accesspolicy.CanBindChannel(actor) {
		return ErrNotPermitted
	}
	if err := s.ledger.BindChannel(ctx, communityID, channelID); err != nil {
		return fmt.Errorf("bind channel: %w", err)
	}
	s.log.Info("submission channel bound",
		zap.String("community", communityID),
		zap.String("channel", channelID),
		zap.String("by", actor.ID))
	return nil
}

// Enroll adds target to the roster. Self-enrollment is open to anyone;
// enrolling someone else requires a manager; bots are always refused.
func (s *Service) Enroll(ctx context.Context, actor, target accesspolicy.Actor, communityID string) error {
	if target.Bot {
		return ErrBotAccount
	}
	if !accesspolicy.CanEnroll(actor, target) {
		return ErrNotPermitted
	}
	if err := s.ledger.AddParticipant(ctx, communityID, target.ID); err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	s.log.Info("participant enrolled",
		zap.String("community", communityID),
		zap.String("member", target.ID),
		zap.String("by", actor.ID))
	return nil
}

// Withdraw removes target from the roster; balances and history stay.
func (s *Service) Withdraw(ctx context.Context, actor, target accesspolicy.Actor, communityID string) error {
	if !accesspolicy.CanRemove(actor, target) {
		return ErrNotPermitted
	}
	if err := s.ledger.RemoveParticipant(ctx, communityID, target.ID); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	s.log.Info("participant withdrawn",
		zap.String("community", communityID),
		zap.String("member", target.ID),
		zap.String("by", actor.ID))
	return nil
}

// HandleSubmission applies the submission rules to an inbound message
// and records the proof when every rule passes. Rule order: bot check,
// channel bound and matching, image present, current participant, not
// yet submitted for the active logical day.
func (s *Service) HandleSubmission(ctx context.Context, sub Submission) (string, error) {
	if sub.AuthorBot {
		return "", ErrBotAccount
	}

	channel, err := s.ledger.Channel(ctx, sub.CommunityID)
	if err != nil {
		return "", fmt.Errorf("resolve channel: %w", err)
	}
	if channel == "" {
		return "", ErrNoChannel
	}
	if sub.ChannelID != channel {
		return "", ErrWrongChannel
	}
	if !sub.HasImage {
		return "", ErrNoImage
	}

	ok, err := s.ledger.IsParticipant(ctx, sub.CommunityID, sub.AuthorID)
	if err != nil {
		return "", fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return "", ErrNotParticipant
	}

	day := s.clock.ActiveDay()
	submitted, err := s.ledger.HasSubmitted(ctx, sub.CommunityID, day, sub.AuthorID)
	if err != nil {
		return "", fmt.Errorf("check submission: %w", err)
	}
	if submitted {
		return "", ErrAlreadySubmitted
	}

	if err := s.ledger.RecordSubmission(ctx, sub.CommunityID, day, sub.AuthorID); err != nil {
		return "", fmt.Errorf("record submission: %w", err)
	}
	s.log.Info("submission recorded",
		zap.String("community", sub.CommunityID),
		zap.String("member", sub.AuthorID),
		zap.String("day", day))
	return day, nil
}

// MemberStatus reports enrollment, today's submission state, and the
// balance for one member.
func (s *Service) MemberStatus(ctx context.Context, communityID, memberID string) (Status, error) {
	day := s.clock.ActiveDay()

	participant, err := s.ledger.IsParticipant(ctx, communityID, memberID)
	if err != nil {
		return Status{}, fmt.Errorf("check participant: %w", err)
	}
	submitted, err := s.ledger.HasSubmitted(ctx, communityID, day, memberID)
	if err != nil {
		return Status{}, fmt.Errorf("check submission: %w", err)
	}
	balance, err := s.ledger.BalanceOf(ctx, communityID, memberID)
	if err != nil {
		return Status{}, fmt.Errorf("read balance: %w", err)
	}

	return Status{
		Member:       memberID,
		Participant:  participant,
		SubmittedDay: submitted,
		Balance:      balance,
		ActiveDay:    day,
	}, nil
}

// Pending returns the members still owing proof for the active day.
func (s *Service) Pending(ctx context.Context, communityID string) ([]string, string, error) {
	day := s.clock.ActiveDay()
	pending, err := s.ledger.PendingFor(ctx, communityID, day)
	if err != nil {
		return nil, "", fmt.Errorf("pending query: %w", err)
	}
	return pending, day, nil
}

// Leaderboard returns the ranked balances, capped at limit
// (DefaultLeaderboardLimit when limit is non-positive).
func (s *Service) Leaderboard(ctx context.Context, communityID string, limit int) ([]models.BalanceEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	board, err := s.ledger.Leaderboard(ctx, communityID, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	return board, nil
}

// TotalBalance returns the community-wide penalty sum.
func (s *Service) TotalBalance(ctx context.Context, communityID string) (int64, error) {
	total, err := s.ledger.TotalBalance(ctx, communityID)
	if err != nil {
		return 0, fmt.Errorf("total query: %w", err)
	}
	return total, nil
}

// RemindAll computes the pending set for every community and hands each
// non-empty one (with a bound channel) to emit. Emit failures and
// per-community store failures are logged and never abort the sweep.
func (s *Service) RemindAll(ctx context.Context, emit func(Reminder) error) {
	day := s.clock.ActiveDay()

	communities, err := s.ledger.Communities(ctx)
	if err != nil {
		s.log.Error("reminder sweep: list communities failed", zap.Error(err))
		return
	}

	for _, id := range communities {
		channel, err := s.ledger.Channel(ctx, id)
		if err != nil {
			s.log.Error("reminder sweep: channel lookup failed",
				zap.String("community", id), zap.Error(err))
			continue
		}
		if channel == "" {
			continue
		}

		pending, err := s.ledger.PendingFor(ctx, id, day)
		if err != nil {
			s.log.Error("reminder sweep: pending query failed",
				zap.String("community", id), zap.Error(err))
			continue
		}
		if len(pending) == 0 {
			continue
		}

		r := Reminder{CommunityID: id, ChannelID: channel, Day: day, Pending: pending}
		if err := emit(r); err != nil {
			s.log.Warn("reminder delivery failed",
				zap.String("community", id), zap.Error(err))
		}
	}
}

// SettleAll assesses the closed day for every community and hands each
// settlement with changed balances (and a bound channel) to emit.
// Assessment always runs, channel or not; only the report needs one.
func (s *Service) SettleAll(ctx context.Context, emit func(Settlement) error) {
	day := s.clock.ClosedDay()

	communities, err := s.ledger.Communities(ctx)
	if err != nil {
		s.log.Error("settlement sweep: list communities failed", zap.Error(err))
		return
	}

	for _, id := range communities {
		charged, err := s.ledger.AssessPenalties(ctx, id, day)
		if err != nil {
			s.log.Error("settlement sweep: assessment failed",
				zap.String("community", id), zap.String("day", day), zap.Error(err))
			continue
		}
		if len(charged) == 0 {
			continue
		}
		s.log.Info("penalties assessed",
			zap.String("community", id),
			zap.String("day", day),
			zap.Int("members", len(charged)))

		channel, err := s.ledger.Channel(ctx, id)
		if err != nil {
			s.log.Error("settlement sweep: channel lookup failed",
				zap.String("community", id), zap.Error(err))
			continue
		}
		if channel == "" {
			continue
		}

		rep := Settlement{CommunityID: id, ChannelID: channel, Day: day, Charged: charged}
		if err := emit(rep); err != nil {
			s.log.Warn("settlement delivery failed",
				zap.String("community", id), zap.Error(err))
		}
	}
}
