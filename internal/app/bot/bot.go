// Package bot is the Discord-facing glue around the accountability
// facade. It parses commands, reduces messages to the plain data the
// facade consumes, renders the facade's answers, and delivers scheduler
// reports. No business rule lives here; everything is decided in the
// accountability package.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/wonyeong0810/studyBot/internal/app/features/accountability"
	"github.com/wonyeong0810/studyBot/internal/app/policy/accesspolicy"
	"github.com/wonyeong0810/studyBot/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Prefix starts every bot command.
const Prefix = "!"

// Bot wraps one Discord gateway session.
type Bot struct {
	session *discordgo.Session
	svc     *accountability.Service
	log     *zap.Logger
}

// New builds the bot but does not open the gateway connection yet.
func New(token string, svc *accountability.Service, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &Bot{session: session, svc: svc, log: logger}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)
	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("discord session ready",
		zap.String("user", r.User.Username),
		zap.Int("guilds", len(r.Guilds)))
}

// onMessage routes every inbound guild message: commands by prefix,
// everything else through the submission rules.
func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.GuildID == "" {
		return
	}

	if strings.HasPrefix(m.Content, Prefix) {
		b.handleCommand(s, m)
		return
	}

	b.handleSubmission(s, m)
}

func (b *Bot) handleSubmission(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	sub := accountability.Submission{
		CommunityID: m.GuildID,
		ChannelID:   m.ChannelID,
		AuthorID:    m.Author.ID,
		AuthorBot:   m.Author.Bot,
		HasImage:    hasImageAttachment(m.Attachments),
	}

	day, err := b.svc.HandleSubmission(ctx, sub)
	switch {
	case err == nil:
		// Acknowledge with a reaction rather than a message so the
		// submission channel stays readable.
		if rerr := s.MessageReactionAdd(m.ChannelID, m.ID, "✅"); rerr != nil {
			b.log.Warn("submission ack failed", zap.Error(rerr))
		}
		b.log.Debug("submission accepted",
			zap.String("guild", m.GuildID),
			zap.String("member", m.Author.ID),
			zap.String("day", day))
	case isRejection(err):
		// Expected: wrong channel, no image, non-participant, repeat.
		// The original bot stays quiet here.
	default:
		b.log.Error("submission handling failed",
			zap.String("guild", m.GuildID),
			zap.String("member", m.Author.ID),
			zap.Error(err))
	}
}

// isRejection reports whether err is one of the facade's expected
// validation declines, as opposed to a storage failure.
func isRejection(err error) bool {
	for _, rej := range []error{
		accountability.ErrNotPermitted,
		accountability.ErrBotAccount,
		accountability.ErrNotParticipant,
		accountability.ErrNoChannel,
		accountability.ErrWrongChannel,
		accountability.ErrNoImage,
		accountability.ErrAlreadySubmitted,
	} {
		if errors.Is(err, rej) {
			return true
		}
	}
	return false
}

// hasImageAttachment reports whether any attachment is an image, by
// content type when Discord supplies one, by filename otherwise.
func hasImageAttachment(attachments []*discordgo.MessageAttachment) bool {
	for _, a := range attachments {
		if a == nil {
			continue
		}
		if strings.HasPrefix(a.ContentType, "image/") {
			return true
		}
		name := strings.ToLower(a.Filename)
		for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
			if strings.HasSuffix(name, ext) {
				return true
			}
		}
	}
	return false
}

// actorFor resolves the caller's identity and permission flag.
func (b *Bot) actorFor(s *discordgo.Session, m *discordgo.MessageCreate) accesspolicy.Actor {
	actor := accesspolicy.Actor{ID: m.Author.ID, Bot: m.Author.Bot}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		b.log.Warn("permission lookup failed",
			zap.String("member", m.Author.ID), zap.Error(err))
		return actor
	}
	actor.Manager = perms&discordgo.PermissionManageServer != 0
	return actor
}

// targetFor returns the first mentioned user as the action target, or
// the caller when nobody is mentioned.
func targetFor(m *discordgo.MessageCreate, actor accesspolicy.Actor) accesspolicy.Actor {
	if len(m.Mentions) > 0 && m.Mentions[0] != nil {
		u := m.Mentions[0]
		return accesspolicy.Actor{ID: u.ID, Bot: u.Bot}
	}
	return actor
}

// reply sends a plain message, swallowing delivery failures.
func (b *Bot) reply(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		b.log.Warn("message send failed",
			zap.String("channel", channelID), zap.Error(err))
	}
}

// SendReminder delivers one community's pending-member reminder.
func (b *Bot) SendReminder(r accountability.Reminder) error {
	if _, err := b.session.ChannelMessageSend(r.ChannelID, renderReminder(r)); err != nil {
		return fmt.Errorf("send reminder to %s: %w", r.ChannelID, err)
	}
	return nil
}

// SendSettlement delivers one community's penalty report.
func (b *Bot) SendSettlement(rep accountability.Settlement) error {
	if _, err := b.session.ChannelMessageSend(rep.ChannelID, renderSettlement(rep)); err != nil {
		return fmt.Errorf("send settlement to %s: %w", rep.ChannelID, err)
	}
	return nil
}
