// internal/app/bot/commands.go
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/wonyeong0810/studyBot/internal/app/features/accountability"
	"github.com/wonyeong0810/studyBot/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	fields := strings.Fields(m.Content)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(strings.TrimPrefix(fields[0], Prefix))

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	actor := b.actorFor(s, m)

	switch cmd {
	case "channel", "인증채널":
		err := b.svc.BindChannel(ctx, actor, m.GuildID, m.ChannelID)
		switch {
		case errors.Is(err, accountability.ErrNotPermitted):
			b.reply(s, m.ChannelID, msgNeedManager)
		case err != nil:
			b.commandError(s, m, cmd, err)
		default:
			b.reply(s, m.ChannelID, renderChannelBound(m.ChannelID))
		}

	case "join", "참가":
		target := targetFor(m, actor)
		err := b.svc.Enroll(ctx, actor, target, m.GuildID)
		switch {
		case errors.Is(err, accountability.ErrBotAccount):
			b.reply(s, m.ChannelID, msgNoBots)
		case errors.Is(err, accountability.ErrNotPermitted):
			b.reply(s, m.ChannelID, msgNeedManager)
		case err != nil:
			b.commandError(s, m, cmd, err)
		default:
			b.reply(s, m.ChannelID, renderJoined(target.ID))
		}

	case "leave", "탈퇴":
		target := targetFor(m, actor)
		err := b.svc.Withdraw(ctx, actor, target, m.GuildID)
		switch {
		case errors.Is(err, accountability.ErrNotPermitted):
			b.reply(s, m.ChannelID, msgNeedManager)
		case err != nil:
			b.commandError(s, m, cmd, err)
		default:
			b.reply(s, m.ChannelID, renderLeft(target.ID))
		}

	case "status", "check", "현황":
		target := targetFor(m, actor)
		st, err := b.svc.MemberStatus(ctx, m.GuildID, target.ID)
		if err != nil {
			b.commandError(s, m, cmd, err)
			return
		}
		b.reply(s, m.ChannelID, renderStatus(st))

	case "pending", "미인증":
		pending, day, err := b.svc.Pending(ctx, m.GuildID)
		if err != nil {
			b.commandError(s, m, cmd, err)
			return
		}
		b.reply(s, m.ChannelID, renderPending(day, pending))

	case "rank", "랭킹":
		board, err := b.svc.Leaderboard(ctx, m.GuildID, accountability.DefaultLeaderboardLimit)
		if err != nil {
			b.commandError(s, m, cmd, err)
			return
		}
		b.reply(s, m.ChannelID, renderLeaderboard(board))

	case "total", "총액":
		total, err := b.svc.TotalBalance(ctx, m.GuildID)
		if err != nil {
			b.commandError(s, m, cmd, err)
			return
		}
		b.reply(s, m.ChannelID, renderTotal(total))

	case "help", "도움말":
		b.reply(s, m.ChannelID, helpText)

	default:
		// Unknown commands stay quiet, like the original bot.
	}
}

func (b *Bot) commandError(s *discordgo.Session, m *discordgo.MessageCreate, cmd string, err error) {
	b.log.Error("command failed",
		zap.String("command", cmd),
		zap.String("guild", m.GuildID),
		zap.String("member", m.Author.ID),
		zap.Error(err))
	b.reply(s, m.ChannelID, msgInternalError)
}
