// internal/app/bot/format.go
//
// Plain-text rendering of facade data. The facade returns data only;
// every user-visible string lives here.
package bot

import (
	"fmt"
	"strings"

	"github.com/wonyeong0810/studyBot/internal/app/features/accountability"
	"github.com/wonyeong0810/studyBot/internal/domain/models"
)

const (
	msgNeedManager   = "이 명령은 서버 관리 권한이 필요합니다."
	msgNoBots        = "봇 계정은 참가할 수 없습니다."
	msgInternalError = "처리 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

	helpText = "📘 studyBot 명령어\n" +
		"`!channel` — 현재 채널을 인증 채널로 설정 (관리자)\n" +
		"`!join [@멤버]` — 챌린지 참가 (다른 멤버 추가는 관리자)\n" +
		"`!leave [@멤버]` — 챌린지 탈퇴\n" +
		"`!status [@멤버]` — 참가/인증/벌금 현황\n" +
		"`!pending` — 오늘 미인증 멤버 목록\n" +
		"`!rank` — 벌금 랭킹\n" +
		"`!total` — 벌금 총액\n" +
		"인증은 인증 채널에 사진을 올리면 됩니다."
)

func mention(memberID string) string {
	return "<@" + memberID + ">"
}

func mentions(memberIDs []string) string {
	parts := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		parts[i] = mention(id)
	}
	return strings.Join(parts, " ")
}

func won(amount int64) string {
	return fmt.Sprintf("%d원", amount)
}

func yesNo(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func renderChannelBound(channelID string) string {
	return fmt.Sprintf("인증 채널이 <#%s>(으)로 설정되었습니다.", channelID)
}

func renderJoined(memberID string) string {
	return fmt.Sprintf("%s 님이 챌린지에 참가했습니다. 매일 인증 채널에 사진으로 인증해 주세요!", mention(memberID))
}

func renderLeft(memberID string) string {
	return fmt.Sprintf("%s 님이 챌린지에서 빠졌습니다. 누적 벌금 기록은 유지됩니다.", mention(memberID))
}

func renderStatus(st accountability.Status) string {
	return fmt.Sprintf("%s — 참가 %s · 오늘(%s) 인증 %s · 누적 벌금 %s",
		mention(st.Member), yesNo(st.Participant), st.ActiveDay, yesNo(st.SubmittedDay), won(st.Balance))
}

func renderPending(day string, pending []string) string {
	if len(pending) == 0 {
		return fmt.Sprintf("오늘(%s)은 전원 인증 완료! 🎉", day)
	}
	return fmt.Sprintf("오늘(%s) 아직 인증하지 않은 멤버: %s", day, mentions(pending))
}

func renderLeaderboard(board []models.BalanceEntry) string {
	if len(board) == 0 {
		return "아직 벌금 기록이 없습니다."
	}
	var sb strings.Builder
	sb.WriteString("💸 벌금 랭킹\n")
	for i, e := range board {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, mention(e.Member), won(e.Amount))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTotal(total int64) string {
	return fmt.Sprintf("지금까지 쌓인 벌금 총액: %s", won(total))
}

func renderReminder(r accountability.Reminder) string {
	return fmt.Sprintf("⏰ 인증 마감이 다가옵니다! 오늘(%s) 미인증: %s", r.Day, mentions(r.Pending))
}

func renderSettlement(rep accountability.Settlement) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💸 %s 인증 정산 결과\n", rep.Day)
	for _, e := range rep.Charged {
		fmt.Fprintf(&sb, "%s +%s (누적 %s)\n", mention(e.Member), won(models.PenaltyUnit), won(e.Amount))
	}
	return strings.TrimRight(sb.String(), "\n")
}
