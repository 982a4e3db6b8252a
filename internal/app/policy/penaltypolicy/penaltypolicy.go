// Package penaltypolicy holds the pure penalty-assessment rules.
//
// Rules:
//   - A participant who did not submit on a day is "missed" for that day.
//   - Each missed day costs exactly models.PenaltyUnit (1000), no
//     partial penalties, no decay, no cap.
//   - Assessment itself carries no once-per-day guard; firing discipline
//     belongs to the scheduler.
package penaltypolicy

import (
	"sort"

	"github.com/wonyeong0810/studyBot/internal/domain/models"
)

// Missed returns the members of roster that are absent from submitted,
// sorted ascending. This is the set that gets penalized for the day.
func Missed(roster, submitted []string) []string {
	seen := make(map[string]bool, len(submitted))
	for _, m := range submitted {
		seen[m] = true
	}

	missed := []string{}
	for _, m := range roster {
		if !seen[m] {
			missed = append(missed, m)
		}
	}
	sort.Strings(missed)
	return missed
}

// Assess computes the new balances after charging every missed member
// one penalty unit on top of their current balance. It returns exactly
// the entries whose balance changed, in missed-member order.
func Assess(missed []string, balances map[string]int64) []models.BalanceEntry {
	changed := []models.BalanceEntry{}
	for _, m := range missed {
		changed = append(changed, models.BalanceEntry{
			Member: m,
			Amount: balances[m] + models.PenaltyUnit,
		})
	}
	return changed
}
