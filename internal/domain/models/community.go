// internal/domain/models/community.go
package models

import "sort"

// PenaltyUnit is the fixed amount (in minor currency units) added to a
// member's balance for each missed day.
const PenaltyUnit int64 = 1000

// Community is the per-guild accountability record. One document per
// community in the Mongo backend; one entry in the JSON map in the file
// backend. The zero value (empty roster, no channel, no history) is the
// lazily-created initial state.
type Community struct {
	ID           string              `bson:"_id" json:"community_id"`
	ChannelID    string              `bson:"channel_id,omitempty" json:"channel_id,omitempty"`
	Participants []string            `bson:"participants" json:"participants"`
	Debt         map[string]int64    `bson:"debt" json:"debt"`
	Submissions  map[string][]string `bson:"submissions" json:"submissions"`
}

// BalanceEntry is one (member, amount) pair as returned by penalty
// assessment and leaderboard queries.
type BalanceEntry struct {
	Member string `bson:"member" json:"member"`
	Amount int64  `bson:"amount" json:"amount"`
}

// NewCommunity returns an empty community record for the given id.
func NewCommunity(id string) *Community {
	return &Community{
		ID:           id,
		Participants: []string{},
		Debt:         map[string]int64{},
		Submissions:  map[string][]string{},
	}
}

// IsParticipant reports whether member is currently enrolled.
func (c *Community) IsParticipant(member string) bool {
	for _, p := range c.Participants {
		if p == member {
			return true
		}
	}
	return false
}

// HasSubmitted reports whether member submitted proof on the given day.
func (c *Community) HasSubmitted(day, member string) bool {
	for _, m := range c.Submissions[day] {
		if m == member {
			return true
		}
	}
	return false
}

// Balance returns the member's accumulated penalty total, 0 if the
// member never enrolled.
func (c *Community) Balance(member string) int64 {
	return c.Debt[member]
}

// Pending returns the participants who have not submitted for the given
// day, sorted ascending so output is deterministic across backends.
func (c *Community) Pending(day string) []string {
	submitted := make(map[string]bool, len(c.Submissions[day]))
	for _, m := range c.Submissions[day] {
		submitted[m] = true
	}

	pending := []string{}
	for _, p := range c.Participants {
		if !submitted[p] {
			pending = append(pending, p)
		}
	}
	sort.Strings(pending)
	return pending
}

// Leaderboard returns balances sorted by amount descending, ties broken
// by member id ascending, truncated to limit. A non-positive limit
// returns all entries.
func (c *Community) Leaderboard(limit int) []BalanceEntry {
	entries := make([]BalanceEntry, 0, len(c.Debt))
	for member, amount := range c.Debt {
		entries = append(entries, BalanceEntry{Member: member, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Member < entries[j].Member
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TotalDebt returns the sum of all balances.
func (c *Community) TotalDebt() int64 {
	var total int64
	for _, amount := range c.Debt {
		total += amount
	}
	return total
}
