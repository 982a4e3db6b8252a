// internal/app/features/accountability/types.go
package accountability

import "github.com/wonyeong0810/studyBot/internal/domain/models"

// Submission is an inbound proof-of-work message, already reduced by
// the chat glue to the fields the rules need.
type Submission struct {
	CommunityID string
	ChannelID   string
	AuthorID    string
	AuthorBot   bool
	HasImage    bool
}

// Status is the answer to a member status query.
type Status struct {
	Member       string
	Participant  bool
	SubmittedDay bool // submitted for the currently active logical day
	Balance      int64
	ActiveDay    string
}

// Reminder is one community's pending list for the active day, emitted
// during a reminder sweep. Only communities with a bound channel and a
// non-empty pending set produce one.
type Reminder struct {
	CommunityID string
	ChannelID   string
	Day         string
	Pending     []string
}

// Settlement is one community's penalty report for a closed day,
// emitted during the assessment sweep when any balance changed.
type Settlement struct {
	CommunityID string
	ChannelID   string
	Day         string
	Charged     []models.BalanceEntry
}
