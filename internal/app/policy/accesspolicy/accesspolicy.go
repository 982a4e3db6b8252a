// Package accesspolicy provides authorization rules for administrative
// ledger actions.
//
// Authorization rules:
//   - Binding the submission channel requires a manager (a caller the
//     chat platform marks with guild-management permission).
//   - Enrolling or removing oneself is always allowed.
//   - Enrolling or removing another member requires a manager.
//   - Bot accounts can never be enrolled, by anyone.
package accesspolicy

// Actor is the minimal caller identity carried in from the chat
// platform. Manager reflects the platform's elevated-permission flag;
// this package never re-derives it.
type Actor struct {
	ID      string
	Bot     bool
	Manager bool
}

// CanBindChannel reports whether the actor may set a community's
// submission channel.
func CanBindChannel(actor Actor) bool {
	return actor.Manager
}

// CanEnroll reports whether the actor may enroll the target member.
// Bot targets are always refused.
func CanEnroll(actor Actor, target Actor) bool {
	if target.Bot {
		return false
	}
	if actor.ID == target.ID {
		return true
	}
	return actor.Manager
}

// CanRemove reports whether the actor may remove the target member from
// the roster. Same rule as enrollment minus the bot check: a bot can
// never be on the roster, so removal of one is vacuous but harmless.
func CanRemove(actor Actor, target Actor) bool {
	if actor.ID == target.ID {
		return true
	}
	return actor.Manager
}
