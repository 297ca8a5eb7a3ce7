package booking

// Action is a guest-initiated step. Each one maps to exactly one API call.
type Action string

const (
	ActionPay      Action = "pay"
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
)

func (a Action) String() string {
	return string(a)
}

// requiredStatus is the only status from which each action may be taken.
var requiredStatus = map[Action]Status{
	ActionPay:      StatusProcessing,
	ActionCheckIn:  StatusPaid,
	ActionCheckOut: StatusCheckedIn,
}

// AllowedActions never returns nil so JSON renders [] for statuses with no action.
func AllowedActions(s Status) []Action {
	actions := []Action{}
	for _, a := range []Action{ActionPay, ActionCheckIn, ActionCheckOut} {
		if requiredStatus[a] == s {
			actions = append(actions, a)
		}
	}
	return actions
}

func CanPerform(s Status, a Action) bool {
	required, ok := requiredStatus[a]
	return ok && required == s
}

// Target is the status a successful action leads to. Payment is settled by the
// gateway callback, so pay has no direct target.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionCheckIn:
		return StatusCheckedIn, true
	case ActionCheckOut:
		return StatusCheckedOut, true
	default:
		return "", false
	}
}
