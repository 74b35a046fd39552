package domain

import "time"

// Choice is a viewer's interaction with an item.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceUp          // upvote on comments, like on posts and episodes
	ChoiceDown        // downvote on comments, dislike on episodes
)

func (c Choice) String() string {
	switch c {
	case ChoiceUp:
		return "up"
	case ChoiceDown:
		return "down"
	default:
		return "none"
	}
}

// ParseChoice maps the stored vote_type column onto a Choice.
func ParseChoice(s string) Choice {
	switch s {
	case "up":
		return ChoiceUp
	case "down":
		return ChoiceDown
	default:
		return ChoiceNone
	}
}

// VoteRecord is one persisted (item, voter) interaction row.
type VoteRecord struct {
	ItemID    string
	VoterID   string
	Choice    Choice
	CreatedAt time.Time
}

// Next returns the state after requesting a choice: repeating the current
// choice toggles it off, anything else switches to the requested choice.
func Next(current, requested Choice) Choice {
	if requested == current {
		return ChoiceNone
	}
	return requested
}

// Transition describes the persisted writes for one toggle.
type Transition struct {
	From   Choice
	To     Choice
	Delete bool // remove any existing (item, voter) record first
	Insert bool // then insert a record for To
}

// Changed reports whether the transition alters persisted state.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Plan computes the writes for requesting a choice from the current state.
// The delete and insert are issued as two separate writes; two sessions of
// the same voter toggling at once resolve as last write wins.
func Plan(current, requested Choice) Transition {
	to := Next(current, requested)
	return Transition{
		From:   current,
		To:     to,
		Delete: current != to,
		Insert: current != to && to != ChoiceNone,
	}
}

// PlanLike is Plan restricted to presence-only interactions (post likes and reposts).
func PlanLike(current, requested Choice) (Transition, error) {
	if current == ChoiceDown || requested != ChoiceUp {
		return Transition{}, ErrUnsupportedChoice
	}
	return Plan(current, requested), nil
}

// Engagement is the derived interaction summary for one item.
type Engagement struct {
	Up       int
	Down     int
	Reposts  int
	Replies  int
	Vote     Choice // viewer's own vote or like
	Reposted bool   // viewer's own repost
}

// Apply moves the viewer's vote from one choice to another and adjusts the
// counts so the viewer is never counted in both buckets.
func (e Engagement) Apply(from, to Choice) Engagement {
	e.Up, e.Down = shift(e.Up, e.Down, from, -1)
	e.Up, e.Down = shift(e.Up, e.Down, to, +1)
	e.Vote = to
	return e
}

// ApplyRepost toggles the viewer's repost and adjusts the count.
func (e Engagement) ApplyRepost(reposted bool) Engagement {
	if reposted == e.Reposted {
		return e
	}
	if reposted {
		e.Reposts++
	} else if e.Reposts > 0 {
		e.Reposts--
	}
	e.Reposted = reposted
	return e
}

func shift(up, down int, c Choice, delta int) (int, int) {
	switch c {
	case ChoiceUp:
		up = max(0, up+delta)
	case ChoiceDown:
		down = max(0, down+delta)
	}
	return up, down
}

// Ratio returns the share of up votes in percent, or -1 with no votes.
func (e Engagement) Ratio() int {
	total := e.Up + e.Down
	if total == 0 {
		return -1
	}
	return e.Up * 100 / total
}
