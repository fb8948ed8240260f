// Package callback encodes inline-keyboard button payloads as structured
// tokens. Payloads are decoded exactly once, at the bot boundary, into a
// typed value; handlers never split strings themselves.
package callback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dukerupert/mealsbot/internal/model"
)

// Action tags what a button press means.
type Action string

const (
	// Member survey actions. Each carries the survey owner's id; the
	// handler compares it against the pressing user.
	Toggle Action = "toggle"
	Review Action = "review"
	Submit Action = "submit"

	// Admin console actions.
	AdminResponses      Action = "admin_responses"
	AdminMembers        Action = "admin_members"
	AdminPending        Action = "admin_pending"
	AdminBroadcast      Action = "admin_broadcast"
	AdminBroadcastGroup Action = "admin_broadcast_group"
	AdminAggregate      Action = "admin_aggregate"
	Activate            Action = "activate"
	Deactivate          Action = "deactivate"

	// Noop labels decorative buttons such as day headers.
	Noop Action = "noop"
)

// Payload is the decoded form of a button's callback data.
type Payload struct {
	Action Action
	Target int64
	Day    model.Day
	Meal   model.MealType
}

// Encode packs the payload into Telegram callback data. The result stays
// well under the platform's 64-byte limit.
func (p Payload) Encode() string {
	parts := []string{string(p.Action)}
	if p.Target != 0 {
		parts = append(parts, strconv.FormatInt(p.Target, 10))
	}
	if p.Day != "" {
		parts = append(parts, string(p.Day))
	}
	if p.Meal != "" {
		parts = append(parts, string(p.Meal))
	}
	return strings.Join(parts, "|")
}

// Decode parses callback data back into a typed payload, validating the
// action tag and any day or meal fields it carries.
func Decode(data string) (Payload, error) {
	parts := strings.Split(data, "|")
	p := Payload{Action: Action(parts[0])}

	switch p.Action {
	case Toggle:
		if len(parts) != 4 {
			return Payload{}, fmt.Errorf("toggle payload: want 4 fields, got %d", len(parts))
		}
		target, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Payload{}, fmt.Errorf("toggle payload: bad target id %q", parts[1])
		}
		day, ok := model.ParseDay(parts[2])
		if !ok {
			return Payload{}, fmt.Errorf("toggle payload: unknown day %q", parts[2])
		}
		meal, ok := model.ParseMealType(parts[3])
		if !ok {
			return Payload{}, fmt.Errorf("toggle payload: unknown meal %q", parts[3])
		}
		p.Target, p.Day, p.Meal = target, day, meal

	case Review, Submit, Activate, Deactivate:
		if len(parts) != 2 {
			return Payload{}, fmt.Errorf("%s payload: want 2 fields, got %d", p.Action, len(parts))
		}
		target, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Payload{}, fmt.Errorf("%s payload: bad target id %q", p.Action, parts[1])
		}
		p.Target = target

	case AdminResponses, AdminMembers, AdminPending, AdminBroadcast, AdminBroadcastGroup, AdminAggregate, Noop:
		if len(parts) != 1 {
			return Payload{}, fmt.Errorf("%s payload: unexpected fields", p.Action)
		}

	default:
		return Payload{}, fmt.Errorf("unknown callback action %q", parts[0])
	}

	return p, nil
}
