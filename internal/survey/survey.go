// Package survey renders the weekly meal grid and handles the toggle,
// review, and submit actions on it. Every mutating action checks that the
// pressing user owns the survey the button belongs to.
package survey

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dukerupert/mealsbot/internal/callback"
	"github.com/dukerupert/mealsbot/internal/model"
	"github.com/dukerupert/mealsbot/internal/store"
	"github.com/dukerupert/mealsbot/internal/week"
)

// Sender is the outbound-send capability, passed in explicitly rather than
// reached for as ambient state. The bot adapter implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendKeyboard(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error
}

type Engine struct {
	members   *store.MemberStore
	responses *store.ResponseStore
	sender    Sender
	adminID   int64
	now       func() time.Time
	logger    *slog.Logger
}

func NewEngine(members *store.MemberStore, responses *store.ResponseStore, sender Sender, adminID int64, logger *slog.Logger) *Engine {
	return &Engine{
		members:   members,
		responses: responses,
		sender:    sender,
		adminID:   adminID,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock overrides the engine's notion of now, pinning the survey week.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Send delivers the survey for targetID into chatID. The grid is freshly
// rendered from stored state, so re-sending never loses answers.
func (e *Engine) Send(chatID, targetID int64) error {
	wk := week.Start(e.now())
	kb, err := e.Keyboard(targetID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("🍽 Weekly Meal Survey - Week of %s\n\n"+
		"Tap a button to toggle a meal:\n"+
		"✅ = you need this meal\n"+
		"❌ = you don't need this meal\n\n"+
		"You can change your answers anytime.", wk)

	return e.sender.SendKeyboard(chatID, text, kb)
}

// Keyboard builds the 7-row grid for targetID's current week: a day label
// plus one toggle button per meal, then review and submit rows. Button
// labels reflect the stored cell value; unset cells carry no mark.
func (e *Engine) Keyboard(targetID int64) (tgbotapi.InlineKeyboardMarkup, error) {
	wk := week.Start(e.now())
	responses, err := e.responses.ListForWeek(targetID, wk)
	if err != nil {
		return tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("load responses: %w", err)
	}

	type cell struct {
		day  model.Day
		meal model.MealType
	}
	values := make(map[cell]bool, len(responses))
	for _, r := range responses {
		values[cell{r.Day, r.Meal}] = r.Value
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, day := range model.Days {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("📅 "+string(day), callback.Payload{Action: callback.Noop}.Encode()),
		}
		for _, meal := range model.MealTypes {
			label := meal.Title()[:3]
			if v, ok := values[cell{day, meal}]; ok {
				if v {
					label += " ✅"
				} else {
					label += " ❌"
				}
			}
			data := callback.Payload{Action: callback.Toggle, Target: targetID, Day: day, Meal: meal}.Encode()
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		}
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📋 Review My Answers", callback.Payload{Action: callback.Review, Target: targetID}.Encode()),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Submit Survey", callback.Payload{Action: callback.Submit, Target: targetID}.Encode()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...), nil
}

// Toggle flips one cell of the actor's own survey. A press on someone
// else's survey is rejected with no mutation. The returned bool reports
// whether a cell actually changed, so the caller knows to refresh the grid.
func (e *Engine) Toggle(chatID, actorID int64, p callback.Payload) (bool, error) {
	if actorID != p.Target {
		e.logger.Warn("toggle rejected", "actor", actorID, "target", p.Target)
		return false, e.sender.SendMessage(chatID, "⛔ This survey belongs to someone else. Use /survey to get your own.")
	}

	wk := week.Start(e.now())
	value, err := e.responses.Toggle(actorID, wk, p.Day, p.Meal)
	if err != nil {
		return false, fmt.Errorf("toggle cell: %w", err)
	}

	status := "No"
	if value {
		status = "Yes"
	}
	if err := e.sender.SendMessage(chatID, fmt.Sprintf("📝 Updated: %s %s - %s", p.Day, p.Meal.Title(), status)); err != nil {
		e.logger.Warn("toggle confirmation failed", "member", actorID, "error", err)
	}
	return true, nil
}

// Review sends the actor a day-grouped summary of their own answers.
func (e *Engine) Review(chatID, actorID, targetID int64) error {
	if actorID != targetID {
		e.logger.Warn("review rejected", "actor", actorID, "target", targetID)
		return e.sender.SendMessage(chatID, "⛔ Only the survey owner can review it.")
	}
	return e.Summary(chatID, actorID)
}

// Summary renders a member's current-week answers; /my_responses uses it
// directly. Zero rows gets a nudge instead of an empty list.
func (e *Engine) Summary(chatID, memberID int64) error {
	wk := week.Start(e.now())
	responses, err := e.responses.ListForWeek(memberID, wk)
	if err != nil {
		return fmt.Errorf("load responses: %w", err)
	}

	if len(responses) == 0 {
		return e.sender.SendMessage(chatID, "📝 You haven't responded to this week's survey yet. Use /survey to fill it out!")
	}

	selected := 0
	for _, r := range responses {
		if r.Value {
			selected++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Your meal responses for the week of %s:\n", wk)
	b.WriteString(FormatRows(responses, "  "))
	fmt.Fprintf(&b, "\n%s selected. You can update your answers anytime with /survey.", countMeals(selected))

	return e.sender.SendMessage(chatID, b.String())
}

// Submit confirms the actor's survey and best-effort notifies the admin.
// Submission is advisory: the toggle rows are already persisted, nothing is
// locked, and a failed admin notification is logged, not surfaced.
func (e *Engine) Submit(chatID, actorID, targetID int64) error {
	if actorID != targetID {
		e.logger.Warn("submit rejected", "actor", actorID, "target", targetID)
		return e.sender.SendMessage(chatID, "⛔ Only the survey owner can submit it.")
	}

	wk := week.Start(e.now())
	count, err := e.responses.CountSelected(actorID, wk)
	if err != nil {
		return fmt.Errorf("count selections: %w", err)
	}
	if count == 0 {
		return e.sender.SendMessage(chatID, "⚠️ Please select at least one meal before submitting!")
	}

	if err := e.sender.SendMessage(chatID, "✅ Survey submitted!\n\nThank you for your responses. The house chef will be notified. You can still update your answers with /survey."); err != nil {
		return err
	}

	name := fmt.Sprintf("member %d", actorID)
	if m, err := e.members.GetByID(actorID); err == nil && m != nil {
		name = m.DisplayName()
	}

	if e.adminID != 0 {
		note := fmt.Sprintf("🔔 %s submitted the survey for the week of %s: %s selected.", name, wk, countMeals(count))
		if err := e.sender.SendMessage(e.adminID, note); err != nil {
			e.logger.Warn("admin notification failed", "member", actorID, "error", err)
		}
	}
	return nil
}

// FormatRows renders response rows grouped by day in canonical week order,
// with the given indent for meal lines. Shared with the admin console.
func FormatRows(responses []model.Response, indent string) string {
	type cell struct {
		day  model.Day
		meal model.MealType
	}
	values := make(map[cell]bool, len(responses))
	for _, r := range responses {
		values[cell{r.Day, r.Meal}] = r.Value
	}

	var b strings.Builder
	for _, day := range model.Days {
		var lines []string
		for _, meal := range model.MealTypes {
			v, ok := values[cell{day, meal}]
			if !ok {
				continue
			}
			status := "❌ No"
			if v {
				status = "✅ Yes"
			}
			lines = append(lines, fmt.Sprintf("%s• %s: %s", indent, meal.Title(), status))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", day, strings.Join(lines, "\n"))
	}
	return b.String()
}

func countMeals(n int) string {
	if n == 1 {
		return "1 meal"
	}
	return fmt.Sprintf("%d meals", n)
}
