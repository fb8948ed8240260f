// Package admin implements the administrator console: aggregate views over
// the week's responses, membership approval, and survey broadcasts. Every
// entry point is gated by comparing the caller against the one configured
// admin id.
package admin

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/multierr"

	"github.com/dukerupert/mealsbot/internal/callback"
	"github.com/dukerupert/mealsbot/internal/model"
	"github.com/dukerupert/mealsbot/internal/store"
	"github.com/dukerupert/mealsbot/internal/survey"
	"github.com/dukerupert/mealsbot/internal/week"
)

type Console struct {
	members   *store.MemberStore
	responses *store.ResponseStore
	engine    *survey.Engine
	sender    survey.Sender
	adminID   int64
	now       func() time.Time
	logger    *slog.Logger
}

func NewConsole(members *store.MemberStore, responses *store.ResponseStore, engine *survey.Engine, sender survey.Sender, adminID int64, logger *slog.Logger) *Console {
	return &Console{
		members:   members,
		responses: responses,
		engine:    engine,
		sender:    sender,
		adminID:   adminID,
		now:       time.Now,
		logger:    logger,
	}
}

// authorize rejects any caller other than the configured admin. It returns
// true when the caller may proceed.
func (c *Console) authorize(chatID, actorID int64) (bool, error) {
	if actorID == c.adminID && c.adminID != 0 {
		return true, nil
	}
	c.logger.Warn("admin action rejected", "actor", actorID)
	return false, c.sender.SendMessage(chatID, "❌ You don't have admin privileges.")
}

// Menu shows the admin panel.
func (c *Console) Menu(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 View All Responses", callback.Payload{Action: callback.AdminResponses}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Manage Members", callback.Payload{Action: callback.AdminMembers}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Pending Members", callback.Payload{Action: callback.AdminPending}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Send Survey to Everyone", callback.Payload{Action: callback.AdminBroadcast}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Send Surveys Here", callback.Payload{Action: callback.AdminBroadcastGroup}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Weekly Summary", callback.Payload{Action: callback.AdminAggregate}.Encode()),
		),
	)

	return c.sender.SendKeyboard(chatID, "🔧 Admin Panel\n\nSelect an option:", kb)
}

// ViewResponses lists every active member's current-week answers. Members
// with no rows are reported as such rather than omitted.
func (c *Console) ViewResponses(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}

	wk := week.Start(c.now())
	members, err := c.members.ListActive()
	if err != nil {
		return fmt.Errorf("list active members: %w", err)
	}
	if len(members) == 0 {
		return c.sender.SendMessage(chatID, "👥 No active members yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Weekly Meal Responses - Week of %s\n", wk)
	for _, m := range members {
		fmt.Fprintf(&b, "\n👤 %s\n", m.DisplayName())
		rows, err := c.responses.ListForWeek(m.ID, wk)
		if err != nil {
			return fmt.Errorf("list responses for member %d: %w", m.ID, err)
		}
		if len(rows) == 0 {
			b.WriteString("  ⚠️ No responses yet\n")
			continue
		}
		b.WriteString(survey.FormatRows(rows, "    "))
	}

	return c.sender.SendMessage(chatID, b.String())
}

// ManageMembers lists everyone with a per-member button that flips their
// active flag.
func (c *Console) ManageMembers(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}

	members, err := c.members.List()
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if len(members) == 0 {
		return c.sender.SendMessage(chatID, "👥 Nobody has contacted the bot yet.")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range members {
		label := "🔴 " + m.DisplayName() + " - tap to activate"
		action := callback.Activate
		if m.Active {
			label = "🟢 " + m.DisplayName() + " - tap to deactivate"
			action = callback.Deactivate
		}
		data := callback.Payload{Action: action, Target: m.ID}.Encode()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}

	text := "👥 Member Management\n\nMembers are added automatically when they use /start. Tap a member to flip their access."
	return c.sender.SendKeyboard(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// PendingMembers lists inactive members with approve and reject buttons.
// Rejection keeps the member inactive and tells them so; the row itself is
// never deleted.
func (c *Console) PendingMembers(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}

	pending, err := c.members.ListPending()
	if err != nil {
		return fmt.Errorf("list pending members: %w", err)
	}
	if len(pending) == 0 {
		return c.sender.SendMessage(chatID, "✅ No pending members.")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range pending {
		approve := callback.Payload{Action: callback.Activate, Target: m.ID}.Encode()
		reject := callback.Payload{Action: callback.Deactivate, Target: m.ID}.Encode()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve "+m.DisplayName(), approve),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Reject", reject),
		))
	}

	return c.sender.SendKeyboard(chatID, "⏳ Pending Members\n\nApprove or reject:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// BroadcastIndividual sends the survey to every active member in their own
// chat. Per-recipient failures are logged and counted, never fatal to the
// batch; the admin gets a final tally.
func (c *Console) BroadcastIndividual(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}
	return c.fanOut(chatID, func(m model.Member) error {
		return c.engine.Send(m.ID, m.ID)
	})
}

// BroadcastGroup posts one survey per active member into the current chat,
// each grid still scoped to its own member. Same fan-out tolerance as the
// individual broadcast.
func (c *Console) BroadcastGroup(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}
	return c.fanOut(chatID, func(m model.Member) error {
		return c.engine.Send(chatID, m.ID)
	})
}

func (c *Console) fanOut(chatID int64, send func(model.Member) error) error {
	members, err := c.members.ListActive()
	if err != nil {
		return fmt.Errorf("list active members: %w", err)
	}

	var errs error
	sent := 0
	for _, m := range members {
		if err := send(m); err != nil {
			c.logger.Warn("survey delivery failed", "member", m.ID, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("member %d: %w", m.ID, err))
			continue
		}
		sent++
	}

	failed := len(multierr.Errors(errs))
	tally := fmt.Sprintf("📤 Survey sent to %d member(s).", sent)
	if failed > 0 {
		tally = fmt.Sprintf("📤 Survey sent to %d member(s), %d delivery failure(s).", sent, failed)
	}
	return c.sender.SendMessage(chatID, tally)
}

// WeeklyAggregate reports, per day and meal, how many members answered yes
// for the current week.
func (c *Console) WeeklyAggregate(chatID, actorID int64) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}

	wk := week.Start(c.now())
	counts, err := c.responses.WeeklyCounts(wk)
	if err != nil {
		return fmt.Errorf("weekly counts: %w", err)
	}

	type cell struct {
		day  model.Day
		meal model.MealType
	}
	byCell := make(map[cell]int, len(counts))
	for _, cc := range counts {
		byCell[cell{cc.Day, cc.Meal}] = cc.Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 Weekly Meal Summary - Week of %s\n", wk)
	for _, day := range model.Days {
		fmt.Fprintf(&b, "\n📅 %s\n", day)
		for _, meal := range model.MealTypes {
			fmt.Fprintf(&b, "  • %s: %d people\n", meal.Title(), byCell[cell{day, meal}])
		}
	}

	return c.sender.SendMessage(chatID, b.String())
}

// SetActive flips a member's flag and best-effort notifies them of the
// change. Delivery failure to the member is logged only.
func (c *Console) SetActive(chatID, actorID, targetID int64, active bool) error {
	ok, err := c.authorize(chatID, actorID)
	if !ok {
		return err
	}

	m, err := c.members.GetByID(targetID)
	if err != nil {
		return fmt.Errorf("get member: %w", err)
	}
	if m == nil {
		return c.sender.SendMessage(chatID, fmt.Sprintf("⚠️ No member with id %d.", targetID))
	}

	if err := c.members.SetActive(targetID, active); err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	confirm := fmt.Sprintf("🔴 %s deactivated.", m.DisplayName())
	notice := "🔕 Your MealsBot membership was deactivated by the admin."
	if active {
		confirm = fmt.Sprintf("🟢 %s activated.", m.DisplayName())
		notice = "🎉 Your MealsBot membership was approved! Use /survey to fill out this week's meals."
	}

	if err := c.sender.SendMessage(chatID, confirm); err != nil {
		return err
	}
	if err := c.sender.SendMessage(targetID, notice); err != nil {
		c.logger.Warn("member notification failed", "member", targetID, "error", err)
	}
	return nil
}
