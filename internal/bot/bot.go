// Package bot is the Telegram adapter: it connects to the Bot API, receives
// commands and button presses over long polling, and dispatches them to the
// survey engine and admin console. Callback payloads are decoded exactly
// once here, at the boundary.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/mealsbot/internal/admin"
	"github.com/dukerupert/mealsbot/internal/callback"
	"github.com/dukerupert/mealsbot/internal/store"
	"github.com/dukerupert/mealsbot/internal/survey"
)

// Connect authenticates against the Bot API, retrying with backoff so a
// flaky network at boot doesn't kill the process.
func Connect(ctx context.Context, token string, logger *slog.Logger) (*tgbotapi.BotAPI, error) {
	var api *tgbotapi.BotAPI
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		api, err = tgbotapi.NewBotAPI(token)
		if err != nil {
			logger.Warn("telegram connect failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	return api, nil
}

type Bot struct {
	api     *tgbotapi.BotAPI
	members *store.MemberStore
	engine  *survey.Engine
	console *admin.Console
	logger  *slog.Logger
}

func New(api *tgbotapi.BotAPI, members *store.MemberStore, engine *survey.Engine, console *admin.Console, logger *slog.Logger) *Bot {
	return &Bot{
		api:     api,
		members: members,
		engine:  engine,
		console: console,
		logger:  logger,
	}
}

// Run consumes updates until the context is canceled. Each update is
// handled to completion before the next; handler errors are logged, never
// fatal to the loop.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("listening for updates", "bot", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	user := msg.From
	if user == nil {
		return
	}
	chatID := msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		err = b.handleStart(chatID, user)
	case "help":
		err = b.reply(chatID, helpText)
	case "group":
		err = b.reply(chatID, groupText)
	case "survey":
		err = b.gated(chatID, user.ID, func() error {
			return b.engine.Send(chatID, user.ID)
		})
	case "my_responses":
		err = b.gated(chatID, user.ID, func() error {
			return b.engine.Summary(chatID, user.ID)
		})
	case "admin":
		err = b.console.Menu(chatID, user.ID)
	default:
		err = b.reply(chatID, "🤔 Unknown command. Try /help.")
	}

	if err != nil {
		b.logger.Error("command failed", "command", msg.Command(), "user", user.ID, "error", err)
	}
}

func (b *Bot) handleStart(chatID int64, user *tgbotapi.User) error {
	m, err := b.members.Upsert(user.ID, user.UserName, user.FirstName, user.LastName)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(welcomeText, user.FirstName)
	if !m.Active {
		text += "\n\n⏳ Your membership is pending until the admin approves it."
	}
	return b.reply(chatID, text)
}

// gated runs fn only for registered, active members.
func (b *Bot) gated(chatID, userID int64, fn func() error) error {
	active, err := b.members.IsActive(userID)
	if err != nil {
		return err
	}
	if !active {
		return b.reply(chatID, "⏳ You're not an active member yet. Send /start and ask the admin to approve you.")
	}
	return fn()
}

func (b *Bot) handleCallback(q *tgbotapi.CallbackQuery) {
	// Acknowledge the press so the client stops its spinner, whatever
	// happens next.
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Warn("answer callback failed", "error", err)
	}
	if q.Message == nil {
		return
	}

	p, err := callback.Decode(q.Data)
	if err != nil {
		b.logger.Warn("bad callback payload", "data", q.Data, "error", err)
		return
	}

	chatID := q.Message.Chat.ID
	actor := q.From.ID

	switch p.Action {
	case callback.Noop:
		return
	case callback.Toggle:
		toggled, err := b.engine.Toggle(chatID, actor, p)
		if err != nil {
			b.logger.Error("toggle failed", "user", actor, "error", err)
			return
		}
		if toggled {
			b.refreshKeyboard(chatID, q.Message.MessageID, p.Target)
		}
		return
	case callback.Review:
		err = b.engine.Review(chatID, actor, p.Target)
	case callback.Submit:
		err = b.engine.Submit(chatID, actor, p.Target)
	case callback.AdminResponses:
		err = b.console.ViewResponses(chatID, actor)
	case callback.AdminMembers:
		err = b.console.ManageMembers(chatID, actor)
	case callback.AdminPending:
		err = b.console.PendingMembers(chatID, actor)
	case callback.AdminBroadcast:
		err = b.console.BroadcastIndividual(chatID, actor)
	case callback.AdminBroadcastGroup:
		err = b.console.BroadcastGroup(chatID, actor)
	case callback.AdminAggregate:
		err = b.console.WeeklyAggregate(chatID, actor)
	case callback.Activate:
		err = b.console.SetActive(chatID, actor, p.Target, true)
	case callback.Deactivate:
		err = b.console.SetActive(chatID, actor, p.Target, false)
	}

	if err != nil {
		b.logger.Error("callback failed", "action", p.Action, "user", actor, "error", err)
	}
}

// refreshKeyboard re-renders the survey grid in place after a toggle so the
// button marks track stored state.
func (b *Bot) refreshKeyboard(chatID int64, messageID int, targetID int64) {
	kb, err := b.engine.Keyboard(targetID)
	if err != nil {
		b.logger.Warn("render keyboard failed", "member", targetID, "error", err)
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, kb)
	if _, err := b.api.Request(edit); err != nil {
		b.logger.Warn("edit keyboard failed", "member", targetID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
