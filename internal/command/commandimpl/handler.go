package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `👋 Welcome to the Reddit Reader Bot!

Here are the available commands:

FEED:
/feed - Start the feed over from the first page.
/more - Load the next page.

SAVED POSTS:
/saved - List your saved posts.
/search <text> - Filter saved posts by title. Without text the filter is cleared.
/save <id> - Save or unsave a listed post.

SHARING:
/share <id> - Share a listed post to the channel.

Every post also has Save and Share buttons.
Type /help at any time to see this guide.`

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}

			go func(u tgbotapi.Update) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
					}
				}()

				c.handleUpdate(ctx, u)
			}(update)
		}
	}
}

func (c *CommandImpl) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	if u.CallbackQuery != nil {
		if !c.isAllowedUser(u.CallbackQuery.From) {
			_ = c.Telegram.AnswerCallback(u.CallbackQuery.ID, "This bot is private.")
			return
		}
		c.handleCallback(ctx, u.CallbackQuery)
		return
	}

	if u.Message == nil || !u.Message.IsCommand() {
		return
	}

	chatID := u.Message.Chat.ID
	if !c.isAllowedUser(u.Message.From) {
		c.Logger.Warn("Ignoring command from unknown user", "chatID", chatID)
		return
	}

	if allowed, wait := c.Limiter.Allow(chatID); !allowed {
		seconds := int(math.Ceil(wait.Seconds()))
		_, _ = c.Telegram.SendMessage(chatID, fmt.Sprintf("⏳ Too many requests. Try again in %ds.", seconds))
		return
	}

	c.Logger.Info("Command received", "chatID", chatID, "command", u.Message.Command(), "sessions", c.Sessions.Len())

	if err := c.processCommand(ctx, u); err != nil {
		c.Logger.Error("Error processing command",
			"command", u.Message.Command(),
			"error", err)
	}
}

// isAllowedUser restricts the bot to the configured user. Zero allows everyone.
func (c *CommandImpl) isAllowedUser(from *tgbotapi.User) bool {
	if c.Config.Telegram.User == 0 {
		return true
	}
	return from != nil && from.ID == c.Config.Telegram.User
}

func (c *CommandImpl) processCommand(ctx context.Context, update tgbotapi.Update) error {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID

	switch command {
	case "start":
		c.Sessions.Reset(chatID)
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "feed":
		return c.handleFeed(ctx, chatID)
	case "more":
		return c.handleMore(ctx, chatID)
	case "saved":
		return c.handleSaved(chatID)
	case "search":
		return c.handleSearch(chatID, args)
	case "save":
		return c.handleSave(chatID, args)
	case "share":
		return c.handleShare(ctx, chatID, args)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}
