package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/shared"
	"github.com/orgball2608/reddit-reader-bot/internal/telegram"
	apperrors "github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

func (c *CommandImpl) handleShare(ctx context.Context, chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a post id: /share <id>")
		return err
	}

	text, err := c.sharePost(ctx, chatID, id)
	if err != nil {
		return c.replyError(chatID, "Could not share the post.", err)
	}
	_, err = c.Telegram.SendMessage(chatID, text)
	return err
}

// sharePost returns the reply for the user. Only unexpected failures are errors.
func (c *CommandImpl) sharePost(ctx context.Context, chatID int64, id string) (string, error) {
	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		return "", err
	}

	post, ok := ctrl.Post(id)
	if !ok {
		return fmt.Sprintf("Post %s is not in the current list.", id), nil
	}

	err = c.Share.Share(ctx, post, ctrl.Subreddit())
	switch {
	case errors.Is(err, shared.ErrAlreadyExists):
		return "Already shared.", nil
	case err != nil:
		return "", err
	}
	return "📤 Shared to the channel.", nil
}

func (c *CommandImpl) handleCallback(ctx context.Context, callbackQuery *tgbotapi.CallbackQuery) {
	if callbackQuery.Message == nil || callbackQuery.Message.Chat == nil {
		_ = c.Telegram.AnswerCallback(callbackQuery.ID, "")
		return
	}
	chatID := callbackQuery.Message.Chat.ID

	switch {
	case strings.HasPrefix(callbackQuery.Data, telegram.CallbackSave):
		id := strings.TrimPrefix(callbackQuery.Data, telegram.CallbackSave)
		c.answerSave(chatID, callbackQuery, id)
	case strings.HasPrefix(callbackQuery.Data, telegram.CallbackShare):
		id := strings.TrimPrefix(callbackQuery.Data, telegram.CallbackShare)
		text, err := c.sharePost(ctx, chatID, id)
		if err != nil {
			c.Logger.Error("Failed to share post from button", "postID", id, "error", err)
			text = "⚠️ Could not share the post."
		}
		_ = c.Telegram.AnswerCallback(callbackQuery.ID, text)
	default:
		c.Logger.Warn("Unknown callback data", "data", callbackQuery.Data)
		_ = c.Telegram.AnswerCallback(callbackQuery.ID, "")
	}
}

func (c *CommandImpl) answerSave(chatID int64, callbackQuery *tgbotapi.CallbackQuery, id string) {
	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		c.Logger.Error("Failed to open session for button", "chatID", chatID, "error", err)
		_ = c.Telegram.AnswerCallback(callbackQuery.ID, "⚠️ Could not save the post.")
		return
	}

	post, err := ctrl.ToggleSaved(id)
	if err != nil {
		text := "⚠️ Could not save the post."
		if apperrors.IsNotFound(err) {
			text = "This post is no longer listed. Use /feed or /saved."
		} else {
			c.Logger.Error("Failed to toggle saved post from button", "postID", id, "error", err)
		}
		_ = c.Telegram.AnswerCallback(callbackQuery.ID, text)
		return
	}

	text := "🔖 Saved"
	if !post.Saved {
		text = "Removed from saved"
	}
	_ = c.Telegram.AnswerCallback(callbackQuery.ID, text)

	if err := c.Telegram.UpdatePostButtons(chatID, callbackQuery.Message.MessageID, post); err != nil {
		c.Logger.Warn("Failed to update post buttons", "postID", id, "error", err)
	}
}
