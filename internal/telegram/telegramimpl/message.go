package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/telegram"
	"github.com/orgball2608/reddit-reader-bot/pkg/formatter"
	"github.com/orgball2608/reddit-reader-bot/pkg/retry"
)

// Telegram caps photo captions at 1024 characters.
const captionLimit = 1024

// SendMessage sends a plain text message and returns its message ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	var sent tgbotapi.Message
	err := tg.send("SendMessage", func() error {
		var err error
		sent, err = tg.TgBot.Send(msg)
		return err
	})
	if err != nil {
		tg.Logger.Error("Error sending message", "chatID", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

// SendPost sends a post as a photo when it has a preview, as text otherwise.
func (tg *TelegramImpl) SendPost(chatID int64, post domain.Post) error {
	keyboard := PostKeyboard(post)
	text := FormatPost(post)

	if post.HasImage() && len(text) <= captionLimit {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(post.ImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		photo.ReplyMarkup = keyboard

		err := tg.send("SendPhoto", func() error {
			_, err := tg.TgBot.Send(photo)
			return err
		})
		if err == nil {
			return nil
		}
		tg.Logger.Warn("Failed to send post photo, falling back to text", "postID", post.ID, "error", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = !post.HasImage()
	msg.ReplyMarkup = keyboard

	err := tg.send("SendPost", func() error {
		_, err := tg.TgBot.Send(msg)
		return err
	})
	if err != nil {
		tg.Logger.Error("Error sending post", "chatID", chatID, "postID", post.ID, "error", err)
		return fmt.Errorf("failed to send post %s: %w", post.ID, err)
	}
	return nil
}

// SendPostToDefaultChannel shares a post to the configured channel
func (tg *TelegramImpl) SendPostToDefaultChannel(post domain.Post) error {
	channelName := "@" + tg.Config.Telegram.Channel
	text := FormatPost(post)

	var c tgbotapi.Chattable
	if post.HasImage() && len(text) <= captionLimit {
		photo := tgbotapi.NewPhotoToChannel(channelName, tgbotapi.FileURL(post.ImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		c = photo
	} else {
		msg := tgbotapi.NewMessageToChannel(channelName, text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		c = msg
	}

	err := tg.send("SendPostToChannel", func() error {
		_, err := tg.TgBot.Send(c)
		return err
	})
	if err != nil {
		tg.Logger.Error("Error sharing post to channel", "channel", channelName, "postID", post.ID, "error", err)
		return fmt.Errorf("failed to share post %s: %w", post.ID, err)
	}

	tg.Logger.Info("Shared post to channel", "channel", channelName, "postID", post.ID)
	return nil
}

// UpdatePostButtons swaps the inline keyboard of a sent post
func (tg *TelegramImpl) UpdatePostButtons(chatID int64, messageID int, post domain.Post) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, PostKeyboard(post))
	if _, err := tg.TgBot.Request(edit); err != nil {
		return fmt.Errorf("failed to update buttons: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press with a short notice
func (tg *TelegramImpl) AnswerCallback(callbackID string, text string) error {
	if _, err := tg.TgBot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// send retries transient failures; Telegram rejections of the request itself are final.
func (tg *TelegramImpl) send(operation string, fn func() error) error {
	return retry.Do(context.Background(), tg.Logger, operation, func() error {
		err := fn()
		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) && tgErr.Code >= http.StatusBadRequest && tgErr.Code < http.StatusInternalServerError && tgErr.Code != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
		return err
	}, retry.DefaultConfig())
}

// FormatPost renders a post in MarkdownV2.
func FormatPost(post domain.Post) string {
	var sb strings.Builder

	sb.WriteString("*")
	sb.WriteString(formatter.EscapeMarkdownV2(formatter.Truncate(post.Title, 300)))
	sb.WriteString("*\n")

	meta := make([]string, 0, 3)
	for _, part := range []string{post.Author, post.TimePassed, post.Domain} {
		if part != "" {
			meta = append(meta, formatter.EscapeMarkdownV2(part))
		}
	}
	sb.WriteString(strings.Join(meta, " • "))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("⬆️ %s  💬 %s\n",
		formatter.EscapeMarkdownV2(formatter.FormatNumber(post.Rating)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(post.NumComments)),
	))
	sb.WriteString(fmt.Sprintf("[Open on Reddit](%s)", escapeLinkURL(post.Permalink)))
	sb.WriteString(fmt.Sprintf(" `%s`", post.ID))

	return sb.String()
}

// PostKeyboard builds the save/share buttons for a post.
func PostKeyboard(post domain.Post) tgbotapi.InlineKeyboardMarkup {
	saveLabel := "🔖 Save"
	if post.Saved {
		saveLabel = "✅ Saved"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(saveLabel, telegram.CallbackSave+post.ID),
			tgbotapi.NewInlineKeyboardButtonData("📤 Share", telegram.CallbackShare+post.ID),
		),
	)
}

// Inside (...) of a MarkdownV2 link only ')' and '\' must be escaped.
func escapeLinkURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}
