package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/reddit-reader-bot/internal/domain"
)

// Callback data prefixes of the post buttons, followed by the post ID.
const (
	CallbackSave  = "save:"
	CallbackShare = "share:"
)

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go

type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	// SendPost renders a post with its save/share buttons.
	SendPost(chatID int64, post domain.Post) error
	// UpdatePostButtons refreshes the buttons of a previously sent post.
	UpdatePostButtons(chatID int64, messageID int, post domain.Post) error
	AnswerCallback(callbackID string, text string) error

	// SendPostToDefaultChannel shares a post to the configured channel.
	SendPostToDefaultChannel(post domain.Post) error
}
