package commandimpl

import (
	"fmt"
	"strings"

	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

func (c *CommandImpl) handleSaved(chatID int64) error {
	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		return c.replyError(chatID, "Could not open saved posts.", err)
	}

	res := ctrl.ShowSaved()
	if res.Recovery == saved.RecoveryCorrupt {
		if _, err := c.Telegram.SendMessage(chatID, "⚠️ Saved posts could not be read, showing an empty list."); err != nil {
			return err
		}
	}

	posts := ctrl.Posts()
	if len(posts) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "No saved posts yet. Use /save <id> or the Save button.")
		return err
	}

	if _, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("🔖 %d saved post(s):", len(posts))); err != nil {
		return err
	}
	return c.sendPosts(chatID, posts)
}

func (c *CommandImpl) handleSearch(chatID int64, args string) error {
	query := strings.TrimSpace(args)

	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		return c.replyError(chatID, "Could not search saved posts.", err)
	}

	if !ctrl.Filter(query) {
		_, err := c.Telegram.SendMessage(chatID, "Search works on saved posts. Use /saved first.")
		return err
	}

	posts := ctrl.Posts()
	switch {
	case len(posts) == 0 && query == "":
		_, err := c.Telegram.SendMessage(chatID, "No saved posts yet.")
		return err
	case len(posts) == 0:
		_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("No saved posts match %q.", query))
		return err
	}

	header := fmt.Sprintf("🔎 %d saved post(s) match %q:", len(posts), query)
	if query == "" {
		header = fmt.Sprintf("Filter cleared, %d saved post(s):", len(posts))
	}
	if _, err := c.Telegram.SendMessage(chatID, header); err != nil {
		return err
	}
	return c.sendPosts(chatID, posts)
}

func (c *CommandImpl) handleSave(chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a post id: /save <id>")
		return err
	}

	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		return c.replyError(chatID, "Could not save the post.", err)
	}

	post, err := ctrl.ToggleSaved(id)
	if err != nil {
		if errors.IsNotFound(err) {
			_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Post %s is not in the current list.", id))
			return err
		}
		return c.replyError(chatID, "Could not save the post.", err)
	}

	text := fmt.Sprintf("🔖 Saved: %s", post.Title)
	if !post.Saved {
		text = fmt.Sprintf("Removed from saved: %s", post.Title)
	}
	_, err = c.Telegram.SendMessage(chatID, text)
	return err
}
