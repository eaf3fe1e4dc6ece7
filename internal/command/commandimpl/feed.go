package commandimpl

import (
	"context"
	"fmt"

	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/feed"
	"github.com/orgball2608/reddit-reader-bot/pkg/errors"
)

func (c *CommandImpl) handleFeed(ctx context.Context, chatID int64) error {
	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		return c.replyError(chatID, "Could not open the feed.", err)
	}

	if err := ctrl.ShowFeed(); err != nil {
		return c.replyError(chatID, "Could not open the feed.", err)
	}

	if _, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("📰 Loading %s...", ctrl.Subreddit())); err != nil {
		return err
	}

	return c.loadPage(ctx, chatID, ctrl)
}

func (c *CommandImpl) handleMore(ctx context.Context, chatID int64) error {
	ctrl, err := c.Sessions.Get(chatID)
	if err != nil {
		return c.replyError(chatID, "Could not open the feed.", err)
	}
	return c.loadPage(ctx, chatID, ctrl)
}

func (c *CommandImpl) loadPage(ctx context.Context, chatID int64, ctrl *feed.Controller) error {
	res := ctrl.FetchNextPage(ctx)

	switch res.Status {
	case feed.StatusInFlight:
		_, err := c.Telegram.SendMessage(chatID, "⏳ Still loading the previous page.")
		return err
	case feed.StatusSavedMode:
		_, err := c.Telegram.SendMessage(chatID, "You are viewing saved posts. Use /feed to go back to the feed.")
		return err
	case feed.StatusExhausted:
		_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("No more posts in %s.", ctrl.Subreddit()))
		return err
	case feed.StatusRecovered:
		_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("⚠️ Could not load posts (%s). Try /more again.", errorCode(res.Err)))
		return err
	case feed.StatusDiscarded:
		// The chat already switched views and got its own reply.
		c.Logger.Debug("Dropped page of a replaced session", "chatID", chatID)
		return nil
	}

	if len(res.Posts) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "This page has no posts.")
		return err
	}

	if err := c.sendPosts(chatID, res.Posts); err != nil {
		return err
	}

	footer := "Use /more for the next page."
	if !ctrl.HasMore() {
		footer = fmt.Sprintf("That's all of %s.", ctrl.Subreddit())
	}
	_, err := c.Telegram.SendMessage(chatID, footer)
	return err
}

// sendPosts keeps going after a failed post so one bad preview does not hide the page.
func (c *CommandImpl) sendPosts(chatID int64, posts []domain.Post) error {
	failed := 0
	for _, post := range posts {
		if err := c.Telegram.SendPost(chatID, post); err != nil {
			c.Logger.Error("Failed to send post", "chatID", chatID, "postID", post.ID, "error", err)
			failed++
		}
	}
	if failed == len(posts) && failed > 0 {
		return fmt.Errorf("failed to send all %d posts", failed)
	}
	return nil
}

func errorCode(err error) string {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return "network_error"
}

func (c *CommandImpl) replyError(chatID int64, text string, err error) error {
	c.Logger.Error(text, "chatID", chatID, "code", errors.GetCode(err), "error", err)
	_, sendErr := c.Telegram.SendMessage(chatID, "⚠️ "+text)
	if sendErr != nil {
		return sendErr
	}
	return err
}
