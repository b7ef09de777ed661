package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/forms"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

const (
	msgLoginFirst     = "🔒 Please /login first."
	msgSessionExpired = "🔒 Your session expired, please /login again."
	msgUnreachable    = "⚠️ The server could not be reached. Please try again."
	msgUnexpected     = "⚠️ The server sent an unexpected response. Please try again later."
)

// reply sends plain text. User supplied values end up in replies, so no
// parse mode is set.
func reply(bot telegram.Sender, chatID int64, text string) error {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// usage replies with the expected syntax of a command.
func usage(bot telegram.Sender, chatID int64, syntax string) error {
	return reply(bot, chatID, "❌ Usage: "+syntax)
}

// fail turns a classified error into a user message. Errors it cannot
// classify are returned for the router to log.
func fail(bot telegram.Sender, chatID int64, err error) error {
	var fe forms.Errors
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return reply(bot, chatID, msgSessionExpired)
	case errors.As(err, &fe):
		return reply(bot, chatID, "❌ "+fe.Error())
	case client.IsValidation(err):
		return reply(bot, chatID, "❌ "+detailOr(err, "The request was rejected."))
	case client.IsTransient(err):
		return reply(bot, chatID, msgUnreachable)
	case client.IsUnexpected(err):
		return reply(bot, chatID, msgUnexpected)
	case client.IsUnauthorized(err):
		return reply(bot, chatID, msgLoginFirst)
	default:
		return err
	}
}

// requireSession reports whether the chat has a session, prompting for a
// login when it has none.
func requireSession(ctx context.Context, bot telegram.Sender, w *service.Workspace) (bool, error) {
	s, err := w.Session(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read session: %w", err)
	}
	if s == nil {
		return false, reply(bot, w.ChatID, msgLoginFirst)
	}
	return true, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// splitPipe splits "left | right" into its two trimmed halves.
func splitPipe(args []string) (string, string, bool) {
	left, right, ok := strings.Cut(strings.Join(args, " "), "|")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}

func logFields(message *tgbotapi.Message) logrus.Fields {
	fields := logrus.Fields{"chat_id": message.Chat.ID}
	if message.From != nil {
		fields["user_id"] = message.From.ID
	}
	return fields
}

var errUsage = errors.New("wrong arguments")

// detailOr returns the server detail of err, or fallback when there is none.
func detailOr(err error, fallback string) string {
	if d := client.Detail(err); d != "" {
		return d
	}
	return fallback
}

// rejectInput explains why command arguments could not be used.
func rejectInput(bot telegram.Sender, chatID int64, err error, syntax string) error {
	var fe forms.Errors
	switch {
	case errors.Is(err, errUsage):
		return usage(bot, chatID, syntax)
	case errors.As(err, &fe):
		return reply(bot, chatID, "❌ "+fe.Error())
	default:
		return reply(bot, chatID, "❌ "+err.Error()+"\nUsage: "+syntax)
	}
}
