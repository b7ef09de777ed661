package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// StartHandler handles the /start command
type StartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(svc *service.Service, logger *logrus.Logger) *StartHandler {
	return &StartHandler{svc: svc, logger: logger}
}

// Handle greets the user and tells them whether this chat is logged in.
func (h *StartHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	s, err := h.svc.Workspace(message.Chat.ID).Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	text := `🎯 Welcome to RepBoT!

I manage your representative account: children, products and invitation codes.

New here? /register <email> <password> <YYYY-MM-DD> <country> <full name>
Already registered? /login <email> <password>

Use /help to see every command.`
	if s != nil {
		text = fmt.Sprintf("🎯 Welcome back, representative #%d!\n\nUse /dashboard for an overview or /help to see every command.", s.UserID)
	}

	if err := reply(bot, message.Chat.ID, text); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logFields(message)).Info("Sent start message")
	return nil
}
