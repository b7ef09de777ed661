package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

// Handle processes the /help command.
func (h *HelpHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	helpText := `📚 RepBoT Help

Account:
• /register <email> <password> <YYYY-MM-DD> <country> <full name> - Create an account
• /login <email> <password> - Log in
• /logout - Log out
• /me - Show your profile
• /editme <email> <YYYY-MM-DD> <country> <full name> - Update your profile
• /dashboard - Overview of products, invitations and children

Children:
• /children - List children
• /addchild <YYYY-MM-DD> <country> <full name> - Add a child
• /editchild <id> <YYYY-MM-DD> <country> <full name> - Update a child
• /delchild <id> - Delete a child

Products:
• /products - List products
• /product <id> - Show a product
• /addproduct <price> <stock> <name> | <description> - Add a product
• /editproduct <id> <price> <stock> <name> | <description> - Update a product
• /delproduct <id> - Delete a product

Invitations:
• /invites - List your invitation codes
• /invite - Create an invitation code
• /validate <code> - Check a code without using it
• /use <code> - Use a code

Passwords sent with /login and /register are deleted from the chat.`

	if err := reply(bot, message.Chat.ID, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logFields(message)).Info("Sent help message")
	return nil
}
