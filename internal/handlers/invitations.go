package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// ---------------------------------------------------------------------------
// InvitesHandler – /invites
// ---------------------------------------------------------------------------

// InvitesHandler handles the /invites command to list the invitation codes created by the representative.
type InvitesHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewInvitesHandler creates a new InvitesHandler.
func NewInvitesHandler(svc *service.Service, logger *logrus.Logger) *InvitesHandler {
	return &InvitesHandler{svc: svc, logger: logger}
}

// Handle processes the /invites command.
func (h *InvitesHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var invitations []models.Invitation
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		invitations, err = w.API.Invitations.List(ctx)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, formatList("🎟 Invitations", invitations, formatInvitation, "No invitations yet. Create one with /invite."))
}

// ---------------------------------------------------------------------------
// InviteHandler – /invite
// ---------------------------------------------------------------------------

// InviteHandler handles the /invite command to create a new invitation code.
type InviteHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(svc *service.Service, logger *logrus.Logger) *InviteHandler {
	return &InviteHandler{svc: svc, logger: logger}
}

// Handle processes the /invite command.
func (h *InviteHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var inv *models.Invitation
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		inv, err = w.API.Invitations.Create(ctx)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("invitation_id", inv.ID).Info("Invitation created")
	return reply(bot, message.Chat.ID, "🎟 New invitation code: "+inv.Code)
}

// ---------------------------------------------------------------------------
// ValidateHandler – /validate <code>
// ---------------------------------------------------------------------------

// ValidateHandler handles the /validate command to check an invitation code without using it.
type ValidateHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler(svc *service.Service, logger *logrus.Logger) *ValidateHandler {
	return &ValidateHandler{svc: svc, logger: logger}
}

// Handle processes the /validate command.
func (h *ValidateHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return usage(bot, message.Chat.ID, "/validate <code>")
	}

	// Codes can be checked without logging in.
	w := h.svc.Workspace(message.Chat.ID)

	var inv *models.Invitation
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		inv, err = w.API.Invitations.Validate(ctx, args[0])
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, "✅ Code "+inv.Code+" is valid and unused.")
}

// ---------------------------------------------------------------------------
// UseHandler – /use <code>
// ---------------------------------------------------------------------------

// UseHandler handles the /use command to redeem an invitation code.
type UseHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewUseHandler creates a new UseHandler.
func NewUseHandler(svc *service.Service, logger *logrus.Logger) *UseHandler {
	return &UseHandler{svc: svc, logger: logger}
}

// Handle forwards the code unchanged; whether it can be used is decided by
// the server.
func (h *UseHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return usage(bot, message.Chat.ID, "/use <code>")
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var inv *models.Invitation
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		inv, err = w.API.Invitations.Use(ctx, args[0])
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("invitation_id", inv.ID).Info("Invitation used")
	return reply(bot, message.Chat.ID, "✅ Invitation "+inv.Code+" used.")
}
