package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/forms"
	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// forgetSecret deletes a message carrying a password. Failure (for example
// missing rights in a group) is only logged.
func forgetSecret(bot telegram.Sender, message *tgbotapi.Message, logger *logrus.Logger) {
	if _, err := bot.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)); err != nil {
		logger.WithFields(logFields(message)).WithError(err).Warn("Failed to delete message with password")
	}
}

// parseRepresentative reads "<email> <YYYY-MM-DD> <country> <full name…>".
func parseRepresentative(args []string) (models.RepresentativeInput, error) {
	if len(args) < 4 {
		return models.RepresentativeInput{}, errUsage
	}
	birth, err := models.ParseDate(args[1])
	if err != nil {
		return models.RepresentativeInput{}, err
	}
	return models.RepresentativeInput{
		Email:     args[0],
		BirthDate: birth,
		Country:   args[2],
		FullName:  strings.Join(args[3:], " "),
	}, nil
}

// ---------------------------------------------------------------------------
// LoginHandler – /login <email> <password>
// ---------------------------------------------------------------------------

// LoginHandler handles the /login command to log the chat in and store the session.
type LoginHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(svc *service.Service, logger *logrus.Logger) *LoginHandler {
	return &LoginHandler{svc: svc, logger: logger}
}

// Handle processes the /login command.
func (h *LoginHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	forgetSecret(bot, message, h.logger)

	if len(args) != 2 {
		return usage(bot, message.Chat.ID, "/login <email> <password>")
	}
	creds := models.Credentials{Username: args[0], Password: args[1]}
	if err := forms.Validate(creds); err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	res, err := h.svc.Workspace(message.Chat.ID).Login(ctx, creds)
	if err != nil {
		// 401 here means wrong credentials, not an expired session.
		if client.IsUnauthorized(err) {
			return reply(bot, message.Chat.ID, "❌ "+detailOr(err, "Incorrect email or password"))
		}
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("representative_id", res.User.ID).Info("Chat logged in")
	return reply(bot, message.Chat.ID, fmt.Sprintf("✅ Logged in as %s. Use /dashboard for an overview.", res.User.Email))
}

// ---------------------------------------------------------------------------
// RegisterHandler – /register <email> <password> <YYYY-MM-DD> <country> <name…>
// ---------------------------------------------------------------------------

// RegisterHandler handles the /register command to create an account and log in.
type RegisterHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(svc *service.Service, logger *logrus.Logger) *RegisterHandler {
	return &RegisterHandler{svc: svc, logger: logger}
}

// Handle processes the /register command.
func (h *RegisterHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	forgetSecret(bot, message, h.logger)

	const syntax = "/register <email> <password> <YYYY-MM-DD> <country> <full name>"
	if len(args) < 5 {
		return usage(bot, message.Chat.ID, syntax)
	}
	rep, err := parseRepresentative(append([]string{args[0]}, args[2:]...))
	if err != nil {
		return reply(bot, message.Chat.ID, "❌ "+err.Error())
	}
	data := models.RegisterData{RepresentativeInput: rep, Password: args[1]}
	if err := forms.Validate(data); err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	w := h.svc.Workspace(message.Chat.ID)
	created, err := w.API.Auth.Register(ctx, data)
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}
	h.logger.WithFields(logFields(message)).WithField("representative_id", created.ID).Info("Representative registered")

	if _, err := w.Login(ctx, models.Credentials{Username: data.Email, Password: data.Password}); err != nil {
		h.logger.WithFields(logFields(message)).WithError(err).Warn("Login after registration failed")
		return reply(bot, message.Chat.ID, fmt.Sprintf("✅ Account created for %s. Please /login.", created.Email))
	}
	return reply(bot, message.Chat.ID, fmt.Sprintf("✅ Welcome, %s! You are logged in. Use /help to get started.", created.FullName))
}

// ---------------------------------------------------------------------------
// LogoutHandler – /logout
// ---------------------------------------------------------------------------

// LogoutHandler handles the /logout command to forget the stored session.
type LogoutHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(svc *service.Service, logger *logrus.Logger) *LogoutHandler {
	return &LogoutHandler{svc: svc, logger: logger}
}

// Handle processes the /logout command.
func (h *LogoutHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if err := h.svc.Workspace(message.Chat.ID).Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	h.logger.WithFields(logFields(message)).Info("Chat logged out")
	return reply(bot, message.Chat.ID, "👋 Logged out.")
}

// ---------------------------------------------------------------------------
// MeHandler – /me
// ---------------------------------------------------------------------------

// MeHandler handles the /me command to show the logged-in profile.
type MeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(svc *service.Service, logger *logrus.Logger) *MeHandler {
	return &MeHandler{svc: svc, logger: logger}
}

// Handle processes the /me command.
func (h *MeHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var profile *models.Profile
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		profile, err = w.API.Auth.Me(ctx)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	var sb strings.Builder
	sb.WriteString(formatRepresentative(profile.Representative))
	sb.WriteString(fmt.Sprintf("\n\n👶 Children: %d\n📦 Products: %d\n🎟 Invitations: %d",
		len(profile.Children), len(profile.Products), len(profile.Invitations)))
	return reply(bot, message.Chat.ID, sb.String())
}

// ---------------------------------------------------------------------------
// EditMeHandler – /editme <email> <YYYY-MM-DD> <country> <name…>
// ---------------------------------------------------------------------------

// EditMeHandler handles the /editme command to update the logged-in profile.
type EditMeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewEditMeHandler creates a new EditMeHandler.
func NewEditMeHandler(svc *service.Service, logger *logrus.Logger) *EditMeHandler {
	return &EditMeHandler{svc: svc, logger: logger}
}

// Handle processes the /editme command.
func (h *EditMeHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	in, err := parseRepresentative(args)
	if errors.Is(err, errUsage) {
		return usage(bot, message.Chat.ID, "/editme <email> <YYYY-MM-DD> <country> <full name>")
	}
	if err != nil {
		return reply(bot, message.Chat.ID, "❌ "+err.Error())
	}
	if err := forms.Validate(in); err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var rep *models.Representative
	err = w.Call(ctx, func(ctx context.Context) (err error) {
		rep, err = w.API.Auth.UpdateMe(ctx, in)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).Info("Profile updated")
	return reply(bot, message.Chat.ID, "✅ Profile updated.\n\n"+formatRepresentative(*rep))
}
