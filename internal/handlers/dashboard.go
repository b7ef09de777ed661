package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/dashboard"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// DashboardHandler handles /dashboard: every section is fetched at once and
// a failed section is shown as such next to the ones that loaded.
type DashboardHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.Service, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Handle processes the /dashboard command.
func (h *DashboardHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	chatID := message.Chat.ID
	w := h.svc.Workspace(chatID)

	redirect := func() {
		if err := reply(bot, chatID, "🔒 Please /login to see your dashboard."); err != nil {
			h.logger.WithFields(logFields(message)).WithError(err).Error("Failed to send login prompt")
		}
	}

	d, err := w.Dashboard(ctx, redirect)
	switch {
	case errors.Is(err, dashboard.ErrRedirected), errors.Is(err, dashboard.ErrClosed):
		return nil
	case errors.Is(err, dashboard.ErrStale):
		return reply(bot, chatID, "⚠️ Your session changed while loading. Please run /dashboard again.")
	case err != nil:
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏠 Dashboard of representative #%d\n\n", d.UserID))
	sb.WriteString(section("📦 Products", d.Products, formatProduct, "No products yet. Add one with /addproduct."))
	sb.WriteString("\n\n")
	sb.WriteString(section("🎟 Invitations", d.Invitations, formatInvitation, "No invitations yet. Create one with /invite."))
	sb.WriteString("\n\n")
	sb.WriteString(section("👶 Children", d.Children, formatChild, "No children yet. Add one with /addchild."))

	if err := d.Err(); err != nil {
		h.logger.WithFields(logFields(message)).WithError(err).Warn("Dashboard partially loaded")
	}
	return reply(bot, chatID, sb.String())
}

func section[T any](title string, s dashboard.Section[T], format func(T) string, empty string) string {
	if s.Failed() {
		reason := "the server could not be reached"
		if d := client.Detail(s.Err); d != "" {
			reason = d
		} else if client.IsUnexpected(s.Err) {
			reason = "unexpected response"
		}
		return fmt.Sprintf("%s\n⚠️ Could not be loaded (%s). Try /dashboard again.", title, reason)
	}
	return formatList(title, s.Items, format, empty)
}
