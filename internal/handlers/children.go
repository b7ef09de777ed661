package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/forms"
	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// parseChild reads "<YYYY-MM-DD> <country> <full name…>" and validates it.
func parseChild(args []string) (models.ChildInput, error) {
	if len(args) < 3 {
		return models.ChildInput{}, errUsage
	}
	birth, err := models.ParseDate(args[0])
	if err != nil {
		return models.ChildInput{}, err
	}
	in := models.ChildInput{
		BirthDate: birth,
		Country:   args[1],
		FullName:  strings.Join(args[2:], " "),
	}
	if err := forms.Validate(in); err != nil {
		return models.ChildInput{}, err
	}
	return in, nil
}

// ---------------------------------------------------------------------------
// ChildrenHandler – /children
// ---------------------------------------------------------------------------

// ChildrenHandler handles the /children command to list the representative's children.
type ChildrenHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewChildrenHandler creates a new ChildrenHandler.
func NewChildrenHandler(svc *service.Service, logger *logrus.Logger) *ChildrenHandler {
	return &ChildrenHandler{svc: svc, logger: logger}
}

// Handle processes the /children command.
func (h *ChildrenHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var children []models.Child
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		children, err = w.API.Children.List(ctx)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, formatList("👶 Children", children, formatChild, "No children yet. Add one with /addchild."))
}

// ---------------------------------------------------------------------------
// AddChildHandler – /addchild <YYYY-MM-DD> <country> <name…>
// ---------------------------------------------------------------------------

// AddChildHandler handles the /addchild command to register a child.
type AddChildHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddChildHandler creates a new AddChildHandler.
func NewAddChildHandler(svc *service.Service, logger *logrus.Logger) *AddChildHandler {
	return &AddChildHandler{svc: svc, logger: logger}
}

// Handle processes the /addchild command.
func (h *AddChildHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	in, err := parseChild(args)
	if err != nil {
		return rejectInput(bot, message.Chat.ID, err, "/addchild <YYYY-MM-DD> <country> <full name>")
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var child *models.Child
	err = w.Call(ctx, func(ctx context.Context) (err error) {
		child, err = w.API.Children.Create(ctx, in)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("child_id", child.ID).Info("Child created")
	return reply(bot, message.Chat.ID, "✅ Child added\n"+formatChild(*child))
}

// ---------------------------------------------------------------------------
// EditChildHandler – /editchild <id> <YYYY-MM-DD> <country> <name…>
// ---------------------------------------------------------------------------

// EditChildHandler handles the /editchild command to update a child.
type EditChildHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewEditChildHandler creates a new EditChildHandler.
func NewEditChildHandler(svc *service.Service, logger *logrus.Logger) *EditChildHandler {
	return &EditChildHandler{svc: svc, logger: logger}
}

// Handle processes the /editchild command.
func (h *EditChildHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	const syntax = "/editchild <id> <YYYY-MM-DD> <country> <full name>"
	if len(args) < 1 {
		return usage(bot, message.Chat.ID, syntax)
	}
	id, err := parseID(args[0])
	if err != nil {
		return usage(bot, message.Chat.ID, syntax)
	}
	in, err := parseChild(args[1:])
	if err != nil {
		return rejectInput(bot, message.Chat.ID, err, syntax)
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var child *models.Child
	err = w.Call(ctx, func(ctx context.Context) (err error) {
		child, err = w.API.Children.Update(ctx, id, in)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("child_id", child.ID).Info("Child updated")
	return reply(bot, message.Chat.ID, "✅ Child updated\n"+formatChild(*child))
}

// ---------------------------------------------------------------------------
// DeleteChildHandler – /delchild <id>
// ---------------------------------------------------------------------------

// DeleteChildHandler handles the /delchild command to remove a child.
type DeleteChildHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteChildHandler creates a new DeleteChildHandler.
func NewDeleteChildHandler(svc *service.Service, logger *logrus.Logger) *DeleteChildHandler {
	return &DeleteChildHandler{svc: svc, logger: logger}
}

// Handle processes the /delchild command.
func (h *DeleteChildHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return usage(bot, message.Chat.ID, "/delchild <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return usage(bot, message.Chat.ID, "/delchild <id>")
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	err = w.Call(ctx, func(ctx context.Context) error {
		return w.API.Children.Delete(ctx, id)
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("child_id", id).Info("Child deleted")
	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 Child #%d deleted.", id))
}
