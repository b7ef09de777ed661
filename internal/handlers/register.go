package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// Registrar is implemented by telegram.Bot and telegram.Router.
type Registrar interface {
	RegisterCommand(command, description string, handler telegram.CommandHandler)
}

// RegisterAll registers every chat command on r.
func RegisterAll(r Registrar, svc *service.Service, logger *logrus.Logger) {
	r.RegisterCommand("start", "Welcome message", NewStartHandler(svc, logger))
	r.RegisterCommand("help", "List all commands", NewHelpHandler(logger))

	// Account
	r.RegisterCommand("register", "Create an account", NewRegisterHandler(svc, logger))
	r.RegisterCommand("login", "Log in", NewLoginHandler(svc, logger))
	r.RegisterCommand("logout", "Log out", NewLogoutHandler(svc, logger))
	r.RegisterCommand("me", "Show your profile", NewMeHandler(svc, logger))
	r.RegisterCommand("editme", "Update your profile", NewEditMeHandler(svc, logger))
	r.RegisterCommand("dashboard", "Overview of your account", NewDashboardHandler(svc, logger))

	// Children
	r.RegisterCommand("children", "List children", NewChildrenHandler(svc, logger))
	r.RegisterCommand("addchild", "Add a child", NewAddChildHandler(svc, logger))
	r.RegisterCommand("editchild", "Update a child", NewEditChildHandler(svc, logger))
	r.RegisterCommand("delchild", "Delete a child", NewDeleteChildHandler(svc, logger))

	// Products
	r.RegisterCommand("products", "List products", NewProductsHandler(svc, logger))
	r.RegisterCommand("product", "Show a product", NewProductHandler(svc, logger))
	r.RegisterCommand("addproduct", "Add a product", NewAddProductHandler(svc, logger))
	r.RegisterCommand("editproduct", "Update a product", NewEditProductHandler(svc, logger))
	r.RegisterCommand("delproduct", "Delete a product", NewDeleteProductHandler(svc, logger))

	// Invitations
	r.RegisterCommand("invites", "List your invitation codes", NewInvitesHandler(svc, logger))
	r.RegisterCommand("invite", "Create an invitation code", NewInviteHandler(svc, logger))
	r.RegisterCommand("validate", "Check an invitation code", NewValidateHandler(svc, logger))
	r.RegisterCommand("use", "Use an invitation code", NewUseHandler(svc, logger))
}
