package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RepBoT/internal/forms"
	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/service"
	"github.com/Kerhoff/RepBoT/internal/telegram"
)

// parseProduct reads "<price> <stock> <name> | <description>" and validates
// it.
func parseProduct(args []string) (models.ProductInput, error) {
	if len(args) < 3 {
		return models.ProductInput{}, errUsage
	}
	price, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return models.ProductInput{}, fmt.Errorf("price %q is not a number", args[0])
	}
	stock, err := strconv.Atoi(args[1])
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("stock %q is not a whole number", args[1])
	}
	name, description, ok := splitPipe(args[2:])
	if !ok {
		return models.ProductInput{}, errUsage
	}
	in := models.ProductInput{Name: name, Description: description, Price: price, Stock: stock}
	if err := forms.Validate(in); err != nil {
		return models.ProductInput{}, err
	}
	return in, nil
}

// ---------------------------------------------------------------------------
// ProductsHandler – /products
// ---------------------------------------------------------------------------

// ProductsHandler handles the /products command to list the representative's products.
type ProductsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(svc *service.Service, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{svc: svc, logger: logger}
}

// Handle processes the /products command.
func (h *ProductsHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var products []models.Product
	err := w.Call(ctx, func(ctx context.Context) (err error) {
		products, err = w.API.Products.List(ctx)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, formatList("📦 Products", products, formatProduct, "No products yet. Add one with /addproduct."))
}

// ---------------------------------------------------------------------------
// ProductHandler – /product <id>
// ---------------------------------------------------------------------------

// ProductHandler handles the /product command to show a single product.
type ProductHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger}
}

// Handle processes the /product command.
func (h *ProductHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return usage(bot, message.Chat.ID, "/product <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return usage(bot, message.Chat.ID, "/product <id>")
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var product *models.Product
	err = w.Call(ctx, func(ctx context.Context) (err error) {
		product, err = w.API.Products.Get(ctx, id)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}
	return reply(bot, message.Chat.ID, formatProductDetail(*product))
}

// ---------------------------------------------------------------------------
// AddProductHandler – /addproduct <price> <stock> <name> | <description>
// ---------------------------------------------------------------------------

// AddProductHandler handles the /addproduct command to create a product.
type AddProductHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddProductHandler creates a new AddProductHandler.
func NewAddProductHandler(svc *service.Service, logger *logrus.Logger) *AddProductHandler {
	return &AddProductHandler{svc: svc, logger: logger}
}

// Handle processes the /addproduct command.
func (h *AddProductHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	in, err := parseProduct(args)
	if err != nil {
		return rejectInput(bot, message.Chat.ID, err, "/addproduct <price> <stock> <name> | <description>")
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var product *models.Product
	err = w.Call(ctx, func(ctx context.Context) (err error) {
		product, err = w.API.Products.Create(ctx, in)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("product_id", product.ID).Info("Product created")
	return reply(bot, message.Chat.ID, "✅ Product added\n"+formatProduct(*product))
}

// ---------------------------------------------------------------------------
// EditProductHandler – /editproduct <id> <price> <stock> <name> | <description>
// ---------------------------------------------------------------------------

// EditProductHandler handles the /editproduct command to update a product.
type EditProductHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewEditProductHandler creates a new EditProductHandler.
func NewEditProductHandler(svc *service.Service, logger *logrus.Logger) *EditProductHandler {
	return &EditProductHandler{svc: svc, logger: logger}
}

// Handle processes the /editproduct command.
func (h *EditProductHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	const syntax = "/editproduct <id> <price> <stock> <name> | <description>"
	if len(args) < 1 {
		return usage(bot, message.Chat.ID, syntax)
	}
	id, err := parseID(args[0])
	if err != nil {
		return usage(bot, message.Chat.ID, syntax)
	}
	in, err := parseProduct(args[1:])
	if err != nil {
		return rejectInput(bot, message.Chat.ID, err, syntax)
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	var product *models.Product
	err = w.Call(ctx, func(ctx context.Context) (err error) {
		product, err = w.API.Products.Update(ctx, id, in)
		return err
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("product_id", product.ID).Info("Product updated")
	return reply(bot, message.Chat.ID, "✅ Product updated\n"+formatProduct(*product))
}

// ---------------------------------------------------------------------------
// DeleteProductHandler – /delproduct <id>
// ---------------------------------------------------------------------------

// DeleteProductHandler handles the /delproduct command to remove a product.
type DeleteProductHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteProductHandler creates a new DeleteProductHandler.
func NewDeleteProductHandler(svc *service.Service, logger *logrus.Logger) *DeleteProductHandler {
	return &DeleteProductHandler{svc: svc, logger: logger}
}

// Handle processes the /delproduct command.
func (h *DeleteProductHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return usage(bot, message.Chat.ID, "/delproduct <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return usage(bot, message.Chat.ID, "/delproduct <id>")
	}

	w := h.svc.Workspace(message.Chat.ID)
	if ok, err := requireSession(ctx, bot, w); !ok {
		return err
	}

	err = w.Call(ctx, func(ctx context.Context) error {
		return w.API.Products.Delete(ctx, id)
	})
	if err != nil {
		return fail(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logFields(message)).WithField("product_id", id).Info("Product deleted")
	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 Product #%d deleted.", id))
}
