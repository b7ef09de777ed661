package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/RepBoT/pkg/logger"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type recordingHandler struct {
	args []string
	err  error
}

func (h *recordingHandler) Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error {
	h.args = args
	return h.err
}

func command(text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		MessageID: 1,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: 42},
		From:      &tgbotapi.User{ID: 7, UserName: "maria"},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestRouterDispatchesWithArgs(t *testing.T) {
	r := NewRouter(logger.Discard())
	h := &recordingHandler{}
	r.RegisterCommand("use", "Use an invitation", h)

	bot := &fakeSender{}
	r.HandleMessage(context.Background(), bot, command("/use  ABC123 "))

	if len(h.args) != 1 || h.args[0] != "ABC123" {
		t.Errorf("unexpected args %q", h.args)
	}
	if len(bot.sent) != 0 {
		t.Errorf("router must not reply on success, sent %q", bot.sent)
	}
}

func TestRouterUnknownCommand(t *testing.T) {
	r := NewRouter(logger.Discard())
	bot := &fakeSender{}
	r.HandleMessage(context.Background(), bot, command("/nope"))

	if len(bot.sent) != 1 || !strings.Contains(bot.sent[0], "Unknown command") {
		t.Errorf("unexpected replies %q", bot.sent)
	}
}

func TestRouterHandlerError(t *testing.T) {
	r := NewRouter(logger.Discard())
	r.RegisterCommand("me", "Show profile", &recordingHandler{err: errors.New("boom")})
	bot := &fakeSender{}
	r.HandleMessage(context.Background(), bot, command("/me"))

	if len(bot.sent) != 1 || !strings.Contains(bot.sent[0], "An error occurred") {
		t.Errorf("unexpected replies %q", bot.sent)
	}
}

func TestRouterIgnoresPlainText(t *testing.T) {
	r := NewRouter(logger.Discard())
	bot := &fakeSender{}
	msg := &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}}
	r.HandleMessage(context.Background(), bot, msg)

	if len(bot.sent) != 0 {
		t.Errorf("unexpected replies %q", bot.sent)
	}
}

func TestRouterCommandsSorted(t *testing.T) {
	r := NewRouter(logger.Discard())
	r.RegisterCommand("products", "List products", &recordingHandler{})
	r.RegisterCommand("children", "List children", &recordingHandler{})

	cmds := r.Commands()
	if len(cmds) != 2 || cmds[0].Command != "children" || cmds[1].Description != "List products" {
		t.Errorf("unexpected commands %+v", cmds)
	}
}
