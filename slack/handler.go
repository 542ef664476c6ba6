package simslack

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Poster is the part of the Slack client the handler needs.
type Poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// CommandHandler answers one slash command. Respond receives the
// whitespace-separated arguments and returns the reply text.
type CommandHandler interface {
	Usage() string
	Respond(ctx context.Context, args []string) (string, error)
}

type Handler struct {
	commands map[string]CommandHandler
	logger   *zap.Logger
}

// NewHandler registers the pricing commands and /help.
func NewHandler(opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	h := &Handler{
		commands: map[string]CommandHandler{
			"/bs":       NewBlackScholesHandler(),
			"/american": NewAmericanHandler(opts),
			"/simulate": NewSimulateHandler(opts),
		},
		logger: logger,
	}
	if opts.Quotes != nil {
		h.commands["/estimate"] = NewEstimateHandler(opts.Quotes)
	}
	h.commands["/help"] = NewHelpHandler(h.commands)
	return h
}

// Handle answers cmd in its channel. Errors are reported back to the user.
func (h *Handler) Handle(ctx context.Context, cmd slack.SlashCommand, client Poster) {
	log := h.logger.With(zap.String("command", cmd.Command), zap.String("user", cmd.UserID))

	text, err := h.Respond(ctx, cmd.Command, cmd.Text)
	if err != nil {
		log.Warn("command failed", zap.String("text", cmd.Text), zap.Error(err))
		text = errorText(err)
	}

	if _, _, err := client.PostMessage(cmd.ChannelID, slack.MsgOptionText(text, false)); err != nil {
		log.Error("failed to post reply", zap.Error(err))
		return
	}
	log.Debug("replied", zap.String("channel", cmd.ChannelID))
}

// Respond dispatches a command by name.
func (h *Handler) Respond(ctx context.Context, command, text string) (string, error) {
	c, ok := h.commands[command]
	if !ok {
		return "", fmt.Errorf("unknown command %s, try /help", command)
	}
	return c.Respond(ctx, strings.Fields(text))
}

func errorText(err error) string {
	if errors.Is(err, models.ErrInvalidParameter) || errors.Is(err, errUsage) {
		return fmt.Sprintf("Invalid input: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
