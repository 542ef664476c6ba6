package simslack

import (
	"context"
	"sort"
	"strings"
)

type HelpHandler struct {
	commands map[string]CommandHandler
}

func NewHelpHandler(commands map[string]CommandHandler) *HelpHandler {
	return &HelpHandler{commands: commands}
}

func (h *HelpHandler) Usage() string {
	return "/help - Show this help message"
}

func (h *HelpHandler) Respond(context.Context, []string) (string, error) {
	lines := make([]string, 0, len(h.commands))
	for _, c := range h.commands {
		lines = append(lines, c.Usage())
	}
	sort.Strings(lines)
	return "Available commands:\n" + strings.Join(lines, "\n"), nil
}
