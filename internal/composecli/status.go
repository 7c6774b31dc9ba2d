package composecli

import (
	"context"
	"strings"
)

// BotState is the coarse lifecycle state recovered from the tool's
// listing output.
type BotState string

const (
	StateRunning  BotState = "running"
	StateStopped  BotState = "stopped"
	StateUnknown  BotState = "unknown"
	StateNotFound BotState = "not_found"
)

// Status probes one service via `ps` and classifies the output. When the
// tool itself fails the state is StateUnknown and the error says why.
func (r *Runner) Status(ctx context.Context, service string) (BotState, error) {
	out, err := r.PS(ctx, service)
	if err != nil {
		return StateUnknown, err
	}
	return Classify(out, service), nil
}

// Classify grades a listing for one service. This is a best-effort
// heuristic over human-readable tool output, not a structured API: the
// line carrying the service name as a whole token is inspected, and a
// token starting with "Up" means running while one starting with "Exit"
// means stopped. Prefix-anchoring on whole tokens keeps words that merely
// contain "up" or "exit" from matching. No line naming the service means
// the container does not exist.
func Classify(output, service string) BotState {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if !containsToken(fields, service) {
			continue
		}
		for _, field := range fields {
			if strings.HasPrefix(field, "Up") {
				return StateRunning
			}
			if strings.HasPrefix(field, "Exit") {
				return StateStopped
			}
		}
		return StateUnknown
	}
	return StateNotFound
}

func containsToken(fields []string, token string) bool {
	for _, field := range fields {
		if field == token {
			return true
		}
	}
	return false
}
