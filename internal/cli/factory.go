// Package cli wires the ResolveIT commands for cobra.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"resolveit/internal/api"
	"resolveit/internal/config"
	"resolveit/internal/lifecycle"
	"resolveit/internal/policy"
	"resolveit/internal/session"
)

// newAPI builds the API client from config and the persisted session.
func newAPI() (*api.Client, *config.Config, *session.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	path := cfg.SessionFile
	if path == "" {
		path, err = session.DefaultPath()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to locate session file: %w", err)
		}
	}

	store := session.NewStore(path)
	return api.New(cfg.BaseURL, store), cfg, store, nil
}

// requireSession returns the active session or a login hint.
func requireSession(store *session.Store) (*session.Session, error) {
	if err := store.Check(time.Now()); err != nil {
		return nil, fmt.Errorf("%w\nHint: run `resolveit login` first", err)
	}
	return store.Current(), nil
}

// viewerFrom builds the policy viewer for the logged-in user.
func viewerFrom(sess *session.Session) policy.Viewer {
	return policy.Viewer{
		ID:   sess.User.ID,
		Role: policy.ParseRole(sess.User.Role),
	}
}

// parseID parses a positional complaint/file/escalation ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}

// statusColor renders a status display string in its lifecycle color.
func statusColor(status string) string {
	switch lifecycle.FromBackend(status) {
	case lifecycle.StateInProgress:
		return color.New(color.FgHiBlue).Sprint(status)
	case lifecycle.StateEscalated:
		return color.New(color.FgRed).Sprint(status)
	case lifecycle.StateResolved:
		return color.New(color.FgHiGreen).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}

// progressBar renders the fixed progress percentage as a bar.
//
//	[██████░░░░] 60%
func progressBar(pct int) string {
	const width = 10
	filled := (pct*width + 50) / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		pct,
	)
}
