package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskdesk/internal/client/services"
)

func (a *App) getStatus() string {
	s := ""
	if sess := a.currentSession(); sess != nil {
		s = sess.Name + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// restoreSession picks up a session saved by a previous run.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.authService.CurrentSession(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrNotLoggedIn) {
			printError(a.out, err)
		}
		return
	}
	a.setSession(s)
	fmt.Fprintln(a.out, mutedStyle.Render("Restored session for "+s.Email))
}

func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, titleStyle.Render("Welcome to taskdesk CLI (type 'help' for commands)"))

	a.restoreSession(ctx)
	a.checkOnline(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
