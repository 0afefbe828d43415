package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskdesk/internal/client/client"
	"github.com/dmitrijs2005/taskdesk/internal/client/services"
	"github.com/dmitrijs2005/taskdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates the account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, name, email, password); err != nil {
		printError(a.out, err)
		return err
	}

	printSuccess(a.out, "User created successfully, you can login now")
	return nil
}

// Login prompts for credentials, authenticates and keeps the session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		printError(a.out, err)
		return err
	}

	a.setSession(s)
	a.setMode(ModeOnline)
	printSuccess(a.out, "Welcome, %s!", s.Name)
	return nil
}

// Logout forgets the local session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printError(a.out, err)
		return err
	}
	a.setSession(nil)
	printSuccess(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s := a.currentSession()
	if s == nil {
		fmt.Fprintln(a.out, mutedStyle.Render("Not logged in"))
		return services.ErrNotLoggedIn
	}
	fmt.Fprintf(a.out, "%s <%s>\n", s.Name, s.Email)
	return nil
}

// Products shows the token-gated product. A rejected token ends the session.
func (a *App) Products(ctx context.Context) error {
	p, err := a.authService.Products(ctx)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotLoggedIn):
		a.setSession(nil)
		fmt.Fprintln(a.out, mutedStyle.Render("Please login first"))
		return err
	case errors.Is(err, client.ErrTokenRejected):
		a.setSession(nil)
		fmt.Fprintln(a.out, errorStyle.Render("Session expired, please login again"))
		return err
	default:
		printError(a.out, err)
		return err
	}

	fmt.Fprintf(a.out, "%s  %s\n", titleStyle.Render(p.Name), successStyle.Render(fmt.Sprintf("%d", p.Price)))
	return nil
}
