package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	if userName == "" {
		return "", nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	if len(password) == 0 {
		return "", nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return userName, password, nil
}

// Register prompts for a username and password, creates the account and
// starts a session for it. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, successColor("Registered and logged in as"), userName)
	return nil
}

// Login prompts for credentials and starts a session. Logging in needs the
// server; when it is unreachable the mode switches to offline.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, successColor("Logged in as"), userName)
	return nil
}

// Logout destroys the session and the persisted token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	name, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, name)
	return nil
}
