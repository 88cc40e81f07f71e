package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zentesthq/zentest/internal/client/backend"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// remoteProvider adapts the HTTP backend's auth endpoints to the resolver.
type remoteProvider struct {
	b *backend.RemoteBackend
}

func (p remoteProvider) Register(ctx context.Context, login, password string) (models.Identity, error) {
	// Default display name is the mailbox part of the login.
	name := login
	if i := strings.IndexByte(login, '@'); i > 0 {
		name = login[:i]
	}
	return p.b.Register(ctx, login, password, name)
}

func (p remoteProvider) Login(ctx context.Context, login, password string) (models.Identity, error) {
	return p.b.Login(ctx, login, password)
}

func (p remoteProvider) Logout(context.Context) error {
	p.b.Logout()
	return nil
}

// Register prompts for credentials and creates an account. On success the
// session is signed in immediately.
func (a *App) Register(ctx context.Context) error {
	if !a.resolver.Configured() {
		fmt.Println("No server configured. Use 'guest' to explore the demo workspace.")
		return common.ErrNotConfigured
	}

	login, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.resolver.Register(ctx, login, string(password)); err != nil {
		errorText.Printf("Registration unsuccessful: %s\n", err)
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	if !a.resolver.Configured() {
		fmt.Println("No server configured. Use 'guest' to explore the demo workspace.")
		return common.ErrNotConfigured
	}

	login, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.resolver.Login(ctx, login, string(password)); err != nil {
		errorText.Printf("Login unsuccessful: %s\n", err)
		return err
	}

	successText.Println("Login successful")
	return nil
}

// Guest starts a preview session against the in-memory demo workspace.
func (a *App) Guest(ctx context.Context) error {
	a.resolver.ContinueAsGuest()
	fmt.Println("Continuing as guest. Changes live only in this session.")
	return nil
}

// Logout ends the session and returns to the signed-out prompt.
func (a *App) Logout(ctx context.Context) error {
	if err := a.resolver.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout", "error", err)
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
