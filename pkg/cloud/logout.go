package cloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/ABelliqueux/endbasic/pkg/console"
	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// LogoutCommand implements LOGOUT: unmount the CLOUD drive and invalidate
// the session.
type LogoutCommand struct {
	service Service
	console console.Console
	storage *storage.Storage
}

// NewLogoutCommand creates the LOGOUT command.
func NewLogoutCommand(service Service, cons console.Console, st *storage.Storage) *LogoutCommand {
	return &LogoutCommand{service: service, console: cons, storage: st}
}

// Exec runs LOGOUT. The CLOUD drive being already unmounted is fine; the
// CLOUD drive being the current working drive aborts the command before the
// session token is revoked, so the user can navigate away and retry.
func (c *LogoutCommand) Exec(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageErrorf("LOGOUT expected no arguments")
	}
	if !c.service.IsLoggedIn() {
		return usageErrorf("must LOGIN first")
	}

	unmounted := true
	switch err := c.storage.Unmount(cloudDriveName); {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		unmounted = false
	case errors.Is(err, storage.ErrDriveBusy):
		return fmt.Errorf("cannot log out while the CLOUD drive is active: %w", err)
	default:
		return fmt.Errorf("cannot log out: %w", err)
	}

	if err := c.service.Logout(ctx); err != nil {
		return err
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	if unmounted {
		if err := c.console.Print("    Unmounted CLOUD drive"); err != nil {
			return err
		}
	}
	if err := c.console.Print("    Good bye!"); err != nil {
		return err
	}
	return c.console.Print("")
}
