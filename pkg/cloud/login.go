package cloud

import (
	"context"
	"fmt"

	"github.com/ABelliqueux/endbasic/pkg/console"
	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// cloudDriveName is the mount table name given to the user's own drive on
// login.
const cloudDriveName = "CLOUD"

// LoginCommand implements LOGIN: authenticate against the service and mount
// the user's cloud drive.
type LoginCommand struct {
	service Service
	console console.Console
	storage *storage.Storage
}

// NewLoginCommand creates the LOGIN command.
func NewLoginCommand(service Service, cons console.Console, st *storage.Storage) *LoginCommand {
	return &LoginCommand{service: service, console: cons, storage: st}
}

// Exec runs LOGIN username$[, password$]. When the password argument is
// omitted, it is read interactively with masking.
func (c *LoginCommand) Exec(ctx context.Context, args []string) error {
	if c.service.IsLoggedIn() {
		return usageErrorf("cannot LOGIN again before LOGOUT")
	}

	var username, password string
	switch len(args) {
	case 1:
		username = args[0]
		read, err := c.console.ReadLineSecure("Password: ")
		if err != nil {
			return err
		}
		password = read
	case 2:
		username = args[0]
		password = args[1]
	default:
		return usageErrorf("LOGIN expected <username$> | <username$, password$>")
	}

	resp, err := c.service.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if !console.IsNarrow(c.console) && len(resp.Motd) > 0 {
		if err := c.printMotd(resp.Motd); err != nil {
			return err
		}
	}

	return c.storage.Mount(cloudDriveName, fmt.Sprintf("cloud://%s", username))
}

// printMotd frames the server's message-of-the-day between banner lines.
func (c *LoginCommand) printMotd(motd []string) error {
	if err := c.console.Print(""); err != nil {
		return err
	}
	if err := c.console.Print("----- BEGIN SERVER MOTD -----"); err != nil {
		return err
	}
	for _, line := range motd {
		if err := console.RefillAndPrint(c.console, []string{line}, ""); err != nil {
			return err
		}
	}
	if err := c.console.Print("-----  END SERVER MOTD  -----"); err != nil {
		return err
	}
	return c.console.Print("")
}
