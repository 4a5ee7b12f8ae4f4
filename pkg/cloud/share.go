package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/ABelliqueux/endbasic/pkg/console"
	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// parseACL classifies one ACL change token into the add or remove set.
//
// The token grammar is <principal><+|-><r|R>: the final two characters pick
// the operation, the non-empty prefix is the principal. Anything else is a
// syntax error that echoes the offending token.
func parseACL(token string, add, remove *storage.FileAcls) error {
	if len(token) < 3 {
		return &storage.InvalidACLError{Token: token}
	}

	principal, change := token[:len(token)-2], token[len(token)-2:]
	switch change {
	case "+r", "+R":
		add.Add(principal)
	case "-r", "-R":
		remove.Add(principal)
	default:
		return &storage.InvalidACLError{Token: token}
	}
	return nil
}

// ShareCommand implements SHARE: display or modify the reader ACLs of a
// file.
//
// ACLs are a cloud concept in this system, but the command goes through the
// generic storage layer, so it works against any mounted drive whose backend
// supports sharing.
type ShareCommand struct {
	service     Service
	console     console.Console
	storage     *storage.Storage
	execBaseURL string
}

// NewShareCommand creates the SHARE command. execBaseURL is the web
// frontend's base URL used to build auto-run links for public files.
func NewShareCommand(service Service, cons console.Console, st *storage.Storage, execBaseURL string) *ShareCommand {
	return &ShareCommand{service: service, console: cons, storage: st, execBaseURL: execBaseURL}
}

// showACLs fetches and prints the current reader ACLs of filename.
func (c *ShareCommand) showACLs(ctx context.Context, filename string) error {
	acls, err := c.storage.GetACLs(ctx, filename)
	if err != nil {
		return err
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	if acls.IsEmpty() {
		if err := c.console.Print(fmt.Sprintf("    No ACLs on %s", filename)); err != nil {
			return err
		}
	} else {
		if err := c.console.Print(fmt.Sprintf("    Reader ACLs on %s:", filename)); err != nil {
			return err
		}
		for _, reader := range acls.Readers() {
			if err := c.console.Print(fmt.Sprintf("    %s", reader)); err != nil {
				return err
			}
		}
	}
	return c.console.Print("")
}

// Exec runs SHARE filename$[, acl1$, .., aclN$]. With no tokens the current
// ACLs are displayed; otherwise the tokens are applied as one update. All
// tokens are parsed before anything is applied, so a malformed token leaves
// the target untouched.
func (c *ShareCommand) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageErrorf("SHARE expected filename$[, acl1$, .., aclN$]")
	}
	filename := args[0]

	var add, remove storage.FileAcls
	for _, token := range args[1:] {
		if err := parseACL(token, &add, &remove); err != nil {
			return err
		}
	}

	if add.IsEmpty() && remove.IsEmpty() {
		return c.showACLs(ctx, filename)
	}

	if err := c.storage.UpdateACLs(ctx, filename, add, remove); err != nil {
		return err
	}

	if add.HasPublicReader() {
		return c.printAutoRunURL(filename)
	}
	return nil
}

// printAutoRunURL tells the user how other people can run the file they just
// made public. Reaching this point requires a logged-in identity: public
// sharing only succeeds against drives tied to the current session.
func (c *ShareCommand) printAutoRunURL(filename string) error {
	username, ok := c.service.LoggedInUsername()
	if !ok {
		return fmt.Errorf("made a file public without a logged in session; this is a bug")
	}

	// Drop the drive name: the URL wants the path relative to the drive.
	if _, path, found := strings.Cut(filename, ":"); found {
		filename = strings.TrimPrefix(path, "/")
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	err := console.RefillAndPrint(c.console, []string{
		"You have made the file publicly readable.  As a result, other people can " +
			"now auto-run your public file by visiting:",
		fmt.Sprintf("%s?run=%s/%s", c.execBaseURL, username, filename),
	}, "    ")
	if err != nil {
		return err
	}
	return c.console.Print("")
}
