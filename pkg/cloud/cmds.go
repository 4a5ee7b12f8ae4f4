package cloud

import (
	"context"

	"github.com/ABelliqueux/endbasic/pkg/console"
	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// Command is one statement-level cloud command. Argument arity is validated
// by Exec itself and misuse is reported as a UsageError.
type Command interface {
	Exec(ctx context.Context, args []string) error
}

// AddAll returns the cloud commands keyed by statement name. The storage
// manager must already have the "cloud" scheme registered so that LOGIN can
// mount the user's drive. execBaseURL is the web frontend base used by SHARE
// to build auto-run links.
func AddAll(service Service, cons console.Console, st *storage.Storage, execBaseURL string) map[string]Command {
	return map[string]Command{
		"LOGIN":  NewLoginCommand(service, cons, st),
		"LOGOUT": NewLogoutCommand(service, cons, st),
		"SIGNUP": NewSignupCommand(service, cons),
		"SHARE":  NewShareCommand(service, cons, st, execBaseURL),
	}
}
