package cloud

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ABelliqueux/endbasic/pkg/console"
)

// parseBoolean interprets an interactive yes/no answer. Accepted forms are
// yes/y/true/1 and no/n/false/0, case-insensitively.
func parseBoolean(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", text)
	}
}

// validatePasswordComplexity checks the interactive password rules and
// returns the reason for rejection, if any.
func validatePasswordComplexity(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("Must be at least 8 characters long")
	}

	var alphabetic, numeric bool
	for _, ch := range password {
		switch {
		case unicode.IsLetter(ch):
			alphabetic = true
		case unicode.IsNumber(ch):
			numeric = true
		}
	}
	if !alphabetic || !numeric {
		return fmt.Errorf("Must contain letters and numbers")
	}
	return nil
}

// SignupCommand implements SIGNUP: interactively collect and submit an
// account creation request.
type SignupCommand struct {
	service Service
	console console.Console
}

// NewSignupCommand creates the SIGNUP command.
func NewSignupCommand(service Service, cons console.Console) *SignupCommand {
	return &SignupCommand{service: service, console: cons}
}

// readBool prompts for a yes/no answer until it parses, returning the
// default when the user just hits enter.
func (c *SignupCommand) readBool(prompt string, def bool) (bool, error) {
	for {
		answer, err := c.console.ReadLine(prompt)
		if err != nil {
			return false, err
		}
		if answer == "" {
			return def, nil
		}
		value, err := parseBoolean(strings.TrimRight(answer, " \t"))
		if err != nil {
			if err := c.console.Print("Invalid input; try again."); err != nil {
				return false, err
			}
			continue
		}
		return value, nil
	}
}

// readPassword prompts for a password until it is sufficiently complex and
// confirmed by an exact retype.
func (c *SignupCommand) readPassword() (string, error) {
	for {
		password, err := c.console.ReadLineSecure("Password: ")
		if err != nil {
			return "", err
		}
		if err := validatePasswordComplexity(password); err != nil {
			if err := c.console.Print(fmt.Sprintf("Invalid password: %s; try again.", err)); err != nil {
				return "", err
			}
			continue
		}

		retyped, err := c.console.ReadLineSecure("Retype password: ")
		if err != nil {
			return "", err
		}
		if retyped != password {
			if err := c.console.Print("Passwords do not match; try again."); err != nil {
				return "", err
			}
			continue
		}

		return password, nil
	}
}

// Exec runs SIGNUP. The flow is fully interactive and submits nothing until
// the final confirmation, so cancelling at any prompt leaves no effect.
// Declining the confirmation completes the command successfully without
// creating anything.
func (c *SignupCommand) Exec(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageErrorf("SIGNUP expected no arguments")
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	err := console.RefillAndPrint(c.console, []string{
		"Let's gather some information to create your cloud account.",
		"You can abort this process at any time by hitting Ctrl+C and you will be " +
			"given a chance to review your inputs before creating the account.",
	}, "    ")
	if err != nil {
		return err
	}
	if err := c.console.Print(""); err != nil {
		return err
	}

	username, err := c.console.ReadLine("Username: ")
	if err != nil {
		return err
	}
	password, err := c.readPassword()
	if err != nil {
		return err
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	err = console.RefillAndPrint(c.console, []string{
		"We also need your email address to activate your account.",
		"Your email address will be kept on file in case we have to notify you of " +
			"important service issues and will never be made public.  You will be asked " +
			"if you want to receive promotional email messages or not, and your " +
			"selection here will have no adverse impact in the service you receive.",
	}, "    ")
	if err != nil {
		return err
	}
	if err := c.console.Print(""); err != nil {
		return err
	}

	email, err := c.console.ReadLine("Email address: ")
	if err != nil {
		return err
	}
	promotional, err := c.readBool("Receive promotional email (y/N)? ", false)
	if err != nil {
		return err
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	err = console.RefillAndPrint(c.console, []string{
		"We are ready to go. Please review your answers before proceeding.",
	}, "    ")
	if err != nil {
		return err
	}
	if err := c.console.Print(""); err != nil {
		return err
	}

	if err := c.console.Print(fmt.Sprintf("Username: %s", username)); err != nil {
		return err
	}
	if err := c.console.Print(fmt.Sprintf("Email address: %s", email)); err != nil {
		return err
	}
	answer := "no"
	if promotional {
		answer = "yes"
	}
	if err := c.console.Print(fmt.Sprintf("Promotional email: %s", answer)); err != nil {
		return err
	}

	proceed, err := c.readBool("Continue (y/N)? ", false)
	if err != nil {
		return err
	}
	if !proceed {
		// Declining is not an error: the user reviewed and chose to stop.
		// Worth re-examining once commands can report soft failures.
		return nil
	}

	req := &SignupRequest{
		Username:         username,
		Password:         password,
		Email:            email,
		PromotionalEmail: promotional,
	}
	if err := c.service.Signup(ctx, req); err != nil {
		return err
	}

	if err := c.console.Print(""); err != nil {
		return err
	}
	err = console.RefillAndPrint(c.console, []string{
		"Your account has been created and is pending activation.",
		"Check your email now and look for the activation message.  Follow the " +
			"instructions in it to activate your account, and make sure to check your " +
			"spam folder.",
		"Once your account is activated, come back here and use LOGIN to get started!",
	}, "    ")
	if err != nil {
		return err
	}
	return c.console.Print("")
}
