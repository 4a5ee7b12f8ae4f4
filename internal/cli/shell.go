package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ABelliqueux/endbasic/pkg/cloud"
	"github.com/ABelliqueux/endbasic/pkg/console"
	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// shell is the interactive command loop. It owns the prompt and dispatches
// each line either to a built-in file command or to a session command.
type shell struct {
	console  console.Console
	storage  *storage.Storage
	commands map[string]cloud.Command
}

func newShell(cons console.Console, st *storage.Storage, commands map[string]cloud.Command) *shell {
	return &shell{console: cons, storage: st, commands: commands}
}

// Run reads and executes commands until EXIT or end of input. Command errors
// are reported to the console and do not stop the loop.
func (s *shell) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		prompt := "> "
		if cwd, ok := s.storage.CWD(); ok {
			prompt = cwd + "> "
		}

		line, err := s.console.ReadLine(prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		name, args, err := parseLine(line)
		if err != nil {
			s.reportError(err)
			continue
		}
		if name == "" {
			continue
		}
		if name == "EXIT" || name == "QUIT" {
			return nil
		}

		if err := s.dispatch(ctx, name, args); err != nil {
			s.reportError(err)
		}
	}
}

func (s *shell) dispatch(ctx context.Context, name string, args []string) error {
	if cmd, ok := s.commands[name]; ok {
		return cmd.Exec(ctx, args)
	}

	switch name {
	case "HELP":
		return s.help()
	case "MOUNT":
		return s.mount(args)
	case "UNMOUNT":
		return s.unmount(args)
	case "CD":
		return s.cd(args)
	case "PWD":
		return s.pwd(args)
	case "DIR":
		return s.dir(ctx, args)
	case "TYPE":
		return s.typeFile(ctx, args)
	case "DEL":
		return s.del(ctx, args)
	default:
		return fmt.Errorf("unknown command %s; try HELP", name)
	}
}

func (s *shell) reportError(err error) {
	_ = s.console.Print(fmt.Sprintf("ERROR: %s", err))
}

func (s *shell) help() error {
	lines := []string{
		"",
		"    Available commands:",
		"",
		"    CD path$           Changes the current drive",
		"    DEL filename$      Deletes the given file",
		"    DIR [path$]        Lists the files on a drive",
		"    EXIT               Leaves the shell",
		"    LOGIN username$    Starts a session against the cloud service",
		"    LOGOUT             Ends the session against the cloud service",
		"    MOUNT [name$, uri$] Lists mounted drives or mounts a new one",
		"    PWD                Prints the current drive",
		"    SHARE filename$ [acl1$ .. aclN$] Displays or updates file sharing",
		"    SIGNUP             Creates a new account interactively",
		"    TYPE filename$     Prints the contents of the given file",
		"    UNMOUNT name$      Unmounts the given drive",
		"",
	}
	for _, line := range lines {
		if err := s.console.Print(line); err != nil {
			return err
		}
	}
	return nil
}

func (s *shell) mount(args []string) error {
	switch len(args) {
	case 0:
		return s.showMounts()
	case 2:
		return s.storage.Mount(args[0], args[1])
	default:
		return errors.New("MOUNT expected no arguments or <name$, uri$>")
	}
}

func (s *shell) showMounts() error {
	mounted := s.storage.Mounted()
	names := make([]string, 0, len(mounted))
	width := len("Name")
	for name := range mounted {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	if err := s.console.Print(""); err != nil {
		return err
	}
	if err := s.console.Print(fmt.Sprintf("    %-*s  Target", width, "Name")); err != nil {
		return err
	}
	for _, name := range names {
		if err := s.console.Print(fmt.Sprintf("    %-*s  %s", width, name, mounted[name])); err != nil {
			return err
		}
	}
	return s.console.Print("")
}

func (s *shell) unmount(args []string) error {
	if len(args) != 1 {
		return errors.New("UNMOUNT expected <name$>")
	}
	return s.storage.Unmount(args[0])
}

func (s *shell) cd(args []string) error {
	if len(args) != 1 {
		return errors.New("CD expected <path$>")
	}
	return s.storage.CD(args[0])
}

func (s *shell) pwd(args []string) error {
	if len(args) != 0 {
		return errors.New("PWD expected no arguments")
	}
	cwd, ok := s.storage.CWD()
	if !ok {
		return errors.New("no current drive")
	}
	return s.console.Print(fmt.Sprintf("    %s", cwd))
}

func (s *shell) dir(ctx context.Context, args []string) error {
	var path string
	switch len(args) {
	case 0:
		cwd, ok := s.storage.CWD()
		if !ok {
			return errors.New("no current drive")
		}
		path = cwd
	case 1:
		path = args[0]
	default:
		return errors.New("DIR expected no arguments or <path$>")
	}

	files, err := s.storage.Enumerate(ctx, path)
	if err != nil {
		return err
	}

	if err := s.console.Print(""); err != nil {
		return err
	}
	if err := s.console.Print("    Modified              Size    Name"); err != nil {
		return err
	}

	var totalBytes uint64
	names := files.SortedNames()
	for _, name := range names {
		meta := files.Entries[name]
		totalBytes += meta.Length
		line := fmt.Sprintf("    %s    %8d    %s", meta.MTime.Format("2006-01-02 15:04"), meta.Length, name)
		if err := s.console.Print(line); err != nil {
			return err
		}
	}

	if err := s.console.Print(""); err != nil {
		return err
	}
	if err := s.console.Print(fmt.Sprintf("    %d file(s), %d bytes", len(names), totalBytes)); err != nil {
		return err
	}
	if files.DiskQuota != nil && files.DiskFree != nil {
		line := fmt.Sprintf("    %d of %d bytes free", files.DiskFree.Bytes, files.DiskQuota.Bytes)
		if err := s.console.Print(line); err != nil {
			return err
		}
	}
	return s.console.Print("")
}

func (s *shell) typeFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("TYPE expected <filename$>")
	}
	content, err := s.storage.Get(ctx, args[0])
	if err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(content), "\n"), "\n") {
		if err := s.console.Print(line); err != nil {
			return err
		}
	}
	return nil
}

func (s *shell) del(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("DEL expected <filename$>")
	}
	return s.storage.Delete(ctx, args[0])
}

// parseLine splits a command line into the command name and its arguments.
// Arguments are separated by commas and may be double-quoted; quoting is
// required for values that contain commas.
func parseLine(line string) (string, []string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, nil
	}

	name := line
	rest := ""
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		name = line[:idx]
		rest = strings.TrimSpace(line[idx+1:])
	}
	name = strings.ToUpper(name)

	if rest == "" {
		return name, nil, nil
	}

	args, err := splitArgs(rest)
	if err != nil {
		return "", nil, err
	}
	return name, args, nil
}

func splitArgs(s string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			return nil, errors.New("expected argument after comma")
		}

		var arg string
		if s[i] == '"' {
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				return nil, errors.New("unterminated string")
			}
			arg = s[i+1 : i+1+end]
			i += end + 2
		} else {
			end := strings.IndexByte(s[i:], ',')
			if end < 0 {
				end = len(s) - i
			}
			arg = strings.TrimSpace(s[i : i+end])
			i += end
		}
		args = append(args, arg)

		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			return args, nil
		}
		if s[i] != ',' {
			return nil, fmt.Errorf("unexpected character %q after argument", s[i])
		}
		i++
	}
}
