// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/retroterm/gobbs/internal/bbs"
	"github.com/retroterm/gobbs/internal/config"
	"github.com/retroterm/gobbs/internal/i18n"
	"github.com/retroterm/gobbs/internal/logging"
)

// shell is the interactive teletype loop. It owns stdin/stdout; the session
// owns all state and storage access.
type shell struct {
	r       *bufio.Reader
	session *bbs.Session
	loc     *time.Location
}

func newShell(cfg config.Config) *shell {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logging.Warnf("unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}
	return &shell{
		r:       bufio.NewReader(os.Stdin),
		session: bbs.NewSession(),
		loc:     loc,
	}
}

// run reads and dispatches commands until quit/exit or EOF.
func (sh *shell) run() error {
	printBanner()

	for {
		fmt.Print(sh.prompt())

		line, err := sh.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				fmt.Println(i18n.T("shell.goodbye"))
				return nil
			}
			return err
		}

		fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
		if len(fields) == 0 {
			continue
		}
		verb, args := fields[0], fields[1:]

		if err := sh.session.Check(verb); err != nil {
			sh.printUnknown(verb)
			continue
		}

		done, err := sh.dispatch(verb, args)
		if err != nil {
			fmt.Println(i18n.T("shell.command_error", err))
		}
		if done {
			return nil
		}
	}
}

// prompt mimics a login shell: admins get '#', everyone else '$'.
func (sh *shell) prompt() string {
	ident := sh.session.Identity()
	if ident == nil {
		return "GoBBS$ "
	}
	marker := "$"
	if ident.IsAdmin {
		marker = "#"
	}
	return fmt.Sprintf("%s@GoBBS:%s%s ", ident.Name, sh.session.Subboard(), marker)
}

// printUnknown matches the tone to the state: anonymous users get the
// login-shell "command not found", authenticated users a friendlier hint.
func (sh *shell) printUnknown(verb string) {
	if sh.session.State() == bbs.StateAnonymous {
		fmt.Println(i18n.T("shell.command_not_found", verb))
		return
	}
	fmt.Println(i18n.T("shell.unknown_command", verb))
}

// dispatch runs one checked verb. The bool result means "leave the shell".
func (sh *shell) dispatch(verb string, args []string) (bool, error) {
	switch verb {
	case "register":
		return false, sh.cmdRegister()
	case "login":
		return false, sh.cmdLogin()
	case "post":
		return false, sh.cmdPost()
	case "read":
		return false, sh.cmdRead()
	case "switch":
		return false, sh.cmdSwitch()
	case "send":
		return false, sh.cmdSend()
	case "inbox":
		return false, sh.cmdInbox()
	case "logout":
		if err := sh.session.Logout(); err != nil {
			return false, err
		}
		fmt.Println(i18n.T("shell.logged_out"))
		return false, nil
	case "help":
		sh.cmdHelp(args)
		return false, nil
	case "quit", "exit":
		fmt.Println(i18n.T("shell.goodbye"))
		return true, nil
	}
	return false, nil
}

func (sh *shell) cmdRegister() error {
	name, err := sh.readLine(i18n.T("shell.login_prompt"))
	if err != nil {
		return err
	}
	credential, err := sh.readPassword(i18n.T("shell.password_prompt"))
	if err != nil {
		return err
	}

	ident, err := sh.session.Register(name, credential)
	if errors.Is(err, bbs.ErrDuplicateIdentity) {
		fmt.Println(i18n.T("shell.duplicate_identity", name))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(i18n.T("shell.registered", ident.Name))
	if ident.IsAdmin {
		fmt.Println(i18n.T("shell.registered_admin", ident.Name))
	}
	return nil
}

func (sh *shell) cmdLogin() error {
	name, err := sh.readLine(i18n.T("shell.login_prompt"))
	if err != nil {
		return err
	}
	credential, err := sh.readPassword(i18n.T("shell.password_prompt"))
	if err != nil {
		return err
	}

	ident, prevLogin, err := sh.session.Login(name, credential)
	if errors.Is(err, bbs.ErrInvalidCredentials) {
		fmt.Println(i18n.T("shell.invalid_login"))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(i18n.T("shell.login_banner", ident.Name))
	if prevLogin != nil {
		fmt.Println(i18n.T("shell.last_login", sh.formatTime(*prevLogin)))
	} else {
		fmt.Println(i18n.T("shell.first_login"))
	}
	return nil
}

// cmdPost reads a multi-line message terminated by a lone '.' and stores it
// on the active sub-board.
func (sh *shell) cmdPost() error {
	fmt.Println(i18n.T("shell.post_compose"))

	var lines []string
	for {
		line, err := sh.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." || (errors.Is(err, io.EOF) && trimmed == "") {
			break
		}
		lines = append(lines, trimmed)
		if errors.Is(err, io.EOF) {
			break
		}
	}

	content := strings.Join(lines, "\n")
	_, misses, err := sh.session.Post(content)
	if err != nil {
		return err
	}
	for _, name := range misses {
		fmt.Println(i18n.T("shell.user_not_found", name))
	}
	fmt.Println(i18n.T("shell.posted", sh.session.Subboard()))
	return nil
}

func (sh *shell) cmdRead() error {
	posts, err := sh.session.Read()
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println(i18n.T("shell.no_messages", sh.session.Subboard()))
		return nil
	}
	for _, p := range posts {
		fmt.Printf("[%s] %s: %s\n", sh.formatTime(p.CreatedAt), p.AuthorName, p.Content)
	}
	return nil
}

func (sh *shell) cmdSwitch() error {
	name, err := sh.readLine(i18n.T("shell.enter_subboard"))
	if err != nil {
		return err
	}
	if err := sh.session.Switch(name); err != nil {
		return err
	}
	fmt.Println(i18n.T("shell.switched", sh.session.Subboard()))
	return nil
}

func (sh *shell) cmdSend() error {
	recipient, err := sh.readLine(i18n.T("shell.enter_recipient"))
	if err != nil {
		return err
	}
	body, err := sh.readLine(i18n.T("shell.enter_message"))
	if err != nil {
		return err
	}

	_, err = sh.session.Send(recipient, body)
	if errors.Is(err, bbs.ErrUnknownRecipient) {
		fmt.Println(i18n.T("shell.user_not_found", recipient))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(i18n.T("shell.sent"))
	return nil
}

func (sh *shell) cmdInbox() error {
	entries, err := sh.session.Inbox()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(i18n.T("shell.mailbox_empty"))
		return nil
	}
	for _, e := range entries {
		fmt.Println(i18n.T("shell.mail_from", e.SenderName))
		fmt.Println(i18n.T("shell.mail_received", sh.formatTime(e.CreatedAt)))
		fmt.Println(i18n.T("shell.mail_body", e.Body))
		fmt.Println()
	}
	return nil
}

func (sh *shell) cmdHelp(args []string) {
	available := strings.Join(bbs.CommandsFor(sh.session.State()), ", ")
	if len(args) == 0 {
		fmt.Println(i18n.T("shell.help_usage", available))
		return
	}
	topic := args[0]
	if !bbs.IsHelpTopic(topic) {
		fmt.Println(i18n.T("shell.help_unknown", topic, strings.Join(bbs.KnownCommands(), ", ")))
		return
	}
	fmt.Println(i18n.T("help." + topic))
}

// readLine prompts and returns one trimmed input line.
func (sh *shell) readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := sh.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal; piped input
// (tests, scripts) falls back to a plain line read.
func (sh *shell) readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("%s", i18n.T("shell.error_read_password", err))
		}
		return string(pw), nil
	}
	return sh.readLine("")
}

// formatTime renders a stored UTC timestamp in the configured display
// timezone.
func (sh *shell) formatTime(t time.Time) string {
	return t.In(sh.loc).Format("2006-01-02 15:04:05")
}
