package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/fs"
	"github.com/fwojciec/relay/json"
)

// errUsage indicates a command was given the wrong arguments.
var errUsage = errors.New("usage")

const helpText = `Commands:
  /attach <glob>...   attach files to the next message
  /attachments        list pending attachments
  /detach             drop pending attachments
  /model [id]         show or select the model
  /models             list available models
  /clear              start a new conversation
  /export <path>      save the conversation as JSON
  /import <path>      load a conversation from JSON
  /copy               copy the last code block to the clipboard
  /download [path]    save the last code block to a file
  /help               show this help
  /quit               exit`

// parseCommand splits a "/name arg..." line. It reports false for ordinary
// messages. A leading "//" escapes a message that starts with a slash.
func parseCommand(line string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(line, "/") || strings.HasPrefix(line, "//") {
		return "", nil, false
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// dispatch runs the named command. It reports true when the session should
// end.
func (a *app) dispatch(ctx context.Context, name string, args []string) (bool, error) {
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		a.term.Printf("%s", helpText)
	case "attach":
		return false, a.attach(ctx, args)
	case "attachments":
		a.listPending()
	case "detach":
		a.pending = nil
		a.term.Printf("Attachments cleared.")
	case "model":
		return false, a.model(args)
	case "models":
		a.listModels()
	case "clear":
		if err := a.session.Clear(); err != nil {
			return false, err
		}
		a.term.Printf("Conversation cleared.")
	case "export":
		return false, a.export(args)
	case "import":
		return false, a.importConversation(args)
	case "copy":
		if !a.term.Copy() {
			return false, errors.New("no code block to copy")
		}
		a.term.Printf("Code copied to clipboard.")
	case "download":
		return false, a.download(args)
	default:
		return false, fmt.Errorf("unknown command /%s (try /help)", name)
	}
	return false, nil
}

func (a *app) attach(ctx context.Context, patterns []string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("%w: /attach <glob>...", errUsage)
	}
	atts, err := fs.Load(ctx, patterns...)
	if err != nil {
		return err
	}
	a.pending = append(a.pending, atts...)
	for _, at := range atts {
		a.term.Printf("Attached %s (%s, %d bytes)", at.Name, at.MimeType, at.Size)
	}
	return nil
}

func (a *app) listPending() {
	if len(a.pending) == 0 {
		a.term.Printf("No pending attachments.")
		return
	}
	for _, at := range a.pending {
		a.term.Printf("  %s (%s, %d bytes)", at.Name, at.MimeType, at.Size)
	}
}

func (a *app) model(args []string) error {
	if len(args) == 0 {
		a.term.Printf("Model: %s", a.session.Model())
		return nil
	}
	m, err := a.session.SetModel(args[0])
	if err != nil {
		return err
	}
	a.term.Printf("Model set to %s.", m.DisplayName)
	return nil
}

func (a *app) listModels() {
	current := a.session.Model()
	for _, m := range relay.Models() {
		marker := " "
		if m.ID == current {
			marker = "*"
		}
		a.term.Printf("%s %-18s %s (%s)", marker, m.ID, m.DisplayName, m.Description)
	}
}

func (a *app) export(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: /export <path>", errUsage)
	}
	c := json.Conversation{
		Name:  "relay-" + a.session.ID(),
		Date:  time.Now(),
		Model: a.session.Model(),
		Turns: a.session.History(),
	}
	if err := json.Save(args[0], c); err != nil {
		return err
	}
	a.term.Printf("Saved %d turns to %s.", len(c.Turns), args[0])
	return nil
}

func (a *app) importConversation(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: /import <path>", errUsage)
	}
	c, err := json.Load(args[0])
	if err != nil {
		return err
	}
	if err := a.session.Restore(c.Turns); err != nil {
		return err
	}
	if c.Model != "" {
		if _, err := a.session.SetModel(c.Model); err != nil {
			a.term.Printf("Keeping model %s: %v", a.session.Model(), err)
		}
	}
	a.term.Printf("Loaded %d turns from %s.", len(c.Turns), args[0])
	return nil
}

func (a *app) download(args []string) error {
	d, ok := a.term.LastCode()
	if !ok || !d.AllowDownload {
		return errors.New("no code block to download")
	}
	path := fs.CodeFileName(d.Extension)
	if len(args) > 0 {
		path = args[0]
	}
	if err := fs.WriteFile(path, []byte(d.Code)); err != nil {
		return err
	}
	a.term.Printf("Saved code to %s.", filepath.Clean(path))
	return nil
}
