package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/terminal"
	"go.uber.org/zap"
)

// app is the interactive read-eval loop around a Session.
type app struct {
	session *relay.Session
	term    *terminal.Presenter
	log     *zap.Logger

	// pending attachments are sent with the next message.
	pending []relay.Attachment
}

func newApp(session *relay.Session, term *terminal.Presenter, log *zap.Logger) *app {
	if log == nil {
		log = zap.NewNop()
	}
	return &app{session: session, term: term, log: log}
}

// maxLine bounds the length of one input line.
const maxLine = 1024 * 1024

// run reads lines from in until EOF, /quit or ctx is done. A read error,
// including a line longer than maxLine, ends the loop and is returned.
func (a *app) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	a.term.Printf("Model: %s. Type /help for commands.", a.session.Model())
	for {
		a.term.Prompt()
		select {
		case <-ctx.Done():
			a.term.Printf("")
			return nil
		case line, ok := <-lines:
			if !ok {
				a.term.Printf("")
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if quit := a.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle processes one input line and reports whether the loop should stop.
func (a *app) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "//") {
		a.send(ctx, line[1:])
		return false
	}
	if name, args, ok := parseCommand(line); ok {
		quit, err := a.dispatch(ctx, name, args)
		if err != nil {
			a.fail(err)
		}
		return quit
	}
	a.send(ctx, line)
	return false
}

func (a *app) send(ctx context.Context, text string) {
	atts := a.pending
	a.pending = nil
	err := a.session.Send(ctx, text, atts)
	switch {
	case err == nil:
	case errors.Is(err, relay.ErrBusy), errors.Is(err, relay.ErrEmptyMessage),
		errors.Is(err, relay.ErrValidation), errors.Is(err, relay.ErrAttachmentTooLarge),
		errors.Is(err, relay.ErrUnsupportedAttachment):
		// Rejected before submission; nothing was sent.
		a.pending = atts
		a.fail(err)
	default:
		// The session has already reported the failure.
		a.log.Debug("send failed", zap.Error(err))
	}
}

func (a *app) fail(err error) {
	a.term.Notice(relay.Notice{Kind: relay.NoticeError, Text: "Error: " + err.Error(), Err: err})
}
