// Command relay is a terminal chat client for the Gemini API.
//
// Usage:
//
//	GEMINI_API_KEY=... relay [flags]
//
// Settings are read from the config file, then the environment, then flags.
// Inside the session, lines starting with "/" are commands; type /help for a
// list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		stop()
		os.Exit(1)
	}
}
