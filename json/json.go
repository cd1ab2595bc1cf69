// Package json exports and imports conversations as JSON documents.
//
// The document is a v1 envelope holding the conversation name, export date,
// model and turns. Turns use the generateContent content layout, so
// an exported file can be replayed against the API unchanged: each part is
// either {"text": ...} or {"inline_data": {"mime_type": ..., "data": <base64>}}.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/fs"
)

const version = 1

// Conversation is an exportable snapshot of a session.
type Conversation struct {
	Name  string
	Date  time.Time
	Model string
	Turns []relay.Turn
}

// envelope is the v1 wire format for an exported conversation.
type envelope struct {
	Version      int       `json:"version"`
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	Model        string    `json:"model"`
	Conversation []turnDTO `json:"conversation"`
}

// Marshal serializes c in v1 envelope format.
func Marshal(c Conversation) ([]byte, error) {
	env := envelope{
		Version:      version,
		Name:         c.Name,
		Date:         c.Date,
		Model:        c.Model,
		Conversation: make([]turnDTO, len(c.Turns)),
	}
	for i, t := range c.Turns {
		dto, err := marshalTurn(t)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
		env.Conversation[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal deserializes a v1 envelope. Every turn is validated.
func Unmarshal(data []byte) (Conversation, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Conversation{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return Conversation{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	turns := make([]relay.Turn, len(env.Conversation))
	for i, dto := range env.Conversation {
		t, err := unmarshalTurn(dto)
		if err != nil {
			return Conversation{}, fmt.Errorf("turn %d: %w", i, err)
		}
		if err := relay.ValidateTurn(t); err != nil {
			return Conversation{}, fmt.Errorf("turn %d: %w", i, err)
		}
		turns[i] = t
	}
	return Conversation{
		Name:  env.Name,
		Date:  env.Date,
		Model: env.Model,
		Turns: turns,
	}, nil
}

// Export writes c to w.
func Export(w io.Writer, c Conversation) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Import reads a conversation from r.
func Import(r io.Reader) (Conversation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Conversation{}, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// Save writes c to a JSON file atomically, creating parent directories as
// needed.
func Save(path string, c Conversation) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return fs.WriteFile(path, append(data, '\n'))
}

// Load reads a conversation from a JSON file.
func Load(path string) (Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Conversation{}, fmt.Errorf("read file: %w", err)
	}
	return Unmarshal(data)
}
