package json

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/fwojciec/relay"
)

// turnDTO is the JSON representation of a Turn.
type turnDTO struct {
	Role      string     `json:"role"`
	Parts     []partDTO  `json:"parts"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// partDTO holds exactly one of Text or InlineData.
type partDTO struct {
	Text       *string        `json:"text,omitempty"`
	InlineData *inlineDataDTO `json:"inline_data,omitempty"`
}

type inlineDataDTO struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

func marshalTurn(t relay.Turn) (turnDTO, error) {
	dto := turnDTO{
		Role:  string(t.Role),
		Parts: make([]partDTO, len(t.Parts)),
	}
	if !t.Timestamp.IsZero() {
		ts := t.Timestamp
		dto.Timestamp = &ts
	}
	for i, p := range t.Parts {
		switch v := p.(type) {
		case relay.TextPart:
			text := v.Text
			dto.Parts[i] = partDTO{Text: &text}
		case relay.InlineDataPart:
			dto.Parts[i] = partDTO{InlineData: &inlineDataDTO{
				MimeType: v.MimeType,
				Data:     base64.StdEncoding.EncodeToString(v.Data),
			}}
		default:
			return turnDTO{}, fmt.Errorf("part %d: unknown part type %T", i, p)
		}
	}
	return dto, nil
}

func unmarshalTurn(dto turnDTO) (relay.Turn, error) {
	t := relay.Turn{
		Role:  relay.Role(dto.Role),
		Parts: make([]relay.Part, len(dto.Parts)),
	}
	if dto.Timestamp != nil {
		t.Timestamp = *dto.Timestamp
	}
	for i, p := range dto.Parts {
		switch {
		case p.Text != nil && p.InlineData != nil:
			return relay.Turn{}, fmt.Errorf("part %d: both text and inline_data set", i)
		case p.Text != nil:
			t.Parts[i] = relay.TextPart{Text: *p.Text}
		case p.InlineData != nil:
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return relay.Turn{}, fmt.Errorf("part %d: decode inline data: %w", i, err)
			}
			t.Parts[i] = relay.InlineDataPart{MimeType: p.InlineData.MimeType, Data: data}
		default:
			return relay.Turn{}, fmt.Errorf("part %d: empty part", i)
		}
	}
	return t, nil
}
