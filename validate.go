package relay

import "fmt"

// Validate checks universal constraints on Request.
// Generator implementations may apply additional backend-specific validation.
func (r Request) Validate() error {
	if len(r.Turns) == 0 {
		return fmt.Errorf("request has no turns: %w", ErrValidation)
	}
	for i, t := range r.Turns {
		if err := ValidateTurn(t); err != nil {
			return fmt.Errorf("turn %d: %w", i, err)
		}
	}
	return r.Config.Validate()
}

// Validate checks sampling parameter ranges.
func (c GenerationConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g: %w", c.Temperature, ErrValidation)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be in [0, 1], got %g: %w", c.TopP, ErrValidation)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d: %w", c.TopK, ErrValidation)
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("max_output_tokens must be non-negative, got %d: %w", c.MaxOutputTokens, ErrValidation)
	}
	return nil
}

// ValidateTurn checks that a turn has a known role and that its parts are
// allowed for that role. Model turns carry text only.
func ValidateTurn(t Turn) error {
	switch t.Role {
	case RoleUser:
		return validateParts(t.Parts, t.Role, allowText|allowInlineData)
	case RoleModel:
		return validateParts(t.Parts, t.Role, allowText)
	default:
		return fmt.Errorf("unknown role %q: %w", t.Role, ErrValidation)
	}
}

type partAllow uint8

const (
	allowText partAllow = 1 << iota
	allowInlineData
)

func validateParts(parts []Part, role Role, allowed partAllow) error {
	if len(parts) == 0 {
		return fmt.Errorf("%s turn has no parts: %w", role, ErrValidation)
	}
	for _, p := range parts {
		switch v := p.(type) {
		case TextPart:
			if allowed&allowText == 0 {
				return fmt.Errorf("TextPart not allowed in %s turn: %w", role, ErrValidation)
			}
		case InlineDataPart:
			if allowed&allowInlineData == 0 {
				return fmt.Errorf("InlineDataPart not allowed in %s turn: %w", role, ErrValidation)
			}
			if v.MimeType == "" {
				return fmt.Errorf("InlineDataPart missing mime type: %w", ErrValidation)
			}
		default:
			return fmt.Errorf("unknown part type %T in %s turn: %w", p, role, ErrValidation)
		}
	}
	return nil
}
