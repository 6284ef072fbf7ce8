package ui

// PromptAction is the outcome of feeding a key to a prompt.
type PromptAction int

// Prompt actions.
const (
	PromptNone PromptAction = iota
	PromptAccept
	PromptCancel
)

// Prompt is a single-line input shown on the status line.
type Prompt struct {
	Label string
	input []rune
}

// NewPrompt creates an empty prompt.
func NewPrompt(label string) *Prompt {
	return &Prompt{Label: label}
}

// HandleKey edits the input.
func (p *Prompt) HandleKey(ev Event) PromptAction {
	switch ev.Key {
	case KeyRune:
		p.input = append(p.input, ev.Rune)
	case KeyBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case KeyCtrl:
		if ev.Rune == 'u' {
			p.input = p.input[:0]
		}
	case KeyEnter:
		return PromptAccept
	case KeyEscape:
		return PromptCancel
	}
	return PromptNone
}

// Value returns the current input.
func (p *Prompt) Value() string {
	return string(p.input)
}

// Text returns the label followed by the input.
func (p *Prompt) Text() string {
	return p.Label + string(p.input)
}
