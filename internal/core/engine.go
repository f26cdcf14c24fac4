package core

import (
	"cron-editor/internal/domain"
)

// Engine holds the state of one editor instance and feeds events through
// HandleEvent. It is not safe for concurrent use; callers serialize access.
type Engine struct {
	grammar *domain.Grammar
	state   State
}

// Option configures an Engine.
type Option func(*Engine)

// WithGrammar replaces the default field grammar.
func WithGrammar(g *domain.Grammar) Option {
	return func(e *Engine) {
		if g != nil {
			e.grammar = g
		}
	}
}

// NewEngine seeds an engine from a persisted value ("* * * * *" when empty)
// and returns the instructions produced by the initial evaluation.
func NewEngine(value string, opts ...Option) (*Engine, []Instruction) {
	e := &Engine{
		grammar: domain.DefaultGrammar(),
		state:   NewState(),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Init never fails for a well-formed event.
	instructions, _ := e.Dispatch(Event{Type: EventInit, Data: InitData{Value: value}})
	return e, instructions
}

// Dispatch applies an event and returns the render instructions. The state
// is left unchanged when the event is rejected.
func (e *Engine) Dispatch(event Event) ([]Instruction, error) {
	newState, instructions, err := HandleEvent(e.grammar, e.state, event)
	if err != nil {
		return nil, err
	}
	e.state = newState
	return instructions, nil
}

// SetFieldValue stores the raw text of field index.
func (e *Engine) SetFieldValue(index int, text string) ([]Instruction, error) {
	return e.Dispatch(Event{Type: EventSetField, Data: SetFieldData{Index: index, Text: text}})
}

// FocusField highlights the summary fragment of field index.
func (e *Engine) FocusField(index int) ([]Instruction, error) {
	return e.Dispatch(Event{Type: EventFocus, Data: FocusData{Index: index}})
}

// BlurField clears the highlight.
func (e *Engine) BlurField() []Instruction {
	instructions, _ := e.Dispatch(Event{Type: EventBlur})
	return instructions
}

// Serialize returns the expression written to the bound value.
func (e *Engine) Serialize() string {
	return e.state.Value
}

// Valid is the aggregate validity flag used by form validation.
func (e *Engine) Valid() bool {
	return e.state.Valid
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// Render returns the summary through r, or the error message while invalid.
func (e *Engine) Render(r domain.Renderer) string {
	if !e.state.Valid {
		return r.RenderError(domain.InvalidExpressionMessage)
	}
	return r.RenderSummary(e.state.Summary, e.state.Highlight)
}
