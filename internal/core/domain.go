package core

import (
	"fmt"
	"strings"

	"cron-editor/internal/domain"
)

// HandleEvent is a pure function that takes current state and an event,
// and returns the new state along with instructions for the renderer.
// This function has no side effects and is fully testable.
func HandleEvent(g *domain.Grammar, state State, event Event) (State, []Instruction, error) {
	switch event.Type {
	case EventInit:
		data, ok := event.Data.(InitData)
		if !ok {
			return state, nil, fmt.Errorf("invalid InitData")
		}
		return handleInit(g, state, data)
	case EventSetField:
		data, ok := event.Data.(SetFieldData)
		if !ok {
			return state, nil, fmt.Errorf("invalid SetFieldData")
		}
		return handleSetField(g, state, data)
	case EventFocus:
		data, ok := event.Data.(FocusData)
		if !ok {
			return state, nil, fmt.Errorf("invalid FocusData")
		}
		return handleFocus(state, data)
	case EventBlur:
		return handleBlur(state)
	default:
		return state, nil, fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func handleInit(g *domain.Grammar, state State, data InitData) (State, []Instruction, error) {
	value := strings.TrimSpace(data.Value)
	if value == "" {
		value = domain.DefaultExpression
	}

	newState := state
	newState.Fields = g.Evaluate(domain.SplitExpression(value))
	return recompute(newState)
}

func handleSetField(g *domain.Grammar, state State, data SetFieldData) (State, []Instruction, error) {
	if !validIndex(data.Index) {
		return state, nil, fmt.Errorf("%w: %d", domain.ErrFieldIndex, data.Index)
	}

	raw := strings.TrimSpace(data.Text)
	newState := state
	newState.Fields[data.Index] = domain.FieldState{
		Raw:   raw,
		Valid: g.ValidField(domain.Kind(data.Index), raw),
	}
	return recompute(newState)
}

func handleFocus(state State, data FocusData) (State, []Instruction, error) {
	if !validIndex(data.Index) {
		return state, nil, fmt.Errorf("%w: %d", domain.ErrFieldIndex, data.Index)
	}

	newState := state
	newState.Highlight = data.Index
	return newState, highlightInstructions(newState), nil
}

func handleBlur(state State) (State, []Instruction, error) {
	newState := state
	newState.Highlight = domain.NoHighlight
	return newState, highlightInstructions(newState), nil
}

// recompute derives value, validity and summary from the field states.
func recompute(state State) (State, []Instruction, error) {
	newState := state
	newState.Value = state.Fields.Serialize()
	newState.Valid = state.Fields.AllValid()

	instructions := make([]Instruction, 0, domain.FieldCount+2)
	instructions = append(instructions, Instruction{
		Type:  InstructionWriteValue,
		Value: newState.Value,
	})
	for i, f := range newState.Fields {
		instructions = append(instructions, Instruction{
			Type:  InstructionMarkField,
			Index: i,
			Valid: f.Valid,
		})
	}

	if !newState.Valid {
		// Summary stays frozen underneath the error.
		instructions = append(instructions, Instruction{
			Type:    InstructionShowError,
			Message: domain.InvalidExpressionMessage,
		})
		return newState, instructions, nil
	}

	newState.Summary = domain.BuildSummary(newState.Fields.Values())
	instructions = append(instructions, Instruction{
		Type:      InstructionShowSummary,
		Summary:   newState.Summary,
		Highlight: newState.Highlight,
	})
	return newState, instructions, nil
}

// highlightInstructions re-renders the summary on focus changes. The error
// message is left alone while the expression is invalid.
func highlightInstructions(state State) []Instruction {
	if !state.Valid {
		return nil
	}
	return []Instruction{{
		Type:      InstructionShowSummary,
		Summary:   state.Summary,
		Highlight: state.Highlight,
	}}
}

func validIndex(i int) bool {
	return i >= 0 && i < domain.FieldCount
}
