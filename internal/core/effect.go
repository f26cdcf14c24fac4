package core

import (
	"cron-editor/internal/domain"
)

// InstructionType represents the kind of render instruction.
type InstructionType string

const (
	InstructionWriteValue  InstructionType = "WriteValue"
	InstructionMarkField   InstructionType = "MarkField"
	InstructionShowSummary InstructionType = "ShowSummary"
	InstructionShowError   InstructionType = "ShowError"
)

// Instruction tells the rendering adapter what to change.
// The reducer produces Instructions without executing them, maintaining purity.
type Instruction struct {
	Type InstructionType

	// WriteValue
	Value string

	// MarkField
	Index int
	Valid bool

	// ShowSummary
	Summary   domain.Summary
	Highlight int

	// ShowError
	Message string
}

// Event represents an input event to the editor.
type Event struct {
	Type EventType
	Data interface{}
}

// EventType represents the type of event.
type EventType string

const (
	EventInit     EventType = "Init"
	EventSetField EventType = "SetField"
	EventFocus    EventType = "Focus"
	EventBlur     EventType = "Blur"
)

// InitData seeds the editor from a persisted value.
type InitData struct {
	Value string
}

// SetFieldData carries the new raw text of one field.
type SetFieldData struct {
	Index int
	Text  string
}

// FocusData names the focused field.
type FocusData struct {
	Index int
}

// State is the complete state of one editor instance.
type State struct {
	Fields domain.Fields
	Value  string
	Valid  bool

	// Summary is the last summary built from a valid expression. It is left
	// untouched while the expression is invalid.
	Summary domain.Summary

	// Highlight is the focused field index or domain.NoHighlight. It survives
	// the error state.
	Highlight int
}

// NewState returns the state before any event is handled.
func NewState() State {
	return State{Highlight: domain.NoHighlight}
}
