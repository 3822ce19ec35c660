package uescript

import (
	"fmt"
	"strings"

	"github.com/th3fanbus/scriptviewer/internal/docvalue"
)

// StructuralError reports input that does not match any known decoding rule:
// an unrecognized opcode tag, an opcode missing required operand keys, a
// malformed object name or property descriptor, or a statement without an
// index. It carries the offending document node for diagnosis.
type StructuralError struct {
	Inst    string // offending opcode tag, may be empty
	Message string
	Doc     *docvalue.Value // offending input node, may be nil
}

// NewStructuralError creates a structural-input error for the given tag and
// offending document node.
func NewStructuralError(inst string, doc *docvalue.Value, format string, args ...any) *StructuralError {
	return &StructuralError{
		Inst:    inst,
		Message: fmt.Sprintf(format, args...),
		Doc:     doc,
	}
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Inst != "" {
		return fmt.Sprintf("structural error in %s: %s", e.Inst, e.Message)
	}
	return fmt.Sprintf("structural error: %s", e.Message)
}

// Format formats the error together with the offending input node.
// If color is true, ANSI color codes are used for terminal output.
func (e *StructuralError) Format(color bool) string {
	var sb strings.Builder

	if color {
		sb.WriteString("\033[1;31m") // Red bold
	}
	sb.WriteString(e.Error())
	if color {
		sb.WriteString("\033[0m") // Reset
	}

	if e.Doc != nil {
		sb.WriteString("\noffending node:\n")
		sb.Write(e.Doc.MarshalIndent("    "))
	}

	return sb.String()
}

// InvariantError reports an inconsistency detected while analyzing otherwise
// well-formed input: a duplicate computed jump, a pop with an empty simulated
// stack, a dead-end statement, leftover links at end-of-script, or a
// computed-jump target that precedes the jump.
type InvariantError struct {
	Index   int // statement index where the violation surfaced, -1 if none
	Message string
}

// NewInvariantError creates an invariant-violation error anchored at the
// given statement index.
func NewInvariantError(index int, format string, args ...any) *InvariantError {
	return &InvariantError{
		Index:   index,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invariant violation at statement %d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("invariant violation: %s", e.Message)
}
