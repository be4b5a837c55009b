package ebnf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// file error.go contains errors generated from reading grammar files.

// SyntaxError is a problem with the text of a grammar file.
type SyntaxError struct {
	sourceLine string
	filename   string

	// line that error occured on, 1-indexed.
	line int

	// position in line of error, 1-indexed.
	pos     int
	message string
}

func (se SyntaxError) Error() string {
	where := ""
	if se.filename != "" {
		where = se.filename + ": "
	}

	if se.line == 0 {
		return fmt.Sprintf("%ssyntax error: %s", where, se.message)
	}

	return fmt.Sprintf("%ssyntax error: around line %d, char %d: %s", where, se.line, se.pos, se.message)
}

// Line returns the line the error occured on. Lines are 1-indexed. This will
// return 0 if the line is not set.
func (se SyntaxError) Line() int {
	return se.line
}

// Position returns the character position that the error occured on. Character
// positions are 1-indexed. This will return 0 if the character position is not
// set.
func (se SyntaxError) Position() int {
	return se.pos
}

// Message returns the description of the problem without its location.
func (se SyntaxError) Message() string {
	return se.message
}

// FullMessage shows the complete message of the error string along with the
// offending line and a cursor to the problem position in a formatted way.
func (se SyntaxError) FullMessage() string {
	errMsg := se.Error()

	if se.line != 0 {
		if cursor := se.SourceLineWithCursor(); cursor != "" {
			errMsg = cursor + "\n" + errMsg
		}
	}

	return errMsg
}

// SourceLineWithCursor returns the source offending code on one line and
// directly under it a cursor showing where the error occured.
//
// Returns a blank string if no source line was provided for the error (such as
// for unexpected EOF errors).
func (se SyntaxError) SourceLineWithCursor() string {
	if se.sourceLine == "" {
		return ""
	}

	// pos is 1-indexed.
	cursorLine := strings.Repeat(" ", max(se.pos-1, 0)) + "^"

	return se.sourceLine + "\n" + cursorLine
}

// syntaxErrorFrom converts an error from the parser into a SyntaxError that
// points into src.
func syntaxErrorFrom(filename, src string, err error) SyntaxError {
	var pErr participle.Error
	if !errors.As(err, &pErr) {
		return SyntaxError{filename: filename, message: err.Error()}
	}

	pos := pErr.Position()
	return SyntaxError{
		filename:   filename,
		message:    pErr.Message(),
		line:       pos.Line,
		pos:        pos.Column,
		sourceLine: sourceLine(src, pos.Line),
	}
}

// syntaxErrorAt builds a SyntaxError for a problem found after parsing.
func syntaxErrorAt(filename, src string, line, col int, msg string) SyntaxError {
	return SyntaxError{
		filename:   filename,
		message:    msg,
		line:       line,
		pos:        col,
		sourceLine: sourceLine(src, line),
	}
}

func sourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
