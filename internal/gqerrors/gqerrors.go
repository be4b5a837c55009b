// Package gqerrors has errors that carry a message meant for the person using
// the interactive checker along with a more technical description.
package gqerrors

import "fmt"

// consoleError is an error caused by a command that could not be carried out.
// It includes a human-readable message to show at the console as well as a
// typical more technical "error message" style message.
type consoleError struct {
	msg   string
	human string
	wrap  error
}

func (e *consoleError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed to the user to
// describe the error.
func (e *consoleError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the consoleError wraps, if it wraps one.
func (e *consoleError) Unwrap() error {
	return e.wrap
}

// Command returns a new error that has both the message to show the user and
// the technical description of the error.
func Command(human, technical string) error {
	return Wrap(nil, human, technical)
}

// Commandf returns a new error that has a message to show to the user and an
// automatically generated Error() description.
func Commandf(humanFormat string, a ...interface{}) error {
	return Command(fmt.Sprintf(humanFormat, a...), "")
}

// Wrap returns a new error that has both the message to show the user and the
// technical description of the error, and that wraps e.
func Wrap(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("command error: %s", human)
		if e != nil {
			technical += ": " + e.Error()
		}
	}
	return &consoleError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// Wrapf is like Wrap but builds the human message from a format string, and
// the technical message is generated.
func Wrapf(e error, humanFormat string, a ...interface{}) error {
	return Wrap(e, fmt.Sprintf(humanFormat, a...), "")
}

// ConsoleMessage gets the message to display to the console for the given
// error. If err was created by this package, its human message is returned.
// Otherwise, err.Error() is returned.
func ConsoleMessage(err error) string {
	if cErr, ok := err.(*consoleError); ok {
		return cErr.ConsoleMessage()
	}
	return err.Error()
}
