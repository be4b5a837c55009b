// Package command defines the commands of the interactive grammar checker and
// handles parsing of commands from input sources.
package command

// Command is a valid command received from an input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as
	// "CHECK", "PRODUCE", or "QUIT". Some verbs may have shorthand forms which
	// are typed differently, for instance "?" could be typed instead of "HELP",
	// and for all those cases they would result in a Command with a verb of
	// HELP.
	Verb string

	// Args are the arguments given after the verb with their case kept. For
	// CHECK these are the words to check, for COMPARE the first one is the
	// file of the other grammar, and for HELP the optional one is the command
	// to get help on.
	Args []string

	// Count is the number of words asked for by PRODUCE, MORE, and COMPARE.
	// It is 0 if no count was given.
	Count int
}
