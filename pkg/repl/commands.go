package repl

import (
	"strings"
)

// CommandType represents different types of commands
type CommandType int

const (
	CommandTypeUnknown CommandType = iota
	CommandTypeREPL                // slash commands (/help, /post, ...)
	CommandTypeText                // plain text, appended to the draft body while composing
)

// Command represents a parsed command
type Command struct {
	Type CommandType
	Name string // canonical command name
	Arg  string // everything after the command name
	Raw  string // original input
}

// aliases maps every accepted spelling to its canonical command name.
var aliases = map[string]string{
	"help": "help", "h": "help", "?": "help",
	"quit": "quit", "exit": "quit", "q": "quit",
	"clear": "clear", "cls": "clear",
	"new": "toggle", "back": "toggle", "toggle": "toggle",
	"title": "title",
	"body":  "body",
	"post":  "post", "submit": "post",
	"list": "list", "refresh": "list",
	"draft": "draft",
}

// ParseCommand parses user input into a Command
func ParseCommand(input string) *Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &Command{Type: CommandTypeUnknown, Raw: input}
	}

	if !strings.HasPrefix(trimmed, "/") {
		return &Command{Type: CommandTypeText, Arg: input, Raw: input}
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(trimmed, "/"), " ")
	canonical, ok := aliases[strings.ToLower(name)]
	if !ok {
		return &Command{Type: CommandTypeUnknown, Name: name, Raw: input}
	}

	return &Command{
		Type: CommandTypeREPL,
		Name: canonical,
		Arg:  strings.TrimSpace(arg),
		Raw:  input,
	}
}

// GetREPLHelp returns help text for REPL commands
func GetREPLHelp() string {
	return `
pedroblog - terminal blog

Commands:
  /help, /h, /?        Show this help message
  /quit, /exit, /q     Exit
  /clear, /cls         Clear the screen
  /new, /back          Toggle between the post list and the post form
  /list, /refresh      Reload and show all posts

Composing:
  /title <text>        Set the post title
  /body                Write the post body (multi-line)
  /draft               Show the current draft
  /post, /submit       Publish the draft

While composing, plain text lines are appended to the body.

Note: Use Ctrl+D or enter an empty line to finish multi-line input.
`
}
