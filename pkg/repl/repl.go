// Package repl is the terminal front end of the blog. It drives the same
// ui.Controller as the web UI and renders its state as text.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/soypete/pedroblog/pkg/ui"
)

// Options configures a REPL.
type Options struct {
	// Author is the label shown on every post.
	Author string
	// Output defaults to stdout.
	Output io.Writer
	Logger *slog.Logger
}

// REPL represents the interactive REPL
type REPL struct {
	controller *ui.Controller
	input      LineReader
	output     *Output
	author     string
	logger     *slog.Logger
}

// NewREPL creates a new REPL instance
func NewREPL(controller *ui.Controller, input LineReader, opts Options) *REPL {
	output := NewOutput()
	if opts.Output != nil {
		output.SetWriter(opts.Output)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &REPL{
		controller: controller,
		input:      input,
		output:     output,
		author:     opts.Author,
		logger:     logger.With(slog.String("component", "repl")),
	}
}

// Run loads the posts and then reads commands until /quit, EOF or ctx is
// cancelled.
func (r *REPL) Run(ctx context.Context) error {
	// Closing the input unblocks ReadLine on shutdown
	stop := context.AfterFunc(ctx, func() { r.input.Close() })
	defer func() {
		if stop() {
			r.input.Close()
		}
	}()

	r.printWelcome()

	r.controller.Mount()
	r.controller.Wait()
	r.render()

	for {
		line, err := r.input.ReadLine()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				r.output.PrintMessage("\nGoodbye!\n")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd := ParseCommand(line)
		if err := r.handleCommand(cmd); err != nil {
			if errors.Is(err, io.EOF) {
				r.output.PrintMessage("\nGoodbye!\n")
				return nil
			}
			r.output.PrintError("Error: %v\n", err)
		}
	}
}

// handleCommand handles a parsed command
func (r *REPL) handleCommand(cmd *Command) error {
	switch cmd.Type {
	case CommandTypeREPL:
		return r.handleREPLCommand(cmd)
	case CommandTypeText:
		return r.handleText(cmd)
	default:
		if cmd.Name != "" {
			r.output.PrintWarning("Unknown command: /%s\n", cmd.Name)
			r.output.PrintMessage("Type /help for available commands\n")
		}
		return nil
	}
}

// handleREPLCommand handles slash commands
func (r *REPL) handleREPLCommand(cmd *Command) error {
	switch cmd.Name {
	case "help":
		r.output.PrintMessage("%s", GetREPLHelp())
		return nil

	case "quit":
		return io.EOF

	case "clear":
		r.output.ClearScreen()
		r.render()
		return nil

	case "toggle":
		mode := r.controller.Toggle()
		r.input.SetPrompt(Prompt(mode))
		r.render()
		return nil

	case "list":
		r.controller.Reload()
		r.controller.Wait()
		s := r.controller.Snapshot()
		RenderNotice(r.output.Writer(), s)
		RenderPosts(r.output.Writer(), s, r.author)
		return nil

	case "title", "body", "draft", "post":
		if !r.controller.Snapshot().Composing() {
			r.output.PrintWarning("Not composing a post. Type /new first\n")
			return nil
		}
		return r.handleCompose(cmd)

	default:
		return nil
	}
}

// handleCompose handles commands that only make sense while the form shows.
func (r *REPL) handleCompose(cmd *Command) error {
	draft := r.controller.Snapshot().Draft

	switch cmd.Name {
	case "title":
		r.controller.SetDraft(cmd.Arg, draft.Body)
		r.output.PrintSuccess("Title set\n")

	case "body":
		r.output.PrintMessage("Write the post body. Finish with an empty line or Ctrl+D.\n")
		body, err := r.input.ReadMultiLine()
		if errors.Is(err, ErrInterrupt) || errors.Is(err, ErrNoInput) {
			r.output.PrintWarning("Body unchanged\n")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		r.controller.SetDraft(draft.Title, body)
		r.output.PrintSuccess("Body set (%d characters)\n", len(body))

	case "draft":
		RenderForm(r.output.Writer(), r.controller.Snapshot())

	case "post":
		return r.submit()
	}

	return nil
}

// submit publishes the draft and waits for the outcome so the next screen
// reflects it.
func (r *REPL) submit() error {
	if !r.controller.Submit() {
		r.output.PrintWarning("A post is already being submitted\n")
		return nil
	}

	r.output.PrintMessage("Posting...\n")
	r.controller.Wait()

	s := r.controller.Snapshot()
	if s.Composing() {
		r.output.PrintError("%s\n", s.Notice)
		return nil
	}

	r.output.PrintSuccess("Post published\n")
	r.input.SetPrompt(Prompt(s.Mode))
	r.render()
	return nil
}

// handleText appends plain lines to the draft body while composing.
func (r *REPL) handleText(cmd *Command) error {
	s := r.controller.Snapshot()
	if !s.Composing() {
		r.output.PrintMessage("Type /new to write a post or /help for commands\n")
		return nil
	}

	body := cmd.Arg
	if s.Draft.Body != "" {
		body = s.Draft.Body + "\n" + cmd.Arg
	}
	r.controller.SetDraft(s.Draft.Title, body)
	return nil
}

func (r *REPL) render() {
	Render(r.output.Writer(), r.controller.Snapshot(), r.author)
}

func (r *REPL) printWelcome() {
	r.output.PrintMessage("%s\n", strings.Repeat("=", 40))
	r.output.PrintMessage("pedroblog (type /help for commands)\n")
	r.output.PrintMessage("%s\n", strings.Repeat("=", 40))
}
