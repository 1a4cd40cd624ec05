package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/soypete/pedroblog/pkg/ui"
)

// ErrInterrupt is returned by ReadLine and ReadMultiLine on Ctrl+C.
var ErrInterrupt = readline.ErrInterrupt

// ErrNoInput is returned by ReadMultiLine when input ends before any text.
var ErrNoInput = errors.New("no input")

// LineReader is what the REPL reads from. InputHandler is the terminal
// implementation.
type LineReader interface {
	ReadLine() (string, error)
	ReadMultiLine() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// InputHandler manages user input with readline support
type InputHandler struct {
	rl     *readline.Instance
	prompt string
}

// NewInputHandler creates a new input handler
func NewInputHandler() (*InputHandler, error) {
	config := &readline.Config{
		Prompt:                 Prompt(ui.ModeViewing),
		HistoryFile:            getHistoryFilePath(),
		HistoryLimit:           1000,
		DisableAutoSaveHistory: false,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &InputHandler{rl: rl, prompt: config.Prompt}, nil
}

// ReadLine reads a single line of input
func (h *InputHandler) ReadLine() (string, error) {
	return h.rl.Readline()
}

// ReadMultiLine reads lines until Ctrl+D or an empty line. Ctrl+C returns
// ErrInterrupt and ending before any text returns ErrNoInput.
func (h *InputHandler) ReadMultiLine() (string, error) {
	defer h.rl.SetPrompt(h.prompt)

	h.rl.SetPrompt("...   ")
	return readMultiLine(h.rl.Readline)
}

// SetPrompt replaces the prompt
func (h *InputHandler) SetPrompt(prompt string) {
	h.prompt = prompt
	h.rl.SetPrompt(prompt)
}

// Close closes the input handler
func (h *InputHandler) Close() error {
	return h.rl.Close()
}

// readMultiLine collects lines from next until EOF or an empty line.
func readMultiLine(next func() (string, error)) (string, error) {
	var lines []string

	for {
		line, err := next()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return "", ErrInterrupt
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}

		if strings.TrimSpace(line) == "" {
			break
		}

		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return "", ErrNoInput
	}
	return strings.Join(lines, "\n"), nil
}

// Prompt is the prompt shown for mode.
func Prompt(mode ui.Mode) string {
	return fmt.Sprintf("pedroblog:%s> ", mode)
}

// getHistoryFilePath returns the path to the history file
func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pedroblog_history")
	}

	return filepath.Join(homeDir, ".pedroblog_history")
}
