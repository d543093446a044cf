package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/osteele/pubadmin/internal/form"
)

// GetEditor returns the configured editor from environment variables.
func GetEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vim"
}

// waitFlags are the flags that keep GUI editors in the foreground until
// the file is closed. Terminal editors need none.
var waitFlags = map[string]string{
	"code":          "--wait",
	"code-insiders": "--wait",
	"cursor":        "--wait",
	"zed":           "--wait",
	"subl":          "--wait",
	"sublime_text":  "--wait",
	"mate":          "-w",
	"bbedit":        "--wait",
	"gvim":          "-f",
	"mvim":          "-f",
	"macvim":        "-f",
	"gedit":         "--wait",
	"kate":          "--block",
}

// EditorCommand builds the command that edits path, adding a wait flag
// for GUI editors that would otherwise return at once.
func EditorCommand(path string) (*exec.Cmd, error) {
	parts := parseEditorCommand(GetEditor())
	if len(parts) == 0 {
		return nil, errors.New("invalid editor command")
	}
	program, args := parts[0], parts[1:]
	if flag, ok := waitFlags[strings.ToLower(filepath.Base(program))]; ok && !slices.Contains(args, flag) {
		args = append(args, flag)
	}
	args = append(args, path)
	return exec.Command(program, args...), nil
}

// parseEditorCommand parses an editor command string into program and arguments.
// Handles simple shell-like quoting (single and double quotes).
func parseEditorCommand(cmd string) []string {
	var parts []string
	var current []byte
	var inSingleQuote, inDoubleQuote bool

	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		switch {
		case c == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
		case c == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
		case c == ' ' && !inSingleQuote && !inDoubleQuote:
			if len(current) > 0 {
				parts = append(parts, string(current))
				current = nil
			}
		default:
			current = append(current, c)
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}

// submitFunc sends decoded form values and returns a status message.
type submitFunc func(ctx context.Context, values map[string]any) (string, error)

// editSession is a form document in a temp file. The file outlives failed
// submissions so the user can fix it and try again.
type editSession struct {
	path     string
	original []byte
	schema   form.Schema
	submit   submitFunc
	finish   func()

	mu   sync.Mutex
	done bool
}

func newEditSession(name string, schema form.Schema, values map[string]any, submit submitFunc, finish func()) (*editSession, error) {
	doc, err := form.Encode(schema, values)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s form: %w", name, err)
	}
	f, err := os.CreateTemp("", "pubadmin-"+name+"-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to create edit file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(doc); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write edit file: %w", err)
	}
	return &editSession{
		path:     f.Name(),
		original: doc,
		schema:   schema,
		submit:   submit,
		finish:   finish,
	}, nil
}

// Path returns the document's file name.
func (s *editSession) Path() string {
	return s.path
}

// Command implements ui.EditSession.
func (s *editSession) Command() *exec.Cmd {
	cmd, err := EditorCommand(s.path)
	if err != nil {
		// Let the terminal report the failure.
		return exec.Command("false")
	}
	return cmd
}

// Submit implements ui.EditSession.
func (s *editSession) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return "", errors.New("edit already submitted")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read edit file: %w", err)
	}
	if bytes.Equal(data, s.original) {
		s.close()
		return "No changes", nil
	}

	values, err := form.Decode(s.schema, data)
	if err != nil {
		return "", err
	}
	msg, err := s.submit(ctx, values)
	if err != nil {
		return "", err
	}
	s.close()
	return msg, nil
}

func (s *editSession) close() {
	s.done = true
	os.Remove(s.path)
	if s.finish != nil {
		s.finish()
	}
}
