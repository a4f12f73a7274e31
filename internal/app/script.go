package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"richdoc/internal/editor"
	"richdoc/pkg/richdoc"
)

var ErrScript = errors.New("app: invalid script")

type step struct {
	line int
	verb string
	arg  string
}

var verbs = map[string]bool{
	"select": true, "caret": true,
	"bold": true, "italic": true, "underline": true,
	"align": true, "list": true, "font": true, "size": true, "grow": true,
	"insert": true, "delete": true, "backspace": true, "forward": true,
	"undo": true, "redo": true, "title": true,
}

// parseScript reads one action per line. Blank lines and lines starting
// with '#' are skipped.
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		verb = strings.ToLower(verb)
		if !verbs[verb] {
			return nil, fmt.Errorf("%w: line %d: unknown action %q", ErrScript, n, verb)
		}
		steps = append(steps, step{line: n, verb: verb, arg: strings.TrimSpace(arg)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func runScript(s *editor.Session, steps []step) error {
	for _, st := range steps {
		if err := runStep(s, st); err != nil {
			return fmt.Errorf("line %d (%s): %w", st.line, st.verb, err)
		}
	}
	return nil
}

func runStep(s *editor.Session, st step) error {
	switch st.verb {
	case "select":
		a, b, ok := strings.Cut(st.arg, " ")
		if !ok {
			return fmt.Errorf("%w: select needs two offsets", ErrScript)
		}
		anchor, err := atoi(a)
		if err != nil {
			return err
		}
		focus, err := atoi(b)
		if err != nil {
			return err
		}
		return s.SetSelection(editor.Select(anchor, focus))
	case "caret":
		n, err := atoi(st.arg)
		if err != nil {
			return err
		}
		return s.SetSelection(editor.Caret(n))
	case "undo":
		_, err := s.Undo()
		return err
	case "redo":
		_, err := s.Redo()
		return err
	case "title":
		s.SetTitle(st.arg)
		return nil
	}
	cmd, err := scriptCommand(st)
	if err != nil {
		return err
	}
	_, err = s.Execute(cmd, s.Selection())
	return err
}

func scriptCommand(st step) (editor.Command, error) {
	switch st.verb {
	case "bold":
		return editor.ToggleBold{}, nil
	case "italic":
		return editor.ToggleItalic{}, nil
	case "underline":
		return editor.ToggleUnderline{}, nil
	case "align":
		a, err := richdoc.ParseAlign(st.arg)
		if err != nil {
			return nil, err
		}
		return editor.SetAlignment{Align: a}, nil
	case "list":
		k, err := richdoc.ParseListKind(st.arg)
		if err != nil {
			return nil, err
		}
		return editor.SetListKind{Kind: k}, nil
	case "font":
		return editor.SetFontFamily{Family: st.arg}, nil
	case "size":
		n, err := atoi(st.arg)
		if err != nil {
			return nil, err
		}
		return editor.SetFontSize{Pt: n}, nil
	case "grow":
		n, err := atoi(st.arg)
		if err != nil {
			return nil, err
		}
		return editor.GrowFont{Step: n}, nil
	case "insert":
		text, err := unquote(st.arg)
		if err != nil {
			return nil, err
		}
		return editor.InsertText{Text: text}, nil
	case "delete":
		return editor.DeleteSelection{}, nil
	case "backspace":
		return editor.Backspace{}, nil
	case "forward":
		return editor.DeleteForward{}, nil
	}
	return nil, fmt.Errorf("%w: unknown action %q", ErrScript, st.verb)
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrScript, s)
	}
	return n, nil
}

// unquote accepts Go-quoted text so scripts can carry "\n" and leading
// spaces; anything else is taken literally.
func unquote(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return s, nil
	}
	out, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("%w: bad quoted text %s", ErrScript, s)
	}
	return out, nil
}
