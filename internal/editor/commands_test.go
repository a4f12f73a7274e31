package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"richdoc/pkg/richdoc"
)

func TestToggleBoldSplitsRun(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello world"))))
	res, err := s.Execute(ToggleBold{}, Select(0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed {
		t.Fatal("expected a committed change")
	}
	want := []richdoc.TextRun{bold("Hello"), plain(" world")}
	if diff := cmp.Diff(want, s.Store().Paragraph(0).Runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
	if res.Selection != Select(0, 5) {
		t.Fatalf("style commands should keep the selection, got %+v", res.Selection)
	}
}

func TestToggleClearsWhenWholeSelectionHasAttribute(t *testing.T) {
	s := NewSession(docOf(para(bold("Hello"), plain(" world"))))
	if _, err := s.Execute(ToggleBold{}, Select(0, 11)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]richdoc.TextRun{bold("Hello world")}, s.Store().Paragraph(0).Runs); diff != "" {
		t.Fatalf("mixed selection should become bold (-want +got):\n%s", diff)
	}
	if _, err := s.Execute(ToggleBold{}, Select(0, 11)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]richdoc.TextRun{plain("Hello world")}, s.Store().Paragraph(0).Runs); diff != "" {
		t.Fatalf("fully bold selection should be cleared (-want +got):\n%s", diff)
	}
}

func TestToggleOnCaretIsNoop(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello"))))
	res, err := s.Execute(ToggleItalic{}, Caret(2))
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed || s.CanUndo() {
		t.Fatal("toggling on a caret should not record history")
	}
}

func TestToggleUnderlineAcrossParagraphs(t *testing.T) {
	s := NewSession(mixedDoc())
	if _, err := s.Execute(ToggleUnderline{}, Select(0, 12)); err != nil {
		t.Fatal(err)
	}
	doc := s.Document()
	for i, p := range doc.Paragraphs {
		for _, r := range p.Runs {
			if !r.Style.Underline {
				t.Fatalf("paragraph %d run %q not underlined", i, r.Text)
			}
		}
	}
}

func TestSetFontSizeRejectsNonPositive(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello"))))
	_, err := s.Execute(SetFontSize{Pt: 0}, Select(0, 5))
	if !errors.Is(err, ErrInvalidStyleValue) {
		t.Fatalf("expected ErrInvalidStyleValue, got %v", err)
	}
	if s.CanUndo() {
		t.Fatal("rejected command should not record history")
	}
}

func TestSetFontFamilyRejectsBlank(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello"))))
	if _, err := s.Execute(SetFontFamily{Family: "  "}, Select(0, 5)); !errors.Is(err, ErrInvalidStyleValue) {
		t.Fatalf("expected ErrInvalidStyleValue, got %v", err)
	}
}

func TestSetFontFamilyAndSize(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello"))))
	if _, err := s.Execute(SetFontFamily{Family: " Georgia "}, Select(0, 5)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Execute(SetFontSize{Pt: 18}, Select(0, 5)); err != nil {
		t.Fatal(err)
	}
	got := s.Store().Paragraph(0).Runs[0].Style
	if got.FontFamily != "Georgia" || got.FontSizePt != 18 {
		t.Fatalf("unexpected style: %+v", got)
	}
	res, err := s.Execute(SetFontSize{Pt: 18}, Select(0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Fatal("setting the current size again should be a no-op")
	}
	if s.UndoDepth() != 2 {
		t.Fatalf("expected 2 undo steps, got %d", s.UndoDepth())
	}
}

func TestGrowFontClamps(t *testing.T) {
	st := richdoc.DefaultStyle()
	st.FontSizePt = 94
	s := NewSession(docOf(para(richdoc.TextRun{Text: "big", Style: st})))
	if _, err := s.Execute(GrowFont{Step: 5}, Select(0, 3)); err != nil {
		t.Fatal(err)
	}
	if got := s.Store().Paragraph(0).Runs[0].Style.FontSizePt; got != MaxFontSizePt {
		t.Fatalf("expected size clamped to %d, got %d", MaxFontSizePt, got)
	}
	if _, err := s.Execute(GrowFont{}, Select(0, 3)); !errors.Is(err, ErrInvalidStyleValue) {
		t.Fatalf("expected ErrInvalidStyleValue for zero step, got %v", err)
	}
}

func TestSetAlignmentOnCaretTargetsParagraph(t *testing.T) {
	s := NewSession(docOf(para(plain("one")), para(plain("two"))))
	if _, err := s.Execute(SetAlignment{Align: richdoc.AlignRight}, Caret(5)); err != nil {
		t.Fatal(err)
	}
	doc := s.Document()
	if doc.Paragraphs[0].Align != richdoc.AlignLeft || doc.Paragraphs[1].Align != richdoc.AlignRight {
		t.Fatalf("unexpected alignment: %v, %v", doc.Paragraphs[0].Align, doc.Paragraphs[1].Align)
	}
	if _, err := s.Execute(SetAlignment{Align: richdoc.Align(9)}, Caret(0)); !errors.Is(err, ErrInvalidStyleValue) {
		t.Fatalf("expected ErrInvalidStyleValue, got %v", err)
	}
}

func TestSetListKindOverSelection(t *testing.T) {
	s := NewSession(docOf(para(plain("one")), para(plain("two")), para(plain("three"))))
	if _, err := s.Execute(SetListKind{Kind: richdoc.ListNumbered}, Select(1, 5)); err != nil {
		t.Fatal(err)
	}
	doc := s.Document()
	got := []richdoc.ListKind{doc.Paragraphs[0].ListKind, doc.Paragraphs[1].ListKind, doc.Paragraphs[2].ListKind}
	want := []richdoc.ListKind{richdoc.ListNumbered, richdoc.ListNumbered, richdoc.ListNone}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleList(t *testing.T) {
	s := NewSession(docOf(para(plain("one")), para(plain("two"))))
	if _, err := s.Execute(ToggleList{Kind: richdoc.ListBullet}, Select(0, 7)); err != nil {
		t.Fatal(err)
	}
	for i, p := range s.Document().Paragraphs {
		if p.ListKind != richdoc.ListBullet {
			t.Fatalf("paragraph %d not bulleted", i)
		}
	}
	if _, err := s.Execute(ToggleList{Kind: richdoc.ListBullet}, Select(0, 7)); err != nil {
		t.Fatal(err)
	}
	for i, p := range s.Document().Paragraphs {
		if p.ListKind != richdoc.ListNone {
			t.Fatalf("paragraph %d still a list item", i)
		}
	}
	if _, err := s.Execute(ToggleList{Kind: richdoc.ListNone}, Caret(0)); !errors.Is(err, ErrInvalidStyleValue) {
		t.Fatalf("expected ErrInvalidStyleValue, got %v", err)
	}
}

func TestInsertTextAtCaret(t *testing.T) {
	s := NewSession(docOf(para(bold("ab"), plain("cd"))))
	res, err := s.Execute(InsertText{Text: "X"}, Caret(2))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.PlainText(); got != "abXcd" {
		t.Fatalf("unexpected text: %q", got)
	}
	if res.Selection != Caret(3) {
		t.Fatalf("expected caret after insert, got %+v", res.Selection)
	}
	want := []richdoc.TextRun{bold("abX"), plain("cd")}
	if diff := cmp.Diff(want, s.Store().Paragraph(0).Runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	s := NewSession(docOf(para(plain("ab"), bold("cd"), plain("ef"))))
	if _, err := s.Execute(InsertText{Text: "Z"}, Select(2, 4)); err != nil {
		t.Fatal(err)
	}
	want := []richdoc.TextRun{plain("ab"), bold("Z"), plain("ef")}
	if diff := cmp.Diff(want, s.Store().Paragraph(0).Runs); diff != "" {
		t.Fatalf("replacement should take the replaced style (-want +got):\n%s", diff)
	}
	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.PlainText(); got != "abcdef" {
		t.Fatalf("replace should undo as one step, got %q", got)
	}
}

func TestInsertTextNormalizesLineEndings(t *testing.T) {
	s := NewSession(docOf(para(plain(""))))
	if _, err := s.Execute(InsertText{Text: "a\r\nb"}, Caret(0)); err != nil {
		t.Fatal(err)
	}
	if got := s.PlainText(); got != "a\nb" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestDeleteSelectionOnCaretIsNoop(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello"))))
	before := s.Document()
	res, err := s.Execute(DeleteSelection{}, Caret(3))
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Fatal("expected no change")
	}
	if diff := cmp.Diff(before, s.Document()); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
	if s.UndoDepth() != 0 || s.RedoDepth() != 0 {
		t.Fatalf("history changed: undo=%d redo=%d", s.UndoDepth(), s.RedoDepth())
	}
}

func TestBackspaceMergesParagraphs(t *testing.T) {
	s := NewSession(docOf(para(plain("a")), para(plain("b"))))
	res, err := s.Execute(Backspace{}, Caret(2))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.PlainText(); got != "ab" {
		t.Fatalf("unexpected text: %q", got)
	}
	if res.Selection != Caret(1) {
		t.Fatalf("unexpected caret: %+v", res.Selection)
	}
	if res, _ := s.Execute(Backspace{}, Caret(0)); res.Changed {
		t.Fatal("backspace at document start should be a no-op")
	}
}

func TestDeleteForward(t *testing.T) {
	s := NewSession(docOf(para(plain("abc"))))
	if _, err := s.Execute(DeleteForward{}, Caret(1)); err != nil {
		t.Fatal(err)
	}
	if got := s.PlainText(); got != "ac" {
		t.Fatalf("unexpected text: %q", got)
	}
	if res, _ := s.Execute(DeleteForward{}, Caret(2)); res.Changed {
		t.Fatal("delete at document end should be a no-op")
	}
}

func TestOutOfBoundsSelectionRejected(t *testing.T) {
	s := NewSession(docOf(para(plain("Hello"))))
	for _, cmd := range []Command{ToggleBold{}, SetAlignment{Align: richdoc.AlignCenter}, InsertText{Text: "x"}, DeleteSelection{}} {
		if _, err := s.Execute(cmd, Select(0, 6)); !errors.Is(err, ErrRangeOutOfBounds) {
			t.Fatalf("%s: expected ErrRangeOutOfBounds, got %v", cmd.Name(), err)
		}
	}
	if s.CanUndo() {
		t.Fatal("rejected commands should not record history")
	}
}
