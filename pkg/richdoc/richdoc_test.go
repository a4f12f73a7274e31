package richdoc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDocument() *Document {
	bold := DefaultStyle()
	bold.Bold = true
	serif := DefaultStyle()
	serif.FontFamily = "Georgia"
	serif.FontSizePt = 14
	return &Document{
		Title: "Draft",
		Paragraphs: []Paragraph{
			{Runs: []TextRun{{Text: "Hello", Style: bold}, {Text: " world", Style: DefaultStyle()}}, Align: AlignCenter},
			{Runs: []TextRun{{Style: DefaultStyle()}}},
			{Runs: []TextRun{{Text: "item", Style: serif}}, ListKind: ListNumbered, Align: AlignJustify},
		},
	}
}

func TestRoundTripMarshalUnmarshal(t *testing.T) {
	doc := sampleDocument()
	blob, err := Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	loaded, err := Unmarshal(blob)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(doc, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializedShape(t *testing.T) {
	doc := &Document{Title: "T", Paragraphs: []Paragraph{{
		Runs:     []TextRun{{Text: "hi", Style: StyleSet{Bold: true, FontFamily: "Arial", FontSizePt: 12}}},
		Align:    AlignRight,
		ListKind: ListBullet,
	}}}
	blob, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"T","paragraphs":[{"align":"right","listKind":"bullet","runs":[{"text":"hi","bold":true,"italic":false,"underline":false,"fontFamily":"Arial","fontSizePt":12}]}]}`
	if string(blob) != want {
		t.Fatalf("unexpected record:\n got %s\nwant %s", blob, want)
	}
}

func TestUnmarshalMergesFragmentedRuns(t *testing.T) {
	blob := []byte(`{"title":"x","paragraphs":[{"align":"left","listKind":"none","runs":[
		{"text":"ab","fontFamily":"Calibri","fontSizePt":11},
		{"text":"","fontFamily":"Calibri","fontSizePt":11},
		{"text":"cd","fontFamily":"Calibri","fontSizePt":11}]}]}`)
	doc, err := Unmarshal(blob)
	if err != nil {
		t.Fatal(err)
	}
	runs := doc.Paragraphs[0].Runs
	if len(runs) != 1 || runs[0].Text != "abcd" {
		t.Fatalf("expected merged run, got %#v", runs)
	}
}

func TestUnmarshalRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"align":     `{"title":"x","paragraphs":[{"align":"diagonal","listKind":"none","runs":[{"text":"a","fontFamily":"Arial","fontSizePt":11}]}]}`,
		"list":      `{"title":"x","paragraphs":[{"align":"left","listKind":"roman","runs":[{"text":"a","fontFamily":"Arial","fontSizePt":11}]}]}`,
		"font size": `{"title":"x","paragraphs":[{"align":"left","listKind":"none","runs":[{"text":"a","fontFamily":"Arial","fontSizePt":0}]}]}`,
		"newline":   `{"title":"x","paragraphs":[{"align":"left","listKind":"none","runs":[{"text":"a\nb","fontFamily":"Arial","fontSizePt":11}]}]}`,
	}
	for name, blob := range cases {
		if _, err := Unmarshal([]byte(blob)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestMarshalRejectsBrokenInvariants(t *testing.T) {
	doc := NewDocument("x")
	doc.Paragraphs[0].Runs = []TextRun{{Text: "a", Style: DefaultStyle()}, {Text: "b", Style: DefaultStyle()}}
	if _, err := Marshal(doc); !errors.Is(err, ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}

	doc = NewDocument("x")
	doc.Paragraphs = nil
	if _, err := Marshal(doc); !errors.Is(err, ErrSerialization) {
		t.Fatalf("expected ErrSerialization for empty document, got %v", err)
	}
}

func TestValidateAllowsSoleEmptyRun(t *testing.T) {
	if err := Validate(NewDocument("")); err != nil {
		t.Fatalf("expected empty document to validate, got %v", err)
	}
}

func TestValidateRejectsEmptyRunBesideText(t *testing.T) {
	doc := NewDocument("")
	bold := DefaultStyle()
	bold.Bold = true
	doc.Paragraphs[0].Runs = []TextRun{{Style: bold}, {Text: "a", Style: DefaultStyle()}}
	if err := Validate(doc); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestPlainTextAndLen(t *testing.T) {
	doc := sampleDocument()
	if got := doc.PlainText(); got != "Hello world\n\nitem" {
		t.Fatalf("unexpected plain text %q", got)
	}
	if got := doc.Len(); got != 17 {
		t.Fatalf("unexpected length %d", got)
	}
}

func TestCanonicalize(t *testing.T) {
	bold := DefaultStyle()
	bold.Bold = true
	got := Canonicalize([]TextRun{
		{Text: "a", Style: bold},
		{Text: "", Style: DefaultStyle()},
		{Text: "b", Style: bold},
		{Text: "c", Style: DefaultStyle()},
	}, DefaultStyle())
	want := []TextRun{{Text: "ab", Style: bold}, {Text: "c", Style: DefaultStyle()}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("canonicalize mismatch (-want +got):\n%s", diff)
	}

	got = Canonicalize([]TextRun{{Style: bold}, {Style: DefaultStyle()}}, DefaultStyle())
	if len(got) != 1 || got[0].Style != bold {
		t.Fatalf("expected first empty style to survive, got %#v", got)
	}
}

func TestEnumText(t *testing.T) {
	var a Align
	if err := json.Unmarshal([]byte(`"Center"`), &a); err != nil || a != AlignCenter {
		t.Fatalf("unexpected align %v, err %v", a, err)
	}
	if _, err := json.Marshal(Align(9)); err == nil {
		t.Fatalf("expected marshal error for invalid align")
	}
	k, err := ParseListKind("numbered")
	if err != nil || k != ListNumbered {
		t.Fatalf("unexpected list kind %v, err %v", k, err)
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	doc := sampleDocument()
	blob, err := Encode(doc, SaveOptions{Compression: true, Encryption: EncryptionOptions{Enabled: true, Password: "secret"}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	info, err := Inspect(blob)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Sealed || !info.Compressed || !info.Encrypted {
		t.Fatalf("unexpected envelope info %#v", info)
	}

	if _, err := Decode(blob, LoadOptions{}); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := Decode(blob, LoadOptions{Password: "wrong"}); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	loaded, err := Decode(blob, LoadOptions{Password: "secret"})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diff := cmp.Diff(doc, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCompressedOnlyRoundTrip(t *testing.T) {
	doc := sampleDocument()
	blob, err := Encode(doc, SaveOptions{Compression: true})
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Decode(blob, LoadOptions{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if loaded.PlainText() != doc.PlainText() {
		t.Fatalf("unexpected text %q", loaded.PlainText())
	}
}

func TestSealRequiresPassword(t *testing.T) {
	_, err := Seal([]byte("x"), SaveOptions{Encryption: EncryptionOptions{Enabled: true, Password: "  "}})
	if !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestOpenRejectsTruncatedEnvelope(t *testing.T) {
	blob, err := Seal([]byte("payload"), SaveOptions{Compression: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Open(blob[:len(blob)-2], LoadOptions{}); !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
}
