package richdoc

import (
	"encoding/json"
	"fmt"
)

// Serialized is the storage record shared by every slot backend.
type Serialized struct {
	Title      string                `json:"title"`
	Paragraphs []SerializedParagraph `json:"paragraphs"`
}

type SerializedParagraph struct {
	Align    Align           `json:"align"`
	ListKind ListKind        `json:"listKind"`
	Runs     []SerializedRun `json:"runs"`
}

type SerializedRun struct {
	Text       string `json:"text"`
	Bold       bool   `json:"bold"`
	Italic     bool   `json:"italic"`
	Underline  bool   `json:"underline"`
	FontFamily string `json:"fontFamily"`
	FontSizePt int    `json:"fontSizePt"`
}

// ToSerialized fails with ErrSerialization when doc breaks a model invariant.
func ToSerialized(doc *Document) (Serialized, error) {
	if err := Validate(doc); err != nil {
		return Serialized{}, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	out := Serialized{Title: doc.Title, Paragraphs: make([]SerializedParagraph, len(doc.Paragraphs))}
	for i, p := range doc.Paragraphs {
		sp := SerializedParagraph{Align: p.Align, ListKind: p.ListKind, Runs: make([]SerializedRun, len(p.Runs))}
		for j, r := range p.Runs {
			sp.Runs[j] = SerializedRun{
				Text:       r.Text,
				Bold:       r.Style.Bold,
				Italic:     r.Style.Italic,
				Underline:  r.Style.Underline,
				FontFamily: r.Style.FontFamily,
				FontSizePt: r.Style.FontSizePt,
			}
		}
		out.Paragraphs[i] = sp
	}
	return out, nil
}

// FromSerialized rebuilds a document, re-merging runs into canonical form.
func FromSerialized(s Serialized) (*Document, error) {
	doc := &Document{Title: s.Title, Paragraphs: make([]Paragraph, 0, len(s.Paragraphs))}
	for _, sp := range s.Paragraphs {
		runs := make([]TextRun, len(sp.Runs))
		for j, r := range sp.Runs {
			runs[j] = TextRun{Text: r.Text, Style: StyleSet{
				Bold:       r.Bold,
				Italic:     r.Italic,
				Underline:  r.Underline,
				FontFamily: r.FontFamily,
				FontSizePt: r.FontSizePt,
			}}
		}
		doc.Paragraphs = append(doc.Paragraphs, Paragraph{
			Runs:     Canonicalize(runs, DefaultStyle()),
			Align:    sp.Align,
			ListKind: sp.ListKind,
		})
	}
	if len(doc.Paragraphs) == 0 {
		doc.Paragraphs = append(doc.Paragraphs, EmptyParagraph(DefaultStyle()))
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s Serialized) Encode(opts SaveOptions) ([]byte, error) {
	blob, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if opts.Compression || opts.Encryption.Enabled {
		return Seal(blob, opts)
	}
	return blob, nil
}

func Marshal(doc *Document) ([]byte, error) {
	return Encode(doc, SaveOptions{})
}

func Encode(doc *Document, opts SaveOptions) ([]byte, error) {
	s, err := ToSerialized(doc)
	if err != nil {
		return nil, err
	}
	return s.Encode(opts)
}

func Unmarshal(blob []byte) (*Document, error) {
	return Decode(blob, LoadOptions{})
}

// Decode accepts both bare JSON records and sealed envelopes.
func Decode(blob []byte, opts LoadOptions) (*Document, error) {
	if IsSealed(blob) {
		var err error
		blob, err = Open(blob, opts)
		if err != nil {
			return nil, err
		}
	}
	var s Serialized
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("richdoc: decode record: %w", err)
	}
	return FromSerialized(s)
}
