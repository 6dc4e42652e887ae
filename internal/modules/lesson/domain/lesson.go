package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "dictation/internal/platform/errors"
)

type Kind string

const (
	KindWords     Kind = "words"
	KindSentences Kind = "sentences"
)

const (
	UploadScheme       = "upload://"
	DefaultDescription = "自定義上傳單元"
	DefaultDifficulty  = "custom"
)

func (k Kind) Validate() error {
	switch k {
	case KindWords, KindSentences:
		return nil
	default:
		return fmt.Errorf("%w: unsupported item kind %q", apperrors.ErrInvalidInput, string(k))
	}
}

type Item struct {
	ID          string `json:"id"`
	English     string `json:"english"`
	Translation string `json:"translation"`
	Audio       string `json:"audio"`
	Hint        string `json:"hint,omitempty"`
}

type Unit struct {
	ID          string
	Title       string
	Description string
	Words       []Item
	Sentences   []Item
}

func (u Unit) Items(kind Kind) []Item {
	if kind == KindSentences {
		return u.Sentences
	}
	return u.Words
}

// UnitRef is one entry of the unit index.
type UnitRef struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	DataURL        string `json:"dataUrl,omitempty"`
	WordsCount     int    `json:"words_count,omitempty"`
	SentencesCount int    `json:"sentences_count,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	Created        string `json:"created,omitempty"`
}

func (r UnitRef) IsUpload() bool {
	return strings.HasPrefix(r.DataURL, UploadScheme)
}

// Location is where the unit document lives: its dataUrl, or <id>.json next to the index.
func (r UnitRef) Location() string {
	if r.DataURL != "" {
		return r.DataURL
	}
	return r.ID + ".json"
}

type Index struct {
	Units []UnitRef `json:"units"`
}

func ParseIndex(raw []byte) (Index, error) {
	var index Index
	if err := json.Unmarshal(raw, &index); err != nil {
		return Index{}, fmt.Errorf("decode unit index: %w", err)
	}
	return index, nil
}

func (i Index) Find(id string) (UnitRef, bool) {
	for _, ref := range i.Units {
		if ref.ID == id {
			return ref, true
		}
	}
	return UnitRef{}, false
}

// Merge returns a copy where each extra ref replaces the entry with the same id, or is appended.
func (i Index) Merge(extra []UnitRef) Index {
	units := append([]UnitRef(nil), i.Units...)
	for _, ref := range extra {
		replaced := false
		for idx := range units {
			if units[idx].ID == ref.ID {
				units[idx] = ref
				replaced = true
				break
			}
		}
		if !replaced {
			units = append(units, ref)
		}
	}
	return Index{Units: units}
}

// Resolve picks the requested unit when the index has it, else the fallback, else the first entry.
func (i Index) Resolve(requested, fallback string) (string, bool) {
	if _, ok := i.Find(requested); ok && requested != "" {
		return requested, true
	}
	if _, ok := i.Find(fallback); ok && fallback != "" {
		return fallback, true
	}
	if len(i.Units) > 0 {
		return i.Units[0].ID, true
	}
	return "", false
}

// Document is the lesson file as stored and uploaded.
type Document struct {
	UnitID          string  `json:"unit_id"`
	UnitTitle       string  `json:"unit_title"`
	UnitDescription string  `json:"unit_description,omitempty"`
	Difficulty      string  `json:"difficulty,omitempty"`
	Words           *[]Item `json:"words"`
	Sentences       *[]Item `json:"sentences"`
}

func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidUnit, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d Document) Validate() error {
	var missing []string
	if strings.TrimSpace(d.UnitID) == "" {
		missing = append(missing, "unit_id")
	}
	if strings.TrimSpace(d.UnitTitle) == "" {
		missing = append(missing, "unit_title")
	}
	if d.Words == nil {
		missing = append(missing, "words")
	}
	if d.Sentences == nil {
		missing = append(missing, "sentences")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperrors.ErrInvalidUnit, strings.Join(missing, "/"))
	}
	return nil
}

// Unit converts a validated document; id is the index id the unit was requested under.
func (d Document) Unit(id string) Unit {
	if id == "" {
		id = d.UnitID
	}
	unit := Unit{ID: id, Title: d.UnitTitle, Description: d.UnitDescription}
	if d.Words != nil {
		unit.Words = append([]Item(nil), (*d.Words)...)
	}
	if d.Sentences != nil {
		unit.Sentences = append([]Item(nil), (*d.Sentences)...)
	}
	return unit
}

// UploadRef builds the index entry registered for an uploaded document.
func (d Document) UploadRef(created string) UnitRef {
	description := d.UnitDescription
	if description == "" {
		description = DefaultDescription
	}
	difficulty := d.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	ref := UnitRef{
		ID:          d.UnitID,
		Title:       d.UnitTitle,
		Description: description,
		DataURL:     UploadScheme + d.UnitID,
		Difficulty:  difficulty,
		Created:     created,
	}
	if d.Words != nil {
		ref.WordsCount = len(*d.Words)
	}
	if d.Sentences != nil {
		ref.SentencesCount = len(*d.Sentences)
	}
	return ref
}
