package domain

// Workspace is the open unit and the per-card view state around it.
type Workspace struct {
	UnitID      string
	Title       string
	Description string
	Words       []Item
	Sentences   []Item
	Tab         Kind

	flipped map[string]bool
}

func NewWorkspace(unitID, title, description string, words, sentences []Item) *Workspace {
	return &Workspace{
		UnitID:      unitID,
		Title:       title,
		Description: description,
		Words:       words,
		Sentences:   sentences,
		Tab:         KindWords,
		flipped:     map[string]bool{},
	}
}

func (w *Workspace) Items(kind Kind) []Item {
	if kind == KindSentences {
		return w.Sentences
	}
	return w.Words
}

func (w *Workspace) IDs(kind Kind) []string {
	items := w.Items(kind)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func (w *Workspace) AllIDs() []string {
	return append(w.IDs(KindWords), w.IDs(KindSentences)...)
}

// Find looks an item up by id, words first.
func (w *Workspace) Find(id string) (Item, bool) {
	for _, item := range w.Words {
		if item.ID == id {
			return item, true
		}
	}
	for _, item := range w.Sentences {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// TextFor resolves an audio key to spoken text: words first, then sentences, else the key.
func (w *Workspace) TextFor(audioKey string) string {
	for _, item := range w.Words {
		if item.Audio == audioKey {
			return item.English
		}
	}
	for _, item := range w.Sentences {
		if item.Audio == audioKey {
			return item.English
		}
	}
	return audioKey
}

// Flip toggles a card and reports whether it now shows its back.
func (w *Workspace) Flip(id string) bool {
	next := !w.flipped[id]
	if next {
		w.flipped[id] = true
	} else {
		delete(w.flipped, id)
	}
	return next
}

func (w *Workspace) Flipped() map[string]bool {
	out := make(map[string]bool, len(w.flipped))
	for id := range w.flipped {
		out[id] = true
	}
	return out
}

// Unflip turns every card of kind back to its front; an empty kind unflips everything.
func (w *Workspace) Unflip(kind Kind) {
	if kind == "" {
		w.flipped = map[string]bool{}
		return
	}
	for _, id := range w.IDs(kind) {
		delete(w.flipped, id)
	}
}
