package domain

type Kind string

const (
	KindWords     Kind = "words"
	KindSentences Kind = "sentences"
)

// Catalog keys for card numbering.
const (
	NumberWord     = "card.word"
	NumberSentence = "card.sentence"
)

// Stars is an item's count and label key as reported by mastery.
type Stars struct {
	Count    int
	LabelKey string
}

// Scale is mastery's view of a set of items; Max is the count at which an item is mastered.
type Scale struct {
	Max   int
	Items map[string]Stars
}

type Item struct {
	ID          string
	Kind        Kind
	Position    int
	English     string
	Translation string
	Audio       string
	Hint        string
}

// Card is everything needed to draw one flashcard.
type Card struct {
	Item
	NumberKey      string
	Stars          int
	MaxStars       int
	LabelKey       string
	Flipped        bool
	Playing        bool
	CorrectEnabled bool
	ReviewEnabled  bool
}

// Render builds the cards for items. It has no side effects.
func Render(items []Item, scale Scale, flipped map[string]bool, activeControl string) []Card {
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		stars := scale.Items[item.ID]
		count := clamp(stars.Count, scale.Max)
		isFlipped := flipped[item.ID]
		cards = append(cards, Card{
			Item:           item,
			NumberKey:      numberKey(item.Kind),
			Stars:          count,
			MaxStars:       scale.Max,
			LabelKey:       stars.LabelKey,
			Flipped:        isFlipped,
			Playing:        activeControl != "" && activeControl == item.ID,
			CorrectEnabled: isFlipped && count < scale.Max,
			ReviewEnabled:  isFlipped && count > 0,
		})
	}
	return cards
}

func numberKey(kind Kind) string {
	if kind == KindSentences {
		return NumberSentence
	}
	return NumberWord
}

func clamp(stars, limit int) int {
	if stars < 0 {
		return 0
	}
	if stars > limit {
		return limit
	}
	return stars
}
