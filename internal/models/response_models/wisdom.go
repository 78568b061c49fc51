package response_models

import "strings"

// Layout tells which of the two payload shapes a Wisdom carries.
type Layout string

const (
	LayoutSingle Layout = "single"
	LayoutSpread Layout = "spread"
)

// SpreadSize is the number of cards a spread always holds.
const SpreadSize = 3

// CardWisdom is one quote card. Title is only set inside a spread; Keyword,
// Advice and Encouragement are optional for single cards.
type CardWisdom struct {
	Title          string `json:"title,omitempty"`
	Keyword        string `json:"keyword,omitempty"`
	Quote          string `json:"quote"`
	Source         string `json:"source"`
	Interpretation string `json:"interpretation"`
	Advice         string `json:"advice,omitempty"`
	Encouragement  string `json:"encouragement,omitempty"`
}

type SpreadWisdom struct {
	Cards         []CardWisdom `json:"cards"`
	OverallAdvice string       `json:"overallAdvice"`
}

// Wisdom is the answer to one question. Exactly one of Card or Spread is set,
// matching Layout.
type Wisdom struct {
	Layout Layout        `json:"layout"`
	Card   *CardWisdom   `json:"card,omitempty"`
	Spread *SpreadWisdom `json:"spread,omitempty"`
}

// PrimaryQuote returns the quote a one-line summary would show: the single
// card's, or the first card of a spread.
func (w Wisdom) PrimaryQuote() string {
	switch {
	case w.Card != nil:
		return w.Card.Quote
	case w.Spread != nil && len(w.Spread.Cards) > 0:
		return w.Spread.Cards[0].Quote
	}
	return ""
}

var cardOrdinals = []string{"壹", "贰", "叁"}

// CardOrdinal is the label printed on the i-th card of a spread.
func CardOrdinal(i int) string {
	if i < 0 || i >= len(cardOrdinals) {
		return ""
	}
	return cardOrdinals[i]
}

// DisplaySource strips any book-title brackets the model added so the
// renderer can wrap the source exactly once.
func (c CardWisdom) DisplaySource() string {
	return strings.TrimSpace(strings.NewReplacer("《", "", "》", "").Replace(c.Source))
}
