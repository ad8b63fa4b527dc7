package sentiment

import "strings"

// Label is the sentiment assigned to a review
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Keyword stems are matched as plain substrings of the lower-cased text,
// so "хорош" covers "хороший", "хорошо", "хорошая" and so on.
var (
	positiveKeywords = []string{"хорош", "отличн", "прекрасн", "любл", "нравит", "супер", "класс"}
	negativeKeywords = []string{"плох", "ужасн", "ненавиж", "отвратительн", "кошмар", "разочарован"}
)

// Classify returns the sentiment of text. Positive keywords are checked
// first and win when the text also contains a negative one.
func Classify(text string) Label {
	text = strings.ToLower(text)

	if containsAny(text, positiveKeywords) {
		return Positive
	}
	if containsAny(text, negativeKeywords) {
		return Negative
	}
	return Neutral
}

// Valid reports whether l is one of the known labels
func (l Label) Valid() bool {
	switch l {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

func (l Label) String() string {
	return string(l)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
