package mastery

import "strings"

// Interaction kinds produced by the known event surfaces. The set is open:
// kinds this engine has never seen resolve to the default weight so new
// producers degrade gracefully instead of erroring.
const (
	KindLexiconImport       = "lexicon_import"
	KindTranslateText       = "translate_text"
	KindChatMessage         = "chat_message"
	KindChatMessageBot      = "chat_message_bot"
	KindPassiveRead         = "passive_read"
	KindCourseHoverLookup   = "course_hover_lookup"
	KindCourseGlossLookup   = "course_gloss_lookup"
	KindCourseSwapCorrect   = "course_swap_correct"
	KindCourseSwapIncorrect = "course_swap_incorrect"
	KindFlashcardCorrect    = "flashcard_guess_correct"
	KindFlashcardIncorrect  = "flashcard_guess_incorrect"
)

// defaultWeight applies to unrecognized interaction kinds
const defaultWeight = 0.3

// baseWeights maps an interaction kind to its evidence weight. Incorrect
// answers carry negative weight: they subtract evidence rather than add it.
var baseWeights = map[string]float64{
	KindLexiconImport:       0.25,
	KindTranslateText:       0.4,
	KindChatMessage:         0.6,
	KindChatMessageBot:      0.3,
	KindPassiveRead:         0.1,
	KindCourseHoverLookup:   0.25,
	KindCourseGlossLookup:   0.3,
	KindCourseSwapCorrect:   0.65,
	KindCourseSwapIncorrect: -0.2,
	KindFlashcardCorrect:    0.8,
	KindFlashcardIncorrect:  -0.3,
}

// posMultipliers scales evidence by grammatical category. Seeing a determiner
// or pronoun is far less diagnostic than seeing a noun or verb.
var posMultipliers = map[string]float64{
	"CCONJ": 0.1,
	"PART":  0.1,
	"DET":   0.15,
	"PRON":  0.2,
	"AUX":   0.2,
	"NOUN":  1.0,
	"VERB":  1.0,
	"ADJ":   1.0,
	"ADV":   1.0,
}

// Weight resolves the evidence weight for an interaction kind and part of
// speech. An absent or unclassified POS multiplies by 1. The result may be
// negative and must reach aggregation unclamped; only the final mastery score
// is bounded.
func Weight(kind, pos string) float64 {
	base, ok := baseWeights[kind]
	if !ok {
		base = defaultWeight
	}

	mult, ok := posMultipliers[strings.ToUpper(pos)]
	if !ok {
		mult = 1.0
	}

	return base * mult
}

// IsFunctionWord reports whether the part of speech denotes a grammatical
// (function) word rather than a content word
func IsFunctionWord(pos string) bool {
	mult, ok := posMultipliers[strings.ToUpper(pos)]
	return ok && mult < 1.0
}
