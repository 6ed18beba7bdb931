// Package intent decides which providers answer a user message.
package intent

import (
	"regexp"
	"strings"
)

// Decision is the routing outcome for a single message
type Decision string

const (
	// VideoOnly answers with video search results alone.
	VideoOnly Decision = "video_only"
	// TextWithVideo answers with generated text followed by video results.
	TextWithVideo Decision = "text_with_video"
	// TextOnly answers with generated text alone.
	TextOnly Decision = "text_only"
)

// Rule pairs a predicate over the lower-cased message with the decision it selects
type Rule struct {
	Name     string
	Match    func(message string) bool
	Decision Decision
}

var (
	// Whole words only: "linked double crochet" is a stitch, not a request for links.
	videoWords = regexp.MustCompile(`\b(youtube|links?|videos?)\b`)

	howToMake = regexp.MustCompile(`how (to|do i) (make|crochet|create)`)

	tutorialPhrases = []string{"tutorial", "show me", "pattern for", "watch"}
)

// DefaultRules are evaluated top-down; the first match wins.
var DefaultRules = []Rule{
	{
		Name:     "video keywords",
		Match:    videoWords.MatchString,
		Decision: VideoOnly,
	},
	{
		Name:     "how-to request",
		Match:    howToMake.MatchString,
		Decision: TextWithVideo,
	},
	{
		Name:     "tutorial keywords",
		Match:    containsAny(tutorialPhrases...),
		Decision: TextWithVideo,
	},
}

// Classifier evaluates an ordered rule list
type Classifier struct {
	rules    []Rule
	fallback Decision
}

// NewClassifier builds a classifier; messages matching no rule get TextOnly
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules, fallback: TextOnly}
}

// Classify returns the decision of the first matching rule
func (c *Classifier) Classify(message string) Decision {
	normalized := strings.ToLower(message)
	for _, rule := range c.rules {
		if rule.Match(normalized) {
			return rule.Decision
		}
	}
	return c.fallback
}

var defaultClassifier = NewClassifier(DefaultRules)

// Classify uses DefaultRules
func Classify(message string) Decision {
	return defaultClassifier.Classify(message)
}

func containsAny(phrases ...string) func(string) bool {
	return func(message string) bool {
		for _, phrase := range phrases {
			if strings.Contains(message, phrase) {
				return true
			}
		}
		return false
	}
}
