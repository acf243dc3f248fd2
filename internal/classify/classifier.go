package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"hadithhub/pkg/models"
)

// MinTextLength is the shortest text (in runes) that is worth classifying.
const MinTextLength = 10

// GeneralTheme is the theme attached to the catch-all category.
const GeneralTheme = "General Guidance"

// Rule ties a keyword set to a category and theme. Keywords are matched
// case-insensitively on word boundaries; a trailing '*' makes the keyword a
// prefix ("pray*" matches "prayer" and "praying").
type Rule struct {
	Category models.Category
	Theme    string
	Keywords []string
}

// Result is the outcome of classifying one text.
type Result struct {
	Category models.Category `json:"category"`
	Theme    string          `json:"theme"`
}

// defaultRules is evaluated top to bottom; the first rule with a matching
// keyword wins, so the order here is the priority order.
var defaultRules = []Rule{
	{models.CategoryPrayer, "Prayer and Worship", []string{
		"pray*", "salat", "salah", "prostrat*", "mosque*", "ablution", "wudu",
		"worship*", "adhan", "fast", "fasting", "ramadan", "rak'at*"}},
	{models.CategoryFaith, "Faith and Belief", []string{
		"faith*", "belie*", "iman", "tawhid", "angel*", "divine decree", "unseen",
		"monothe*"}},
	{models.CategoryCharacter, "Character and Manners", []string{
		"character", "manners", "honest*", "truthful*", "lying", "liar*", "kindness",
		"kind", "anger", "angry", "humble", "humility", "modest*", "good conduct",
		"backbit*", "envy", "jealous*", "arrogan*"}},
	{models.CategoryKnowledge, "Knowledge and Learning", []string{
		"knowledge", "learn*", "scholar*", "teach*", "wisdom", "quran", "qur'an",
		"recit*"}},
	{models.CategoryCharity, "Charity and Giving", []string{
		"charit*", "sadaqa*", "zakat", "alms", "generous", "generosity", "spend*"}},
	{models.CategoryFamily, "Family and Relationships", []string{
		"mother*", "father*", "parent*", "wife", "wives", "husband*", "marri*",
		"marry", "child*", "kinship", "relatives", "womb"}},
	{models.CategoryBusiness, "Business and Trade", []string{
		"trade*", "trading", "sell*", "sold", "buy*", "bought", "merchant*", "debt*",
		"loan*", "market*", "usury", "riba", "wage*", "commerce", "profit*"}},
	{models.CategoryHealth, "Health and Wellbeing", []string{
		"health*", "sick*", "illness*", "disease*", "medicine*", "cure*", "heal*",
		"fever"}},
	{models.CategoryFood, "Food and Drink", []string{
		"food*", "eat*", "drink*", "meal*", "hunger", "hungry", "bread", "milk",
		"meat"}},
	{models.CategoryAfterlife, "Afterlife and Judgment", []string{
		"paradise", "hell", "hellfire", "hereafter", "resurrection",
		"day of judgment", "day of judgement", "grave*", "jannah", "jahannam"}},
	{models.CategoryCommunity, "Community and Brotherhood", []string{
		"neighbo*", "brother*", "community", "guest*", "orphan*", "muslims", "ummah"}},
	{models.CategoryRepentance, "Repentance and Forgiveness", []string{
		"repent*", "forgiv*", "sin", "sins", "sinful", "tawba", "istighfar",
		"pardon*"}},
	{models.CategoryPatience, "Patience and Perseverance", []string{
		"patien*", "persever*", "steadfast*", "endur*", "calamit*", "affliction*",
		"hardship*", "trial*"}},
	{models.CategoryGratitude, "Gratitude and Thankfulness", []string{
		"gratitude", "grateful*", "thank*", "blessing*"}},
}

type keyword struct {
	text   string
	prefix bool
}

type compiledRule struct {
	result   Result
	keywords []keyword
}

// Classifier is a pure, deterministic text classifier over an ordered rule list.
type Classifier struct {
	rules []compiledRule
}

// New compiles rules in the given order.
func New(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{result: Result{Category: r.Category, Theme: r.Theme}}
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			k := keyword{text: strings.TrimSuffix(kw, "*"), prefix: strings.HasSuffix(kw, "*")}
			if k.text != "" {
				cr.keywords = append(cr.keywords, k)
			}
		}
		c.rules = append(c.rules, cr)
	}
	return c
}

var defaultClassifier = New(defaultRules)

// Default returns the classifier built from the built-in rule list.
func Default() *Classifier { return defaultClassifier }

// Rules returns a copy of the built-in rule list in priority order.
func Rules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = Rule{Category: r.Category, Theme: r.Theme, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify is shorthand for Default().Classify(text).
func Classify(text string) Result { return defaultClassifier.Classify(text) }

// General is the catch-all result.
func General() Result {
	return Result{Category: models.CategoryGeneral, Theme: GeneralTheme}
}

// Classify returns the first matching rule's category and theme, or the
// catch-all for short or unmatched texts.
func (c *Classifier) Classify(text string) Result {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinTextLength {
		return General()
	}
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if matchKeyword(lower, kw) {
				return r.result
			}
		}
	}
	return General()
}

// ThemeFor returns the theme label of category, or GeneralTheme.
func (c *Classifier) ThemeFor(category models.Category) string {
	for _, r := range c.rules {
		if r.result.Category == category {
			return r.result.Theme
		}
	}
	return GeneralTheme
}

// matchKeyword reports whether kw occurs in text starting at a word boundary
// and, unless kw is a prefix, ending at one. Every occurrence is tried.
func matchKeyword(text string, kw keyword) bool {
	from := 0
	for from <= len(text)-len(kw.text) {
		idx := strings.Index(text[from:], kw.text)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(kw.text)
		if !wordBefore(text, start) && (kw.prefix || !wordAfter(text, end)) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWordRune(r)
}

func wordAfter(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
