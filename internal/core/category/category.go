// Package category assigns one task category to a session based on its
// session key, human-assigned label, and first user message. Categories
// are an ordered list evaluated first-win; the last category has no
// patterns and always matches.
package category

import "regexp"

// Category is one classification bucket.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`

	// Patterns match against free text (label, then first message).
	Patterns []*regexp.Regexp `json:"-"`
	// SessionKeyPattern, when set, matches against the structural
	// session key and wins over any text pattern of any category.
	SessionKeyPattern *regexp.Regexp `json:"-"`
}

// Context carries the per-session signals used for classification.
type Context struct {
	SessionKey   string
	Label        string
	FirstMessage string
}

// DefaultCategories returns the built-in ordered category list. Order is
// load-bearing: matching is first-win and the fallback must stay last.
func DefaultCategories() []Category {
	return []Category{
		{
			ID:    "morning-boost",
			Name:  "Morning Boost Emails",
			Emoji: "📧",
			Color: "#f472b6",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)morning\s*boost`),
				regexp.MustCompile(`(?i)newsletter`),
				regexp.MustCompile(`(?i)send.*email`),
			},
		},
		{
			ID:    "morning-briefing",
			Name:  "Morning Briefing",
			Emoji: "🌅",
			Color: "#fbbf24",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)morning\s*briefing`),
				regexp.MustCompile(`(?i)daily\s*briefing`),
			},
		},
		{
			ID:    "dashboard",
			Name:  "Dashboard Development",
			Emoji: "📊",
			Color: "#3b82f6",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)dashboard`),
				regexp.MustCompile(`(?i)api\s*usage`),
				regexp.MustCompile(`(?i)visualization`),
				regexp.MustCompile(`(?i)cost.*tracking`),
			},
		},
		{
			ID:    "subagent",
			Name:  "Subagent Tasks",
			Emoji: "🔄",
			Color: "#8b5cf6",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)subagent`),
				regexp.MustCompile(`(?i)sub-agent`),
				regexp.MustCompile(`(?i)spawned.*task`),
			},
			SessionKeyPattern: regexp.MustCompile(`:subagent:`),
		},
		{
			ID:    "calendar-reminder",
			Name:  "Calendar & Reminders",
			Emoji: "📅",
			Color: "#14b8a6",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)reminder`),
				regexp.MustCompile(`(?i)calendar`),
				regexp.MustCompile(`(?i)scheduled`),
				regexp.MustCompile(`(?i)\[cron:`),
			},
		},
		{
			ID:    "coding",
			Name:  "Coding & Development",
			Emoji: "💻",
			Color: "#22c55e",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)code|coding|programming`),
				regexp.MustCompile(`(?i)implement|build|create.*(?:api|endpoint|feature)`),
				regexp.MustCompile(`(?i)fix.*bug`),
				regexp.MustCompile(`(?i)refactor`),
				regexp.MustCompile(`(?i)git.*commit`),
			},
		},
		{
			ID:    "research",
			Name:  "Research & Analysis",
			Emoji: "🔍",
			Color: "#06b6d4",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)search|research|analyze`),
				regexp.MustCompile(`(?i)web.*search`),
				regexp.MustCompile(`(?i)look.*up`),
				regexp.MustCompile(`(?i)find.*information`),
			},
		},
		{
			// Fallback: no patterns, always matches.
			ID:    "chat",
			Name:  "General Chat",
			Emoji: "💬",
			Color: "#6b7280",
		},
	}
}

// Classifier applies an ordered category list to session contexts.
type Classifier struct {
	categories []Category
}

// NewClassifier creates a classifier over the given ordered categories.
// Passing nil uses the default set.
func NewClassifier(categories []Category) *Classifier {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Classifier{categories: categories}
}

// Categories returns the ordered category list.
func (c *Classifier) Categories() []Category {
	return c.categories
}

// Classify picks exactly one category for the context. Precedence:
// session-key patterns, then label text, then first-message text, then
// the fallback. It never fails: the fallback category matches everything.
func (c *Classifier) Classify(ctx Context) Category {
	for _, cat := range c.categories {
		if cat.SessionKeyPattern != nil && cat.SessionKeyPattern.MatchString(ctx.SessionKey) {
			return cat
		}
	}

	if cat, ok := c.matchText(ctx.Label); ok {
		return cat
	}
	if cat, ok := c.matchText(ctx.FirstMessage); ok {
		return cat
	}

	return c.Fallback()
}

func (c *Classifier) matchText(text string) (Category, bool) {
	for _, cat := range c.categories {
		for _, pattern := range cat.Patterns {
			if pattern.MatchString(text) {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// Fallback returns the designated fallback category: the first one with
// an empty pattern list, or the last category if none is marked.
func (c *Classifier) Fallback() Category {
	for _, cat := range c.categories {
		if len(cat.Patterns) == 0 && cat.SessionKeyPattern == nil {
			return cat
		}
	}
	return c.categories[len(c.categories)-1]
}
