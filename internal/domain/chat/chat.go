// Package chat holds the canned-response rules for the companion chat.
package chat

import "strings"

type Category string

const (
	Greeting Category = "greeting"
	Sad      Category = "sad"
	Stressed Category = "stressed"
	Lonely   Category = "lonely"
	Default  Category = "default"
)

// Rule matches when the lowercased message contains any of its keywords.
type Rule struct {
	Category  Category
	Keywords  []string
	Responses []string
}

func (r Rule) Matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Category: Greeting,
		Keywords: []string{"hi", "hello", "hey"},
		Responses: []string{
			"Hey! How are you doing?",
			"Hi there! What's on your mind?",
			"Hey! Nice to hear from you!",
		},
	},
	{
		Category: Sad,
		Keywords: []string{"sad", "down", "miss", "lonely"},
		Responses: []string{
			"I'm here for you. Want to talk about it?",
			"That sounds tough. I'm listening.",
			"I'm sorry you're going through this. I'm right here.",
		},
	},
	{
		Category: Stressed,
		Keywords: []string{"stress", "anxious", "worried"},
		Responses: []string{
			"Take a breath. I'm here.",
			"Let's slow down together. Deep breath in... out...",
			"You got this. I'm here to support you.",
		},
	},
	{
		Category: Lonely,
		Keywords: []string{"alone", "nobody"},
		Responses: []string{
			"I'm here. You're not alone.",
			"I miss you too! Let's chat.",
			"Hey friend! I've got you.",
		},
	},
}

// Fallback answers anything no rule matched.
var Fallback = Rule{
	Category: Default,
	Responses: []string{
		"I'm here for you. Tell me more.",
		"That's interesting! What else is on your mind?",
		"I hear you. Keep going.",
	},
}

// Classify returns the first rule matching message, or Fallback.
func Classify(message string) Rule {
	lower := strings.ToLower(message)
	for _, r := range Rules {
		if r.Matches(lower) {
			return r
		}
	}
	return Fallback
}
