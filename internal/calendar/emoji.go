// Package calendar holds presentation helpers for household events.
package calendar

import (
	"strings"
	"unicode"
)

const defaultEmoji = "📅"

type emojiRule struct {
	keywords []string
	emoji    string
}

// Checked in order; the first rule with a keyword in the title or
// description wins.
var emojiRules = []emojiRule{
	{[]string{"birthday", "bday", "יום הולדת", "יומולדת"}, "🎂"},
	{[]string{"doctor", "dentist", "clinic", "hospital", "רופא", "מרפאה", "שיניים"}, "🏥"},
	{[]string{"vet", "cat", "וטרינר", "חתול"}, "🐱"},
	{[]string{"flight", "airport", "trip", "vacation", "טיסה", "חופשה"}, "✈️"},
	{[]string{"dinner", "lunch", "restaurant", "brunch", "ארוחה", "מסעדה"}, "🍽️"},
	{[]string{"wedding", "חתונה"}, "💍"},
	{[]string{"party", "מסיבה"}, "🎉"},
	{[]string{"meeting", "interview", "work", "פגישה", "עבודה"}, "💼"},
	{[]string{"exam", "class", "course", "מבחן", "שיעור"}, "📚"},
	{[]string{"gym", "run", "yoga", "אימון"}, "🏋️"},
	{[]string{"movie", "cinema", "show", "סרט", "הופעה"}, "🎬"},
	{[]string{"bill", "payment", "rent", "תשלום", "שכירות"}, "💳"},
}

// Emoji picks an icon for an event from keywords in its title and
// description.
func Emoji(title, description string) string {
	text := strings.ToLower(title + " " + description)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range emojiRules {
		for _, kw := range rule.keywords {
			if matches(text, words, kw) {
				return rule.emoji
			}
		}
	}
	return defaultEmoji
}

// matches treats single ASCII keywords as word prefixes so that "vet" does
// not fire on "event". Phrases and Hebrew keywords, which take attached
// prefixes, match anywhere.
func matches(text string, words []string, kw string) bool {
	if strings.Contains(kw, " ") || !isASCII(kw) {
		return strings.Contains(text, kw)
	}
	for _, w := range words {
		if strings.HasPrefix(w, kw) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
