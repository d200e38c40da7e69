package calendar

import "testing"

func TestEmoji(t *testing.T) {
	tests := []struct {
		title       string
		description string
		want        string
	}{
		{"Mom's Birthday", "", "🎂"},
		{"Checkup", "at the dentist", "🏥"},
		{"Vet visit", "", "🐱"},
		{"Flight to Rome", "", "✈️"},
		{"Dinner with friends", "", "🍽️"},
		{"Pay rent", "", "💳"},
		{"Vacation planning", "", "✈️"},
		{"Company event", "", "📅"},
		{"יום הולדת לאבא", "", "🎂"},
		{"Something", "nothing special", "📅"},
		{"", "", "📅"},
	}
	for _, tt := range tests {
		if got := Emoji(tt.title, tt.description); got != tt.want {
			t.Errorf("Emoji(%q, %q) = %q, want %q", tt.title, tt.description, got, tt.want)
		}
	}
}
