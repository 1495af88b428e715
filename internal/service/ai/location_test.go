package ai

import "testing"

func TestAnnotateLocation(t *testing.T) {
	cases := []struct {
		name     string
		question string
		reply    string
		want     string
	}{
		{
			name:     "simple place",
			question: "How is the weather in Berlin?",
			reply:    "Sunny.",
			want:     "In Berlin it is typically like this: Sunny.",
		},
		{
			name:     "multi word place",
			question: "what do people eat in New York",
			reply:    "Bagels.",
			want:     "In New York it is typically like this: Bagels.",
		},
		{
			name:     "sentence initial In",
			question: "In Paris, what should I see?",
			reply:    "The Louvre.",
			want:     "In Paris it is typically like this: The Louvre.",
		},
		{
			name:     "lowercase continuation is not a place",
			question: "I believe in the process",
			reply:    "Good.",
			want:     "Good.",
		},
		{
			name:     "no location",
			question: "tell me a joke",
			reply:    "Why did the gopher cross the road?",
			want:     "Why did the gopher cross the road?",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := annotateLocation(tc.question, tc.reply); got != tc.want {
				t.Fatalf("annotateLocation(%q, %q) = %q, want %q", tc.question, tc.reply, got, tc.want)
			}
		})
	}
}
