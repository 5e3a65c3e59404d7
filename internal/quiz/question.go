package quiz

// Question is a validated multiple-choice question extracted from model
// output. Every Question returned by Extract satisfies: non-empty Text,
// at least two distinct Options, and CorrectAnswer within range.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}
