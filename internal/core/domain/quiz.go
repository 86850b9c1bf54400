package domain

// QuizOptionCount is the number of answer options per item: one answer plus three distractors.
const QuizOptionCount = 4

type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type Quiz struct {
	Items []QuizItem `json:"items"`
}
