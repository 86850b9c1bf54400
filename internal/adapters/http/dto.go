package httpadapter

import "github.com/kirillkom/eduassist/internal/core/domain"

// Wire names follow the Spanish API consumed by the frontend.

type analyzeRequest struct {
	URL      string `json:"url"`
	Markdown bool   `json:"markdown"`
}

type analyzeResponse struct {
	Title    string `json:"titulo"`
	Text     string `json:"texto"`
	Markdown string `json:"markdown,omitempty"`
}

type summarizeRequest struct {
	Text string `json:"texto"`
	Mode string `json:"modo"`
}

type summarizeResponse struct {
	Summary string `json:"resumen"`
	Source  string `json:"fuente,omitempty"`
}

type quizRequest struct {
	Text string `json:"texto"`
	Num  *int   `json:"num"`
}

type quizItemDTO struct {
	Question string   `json:"pregunta"`
	Options  []string `json:"opciones"`
	Answer   string   `json:"respuesta"`
}

type quizResponse struct {
	Items []quizItemDTO `json:"items"`
}

type speechRequest struct {
	Text     string `json:"texto"`
	Language string `json:"idioma"`
	Async    bool   `json:"async"`
}

type speechResponse struct {
	AudioURL string `json:"audio_url"`
	Key      string `json:"key"`
	Status   string `json:"estado,omitempty"`
}

func toQuizResponse(quiz domain.Quiz) quizResponse {
	items := make([]quizItemDTO, 0, len(quiz.Items))
	for _, item := range quiz.Items {
		items = append(items, quizItemDTO{
			Question: item.Question,
			Options:  item.Options,
			Answer:   item.Answer,
		})
	}
	return quizResponse{Items: items}
}

func (r quizRequest) num(fallback int) int {
	if r.Num == nil {
		return fallback
	}
	return *r.Num
}
