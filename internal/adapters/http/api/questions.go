package api

import (
	"net/http"

	"github.com/okian/tasting/internal/domain/catalog"
)

// QuestionDependencies exposes the question catalog.
type QuestionDependencies interface {
	Questions() []catalog.Question
	MaxScore() float64
}

// questionsResponse is the body of GET /questions.
type questionsResponse struct {
	Questions []catalog.Question `json:"questions"`
	MaxScore  float64            `json:"maxScore"`
}

// QuestionsHandler serves the question catalog.
type QuestionsHandler struct {
	deps QuestionDependencies
}

// NewQuestionsHandler creates a new questions handler.
func NewQuestionsHandler(deps QuestionDependencies) *QuestionsHandler {
	return &QuestionsHandler{deps: deps}
}

// HandleGetQuestions handles GET /questions requests.
func (h *QuestionsHandler) HandleGetQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, questionsResponse{
		Questions: h.deps.Questions(),
		MaxScore:  h.deps.MaxScore(),
	})
}
