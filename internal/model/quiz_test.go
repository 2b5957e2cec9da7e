package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestQuizViewOmitsCorrectness(t *testing.T) {
	correctID := uuid.New()
	quiz := &Quiz{
		ID:    uuid.New(),
		Title: "Checkpoint",
		Questions: []Question{
			{
				ID:              uuid.New(),
				Text:            "Pick one",
				CorrectAnswerID: &correctID,
				Answers: []Answer{
					{ID: correctID, Text: "right", IsCorrect: true},
					{ID: uuid.New(), Text: "wrong"},
				},
			},
		},
	}

	payload, err := json.Marshal(quiz.View())
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	body := string(payload)
	if strings.Contains(body, "is_correct") || strings.Contains(body, "correct_answer_id") {
		t.Errorf("view payload leaks correctness: %s", body)
	}
	if !strings.Contains(body, "right") || !strings.Contains(body, "wrong") {
		t.Error("view payload lost answer options")
	}
}
