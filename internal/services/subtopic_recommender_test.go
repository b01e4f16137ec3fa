package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/learnscope/learnscope-backend/internal/apierr"
	"github.com/learnscope/learnscope-backend/internal/types"
)

func sampleQuestions() []types.SurveyQuestion {
	return []types.SurveyQuestion{
		{Question: "How much Python have you written?", Options: []string{"None", "Some", "Lots"}},
		{Question: "What is your goal?", Options: []string{"Job", "Hobby"}},
	}
}

func TestSubtopicUserPrompt_PairsAnswersByPosition(t *testing.T) {
	prompt := subtopicUserPrompt("Python", sampleQuestions(), []string{"Some", "Job"})

	first := strings.Index(prompt, "Q: How much Python have you written?\nA: Some")
	second := strings.Index(prompt, "Q: What is your goal?\nA: Job")
	if first == -1 || second == -1 {
		t.Fatalf("prompt missing paired Q/A lines:\n%s", prompt)
	}
	if first > second {
		t.Fatalf("pairs out of order:\n%s", prompt)
	}
	if !strings.Contains(prompt, "learning Python") {
		t.Fatalf("topic missing from prompt:\n%s", prompt)
	}
}

func TestCoerceSubtopics_AcceptsFive(t *testing.T) {
	subtopics, err := coerceSubtopics(validSubtopicOutput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subtopics) != subtopicCount {
		t.Fatalf("expected %d subtopics, got %d", subtopicCount, len(subtopics))
	}
}

func TestCoerceSubtopics_RejectsWrongCount(t *testing.T) {
	obj := map[string]any{"subtopics": []any{"one", "two"}}
	if _, err := coerceSubtopics(obj); err == nil {
		t.Fatalf("expected error for two subtopics")
	}
}

func TestCoerceSubtopics_RejectsBlankEntries(t *testing.T) {
	obj := map[string]any{"subtopics": []any{"one", "two", "  ", "four", "five"}}
	if _, err := coerceSubtopics(obj); err == nil {
		t.Fatalf("expected error for blank subtopic")
	}
}

func TestRecommend_LengthMismatchIsValidation(t *testing.T) {
	ai := &fakeAIClient{obj: validSubtopicOutput()}
	rec := NewSubtopicRecommender(newTestLogger(t), ai, nil)

	_, err := rec.Recommend(authedContext(uuid.New()), uuid.New(), nil, "Python", sampleQuestions(), []string{"Some"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if apierr.From(err).Code != apierr.CodeValidation {
		t.Fatalf("expected validation code, got %q", apierr.From(err).Code)
	}
	if ai.calls != 0 {
		t.Fatalf("model should not be called on validation failure")
	}
}

func TestRecommend_ReturnsModelOutput(t *testing.T) {
	ai := &fakeAIClient{obj: validSubtopicOutput()}
	rec := NewSubtopicRecommender(newTestLogger(t), ai, nil)

	subtopics, err := rec.Recommend(authedContext(uuid.New()), uuid.New(), nil, "Python", sampleQuestions(), []string{"Some", "Job"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subtopics) != subtopicCount {
		t.Fatalf("expected %d subtopics, got %d", subtopicCount, len(subtopics))
	}
	if subtopics[0] != "Subtopic one" {
		t.Fatalf("expected real model output, got %q", subtopics[0])
	}
}
