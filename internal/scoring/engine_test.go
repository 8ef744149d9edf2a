package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatesim/gatesim-backend/internal/model"
)

func mcqQuestion(subject string, marks, negative float64) *model.Question {
	correct := uuid.New()
	return &model.Question{
		ID:            uuid.New(),
		QuestionType:  model.QuestionTypeMCQ,
		Subject:       subject,
		Marks:         marks,
		NegativeMarks: negative,
		Options: []model.QuestionOption{
			{ID: correct, Text: "right", IsCorrect: true},
			{ID: uuid.New(), Text: "wrong", IsCorrect: false},
			{ID: uuid.New(), Text: "also wrong", IsCorrect: false},
		},
	}
}

func msqQuestion(subject string, correctCount int) *model.Question {
	q := &model.Question{
		ID:            uuid.New(),
		QuestionType:  model.QuestionTypeMSQ,
		Subject:       subject,
		Marks:         2,
		NegativeMarks: 0.5,
	}
	for i := 0; i < correctCount; i++ {
		q.Options = append(q.Options, model.QuestionOption{ID: uuid.New(), IsCorrect: true})
	}
	q.Options = append(q.Options,
		model.QuestionOption{ID: uuid.New()},
		model.QuestionOption{ID: uuid.New()},
	)
	return q
}

func natQuestion(subject, correct string) *model.Question {
	return &model.Question{
		ID:            uuid.New(),
		QuestionType:  model.QuestionTypeNAT,
		Subject:       subject,
		Marks:         1,
		NegativeMarks: 0,
		CorrectAnswer: correct,
	}
}

func sessionFor(questions []*model.Question) *model.ExamSession {
	s := &model.ExamSession{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Answers:        map[string]json.RawMessage{},
		QuestionStatus: map[string]model.QuestionStatus{},
		StartTime:      time.Now().Add(-30 * time.Minute),
	}
	for _, q := range questions {
		s.Questions = append(s.Questions, q.ID)
		s.QuestionStatus[q.ID.String()] = model.StatusNotVisited
	}
	return s
}

func lookup(questions []*model.Question) map[uuid.UUID]*model.Question {
	m := make(map[uuid.UUID]*model.Question, len(questions))
	for _, q := range questions {
		m[q.ID] = q
	}
	return m
}

func answer(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestScoreMCQ(t *testing.T) {
	q := mcqQuestion("Math", 2, 0.66)
	correctID := q.CorrectOptionIDs()[0].String()

	t.Run("correct option id scores marks", func(t *testing.T) {
		s := sessionFor([]*model.Question{q})
		s.Answers[q.ID.String()] = answer(t, correctID)

		res := Score(s, lookup([]*model.Question{q}), time.Now())
		assert.Equal(t, 1, res.Correct)
		assert.Equal(t, 0, res.Incorrect)
		assert.Equal(t, 2.0, res.Score)
	})

	t.Run("any other id deducts negative marks", func(t *testing.T) {
		s := sessionFor([]*model.Question{q})
		s.Answers[q.ID.String()] = answer(t, q.Options[1].ID.String())

		res := Score(s, lookup([]*model.Question{q}), time.Now())
		assert.Equal(t, 0, res.Correct)
		assert.Equal(t, 1, res.Incorrect)
		assert.Equal(t, 1, res.Attempted)
		assert.Equal(t, 0.0, res.Score) // 0 - 0.66 clamped to zero
	})

	t.Run("unattempted contributes nothing", func(t *testing.T) {
		s := sessionFor([]*model.Question{q})

		res := Score(s, lookup([]*model.Question{q}), time.Now())
		assert.Equal(t, 0, res.Attempted)
		assert.Equal(t, 0, res.Incorrect)
		assert.Equal(t, 0.0, res.Score)
	})
}

func TestScoreMSQExactSet(t *testing.T) {
	q := msqQuestion("Physics", 2)
	correct := q.CorrectOptionIDs()
	wrongID := q.Options[len(q.Options)-1].ID

	cases := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact set", []string{correct[0].String(), correct[1].String()}, true},
		{"missing member", []string{correct[0].String()}, false},
		{"extra member", []string{correct[0].String(), correct[1].String(), wrongID.String()}, false},
		{"disjoint", []string{wrongID.String()}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := sessionFor([]*model.Question{q})
			s.Answers[q.ID.String()] = answer(t, tc.selected)

			res := Score(s, lookup([]*model.Question{q}), time.Now())
			if tc.want {
				assert.Equal(t, 1, res.Correct)
			} else {
				assert.Equal(t, 0, res.Correct)
				assert.Equal(t, 1, res.Incorrect)
			}
		})
	}
}

func TestScoreNATNumericParse(t *testing.T) {
	q := natQuestion("Math", "40")

	cases := []struct {
		name      string
		submitted any
		correct   bool
	}{
		{"integer string", "40", true},
		{"decimal string", "40.0", true},
		{"json number", 40.0, true},
		{"wrong value", "41", false},
		{"non numeric", "abc", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := sessionFor([]*model.Question{q})
			s.Answers[q.ID.String()] = answer(t, tc.submitted)

			res := Score(s, lookup([]*model.Question{q}), time.Now())
			if tc.correct {
				assert.Equal(t, 1, res.Correct)
			} else {
				assert.Equal(t, 1, res.Incorrect, "parse failure must count as incorrect, not panic")
			}
		})
	}
}

func TestScoreFloorAtZero(t *testing.T) {
	var qs []*model.Question
	for i := 0; i < 5; i++ {
		qs = append(qs, mcqQuestion("Chem", 1, 2))
	}
	s := sessionFor(qs)
	for _, q := range qs {
		s.Answers[q.ID.String()] = answer(t, q.Options[1].ID.String()) // all wrong
	}

	res := Score(s, lookup(qs), time.Now())
	assert.Equal(t, 5, res.Incorrect)
	assert.Equal(t, 0.0, res.Score)
}

func TestScorePercentageIsCorrectBased(t *testing.T) {
	q1 := mcqQuestion("Math", 1, 0)
	q2 := mcqQuestion("Math", 1, 0)
	q3 := mcqQuestion("Math", 1, 0)
	q4 := mcqQuestion("Math", 1, 0)
	qs := []*model.Question{q1, q2, q3, q4}

	s := sessionFor(qs)
	// One correct, three untouched: percentage over total, not attempted.
	s.Answers[q1.ID.String()] = answer(t, q1.CorrectOptionIDs()[0].String())

	res := Score(s, lookup(qs), time.Now())
	assert.Equal(t, 1, res.Attempted)
	assert.Equal(t, 25.0, res.Percentage)
}

func TestScoreSubjectBreakdown(t *testing.T) {
	math := mcqQuestion("Math", 1, 0)
	phys := mcqQuestion("Physics", 1, 0)
	qs := []*model.Question{math, phys}

	s := sessionFor(qs)
	s.Answers[math.ID.String()] = answer(t, math.CorrectOptionIDs()[0].String())
	s.Answers[phys.ID.String()] = answer(t, phys.Options[1].ID.String())

	res := Score(s, lookup(qs), time.Now())

	require.Contains(t, res.SubjectScores, "Math")
	require.Contains(t, res.SubjectScores, "Physics")
	assert.Equal(t, model.SubjectScore{Correct: 1, Attempted: 1, Total: 1}, res.SubjectScores["Math"])
	assert.Equal(t, model.SubjectScore{Correct: 0, Attempted: 1, Total: 1}, res.SubjectScores["Physics"])
}

func TestScoreSkipsDeletedQuestions(t *testing.T) {
	kept := mcqQuestion("Math", 1, 0)
	deleted := mcqQuestion("Math", 1, 0)
	s := sessionFor([]*model.Question{kept, deleted})
	s.Answers[kept.ID.String()] = answer(t, kept.CorrectOptionIDs()[0].String())
	s.Answers[deleted.ID.String()] = answer(t, deleted.CorrectOptionIDs()[0].String())

	// Lookup misses the deleted question entirely.
	res := Score(s, lookup([]*model.Question{kept}), time.Now())

	assert.Equal(t, 2, res.TotalQuestions, "sequence length is authoritative for totals")
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 50.0, res.Percentage)
}

func TestScoreElapsedWholeMinutes(t *testing.T) {
	q := mcqQuestion("Math", 1, 0)
	s := sessionFor([]*model.Question{q})
	s.StartTime = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	end := s.StartTime.Add(95*time.Minute + 30*time.Second)
	s.EndTime = &end

	res := Score(s, lookup([]*model.Question{q}), end)
	assert.Equal(t, 95, res.TimeTakenMinutes)
}
