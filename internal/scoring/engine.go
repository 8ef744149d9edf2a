// Package scoring evaluates a submitted exam session against its question
// set. It is pure: no storage, no clock other than the caller's, so the
// MCQ/MSQ/NAT semantics can be tested exhaustively in isolation.
package scoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gatesim/gatesim-backend/internal/model"
)

// Score walks the session's fixed question sequence and produces the
// result record. Questions missing from the lookup (deleted since the
// session started) are skipped silently. The final score is clamped to
// zero; the percentage is correct-count based, not score based.
func Score(session *model.ExamSession, questions map[uuid.UUID]*model.Question, now time.Time) *model.ExamResult {
	res := &model.ExamResult{
		UserID:         session.UserID,
		ExamSessionID:  session.ID,
		TotalQuestions: len(session.Questions),
		SubjectScores:  make(map[string]model.SubjectScore),
		SubmittedAt:    now,
	}

	var score float64

	for _, qid := range session.Questions {
		q, ok := questions[qid]
		if !ok {
			continue // Deleted after sampling; tolerated.
		}

		subj := res.SubjectScores[q.Subject]
		subj.Total++

		raw, answered := session.Answers[qid.String()]
		ans := model.DecodeAnswer(raw, q.QuestionType)
		if !answered || ans.Kind == model.AnswerNone {
			res.SubjectScores[q.Subject] = subj
			continue
		}

		res.Attempted++
		subj.Attempted++

		if evaluate(q, ans) {
			res.Correct++
			subj.Correct++
			score += q.Marks
		} else {
			res.Incorrect++
			score -= q.NegativeMarks
		}

		res.SubjectScores[q.Subject] = subj
	}

	if score < 0 {
		score = 0
	}
	res.Score = score

	if res.TotalQuestions > 0 {
		res.Percentage = float64(res.Correct) / float64(res.TotalQuestions) * 100
	}

	end := now
	if session.EndTime != nil {
		end = *session.EndTime
	}
	res.TimeTakenMinutes = int(end.Sub(session.StartTime).Minutes())

	return res
}

// evaluate applies the per-type correctness rule.
func evaluate(q *model.Question, ans model.Answer) bool {
	if !ans.Valid {
		return false
	}

	switch q.QuestionType {
	case model.QuestionTypeMCQ:
		correct := q.CorrectOptionIDs()
		if len(correct) != 1 {
			return false
		}
		return ans.Single == correct[0].String()

	case model.QuestionTypeMSQ:
		correct := q.CorrectOptionIDs()
		if len(ans.Multiple) != len(correct) {
			return false
		}
		for _, id := range correct {
			if _, ok := ans.Multiple[id.String()]; !ok {
				return false
			}
		}
		return true

	case model.QuestionTypeNAT:
		want, err := strconv.ParseFloat(strings.TrimSpace(q.CorrectAnswer), 64)
		if err != nil {
			return false
		}
		// Exact float comparison, no tolerance.
		return ans.Numeric == want
	}

	return false
}
