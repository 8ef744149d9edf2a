package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAnswerEmpty(t *testing.T) {
	assert.Equal(t, AnswerNone, DecodeAnswer(nil, QuestionTypeMCQ).Kind)
	assert.Equal(t, AnswerNone, DecodeAnswer(json.RawMessage("null"), QuestionTypeMSQ).Kind)
}

func TestDecodeAnswerMCQ(t *testing.T) {
	a := DecodeAnswer(json.RawMessage(`"opt-1"`), QuestionTypeMCQ)
	assert.True(t, a.Valid)
	assert.Equal(t, "opt-1", a.Single)

	// Arrays are not a valid MCQ shape.
	bad := DecodeAnswer(json.RawMessage(`["opt-1"]`), QuestionTypeMCQ)
	assert.False(t, bad.Valid)
}

func TestDecodeAnswerMSQ(t *testing.T) {
	a := DecodeAnswer(json.RawMessage(`["a","b","a"]`), QuestionTypeMSQ)
	assert.True(t, a.Valid)
	assert.Len(t, a.Multiple, 2)

	// A lone scalar counts as a one-element selection.
	single := DecodeAnswer(json.RawMessage(`"a"`), QuestionTypeMSQ)
	assert.True(t, single.Valid)
	assert.Len(t, single.Multiple, 1)

	empty := DecodeAnswer(json.RawMessage(`[]`), QuestionTypeMSQ)
	assert.False(t, empty.Valid)
}

func TestDecodeAnswerNAT(t *testing.T) {
	num := DecodeAnswer(json.RawMessage(`40`), QuestionTypeNAT)
	assert.True(t, num.Valid)
	assert.Equal(t, 40.0, num.Numeric)

	str := DecodeAnswer(json.RawMessage(`" 40.5 "`), QuestionTypeNAT)
	assert.True(t, str.Valid)
	assert.Equal(t, 40.5, str.Numeric)

	bad := DecodeAnswer(json.RawMessage(`"abc"`), QuestionTypeNAT)
	assert.False(t, bad.Valid)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "what is tcp?", NormalizeText("  What   IS\tTCP? "))
	assert.Equal(t, NormalizeText("A  B"), NormalizeText("a b"))
}

func TestValidateShape(t *testing.T) {
	mcq := Question{
		QuestionType: QuestionTypeMCQ,
		Options: []QuestionOption{
			{Text: "a", IsCorrect: true},
			{Text: "b"},
		},
	}
	assert.NoError(t, mcq.ValidateShape())

	mcq.Options[1].IsCorrect = true
	assert.ErrorIs(t, mcq.ValidateShape(), ErrMCQShape)

	msq := Question{
		QuestionType: QuestionTypeMSQ,
		Options: []QuestionOption{
			{Text: "a", IsCorrect: true},
			{Text: "b", IsCorrect: true},
		},
	}
	assert.NoError(t, msq.ValidateShape())

	nat := Question{QuestionType: QuestionTypeNAT, CorrectAnswer: "42.5"}
	assert.NoError(t, nat.ValidateShape())

	nat.CorrectAnswer = "forty-two"
	assert.ErrorIs(t, nat.ValidateShape(), ErrNATShape)

	nat.CorrectAnswer = "42"
	nat.Options = []QuestionOption{{Text: "a"}}
	assert.ErrorIs(t, nat.ValidateShape(), ErrNATShape)
}
