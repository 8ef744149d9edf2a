package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatesim/gatesim-backend/internal/model"
)

const csvHeader = "question_text,question_type,subject,topic,option_1,option_1_correct,option_2,option_2_correct,option_3,option_3_correct,option_4,option_4_correct,marks,negative_marks,explanation,correct_answer"

func TestParseMixedFile(t *testing.T) {
	file := csvHeader + "\n" +
		`What is 2+2?,MCQ,Math,Arithmetic,3,false,4,true,5,false,,,2,0.66,Basic addition,` + "\n" +
		`Select the primes,MSQ,Math,Numbers,2,true,3,true,4,false,6,false,2,0.5,,` + "\n" +
		`Value of 8*5?,NAT,Math,Arithmetic,,,,,,,,,1,0,,40` + "\n" +
		`Broken row,QUIZ,Math,Misc,a,true,b,false,,,,,1,0,,` + "\n" +
		`Capital of France?,MCQ,GK,Geography,Paris,yes,London,no,,,,,1,0.33,,`

	res, err := Parse(strings.NewReader(file))
	require.NoError(t, err)

	assert.Len(t, res.Questions, 4)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 5, res.Errors[0].Row, "bad question_type row is reported by its sheet row number")
	assert.Contains(t, res.Errors[0].Message, "QUIZ")

	mcq := res.Questions[0].Question
	assert.Equal(t, model.QuestionTypeMCQ, mcq.QuestionType)
	require.Len(t, mcq.Options, 3)
	assert.True(t, mcq.Options[1].IsCorrect)
	assert.Equal(t, 2.0, mcq.Marks)
	assert.Equal(t, 0.66, mcq.NegativeMarks)

	msq := res.Questions[1].Question
	assert.Equal(t, model.QuestionTypeMSQ, msq.QuestionType)
	assert.Len(t, msq.CorrectOptionIDs(), 2)

	nat := res.Questions[2].Question
	assert.Equal(t, model.QuestionTypeNAT, nat.QuestionType)
	assert.Empty(t, nat.Options)
	assert.Equal(t, "40", nat.CorrectAnswer)
}

func TestParseNATFallbackToOptionOne(t *testing.T) {
	file := csvHeader + "\n" +
		`Speed of light in m/s (x10^8)?,NAT,Physics,Optics,3,,,,,,,,1,0,,`

	res, err := Parse(strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "3", res.Questions[0].Question.CorrectAnswer)
}

func TestParseRowLevelFailures(t *testing.T) {
	cases := []struct {
		name    string
		row     string
		wantMsg string
	}{
		{"missing text", `,MCQ,Math,Misc,a,true,b,false,,,,,1,0,,`, "question_text is required"},
		{"mcq no correct", `Q?,MCQ,Math,Misc,a,false,b,false,,,,,1,0,,`, "exactly one correct"},
		{"mcq one option", `Q?,MCQ,Math,Misc,a,true,,,,,,,1,0,,`, "exactly one correct"},
		{"nat non numeric", `Q?,NAT,Math,Misc,,,,,,,,,1,0,,forty`, "numeric"},
		{"bad marks", `Q?,MCQ,Math,Misc,a,true,b,false,,,,,zero,0,,`, "invalid marks"},
		{"negative negative_marks", `Q?,MCQ,Math,Misc,a,true,b,false,,,,,1,-1,,`, "invalid negative_marks"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(strings.NewReader(csvHeader + "\n" + tc.row))
			require.NoError(t, err)
			assert.Empty(t, res.Questions)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, 2, res.Errors[0].Row)
			assert.Contains(t, res.Errors[0].Message, tc.wantMsg)
		})
	}
}

func TestParseRejectsFileWithoutQuestionText(t *testing.T) {
	_, err := Parse(strings.NewReader("foo,bar\n1,2\n"))
	require.Error(t, err)
}

func TestParseDefaults(t *testing.T) {
	file := "question_text,question_type,option_1,option_1_correct,option_2,option_2_correct\n" +
		`Q?,MCQ,a,true,b,false`

	res, err := Parse(strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, res.Questions, 1)

	q := res.Questions[0].Question
	assert.Equal(t, "General", q.Subject)
	assert.Equal(t, "General", q.Topic)
	assert.Equal(t, "medium", q.Difficulty)
	assert.Equal(t, 1.0, q.Marks)
	assert.Equal(t, 0.33, q.NegativeMarks)
}
