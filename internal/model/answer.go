package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AnswerKind discriminates the Answer variant.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerSingle
	AnswerMultiple
	AnswerNumeric
)

// Answer is the typed form of a submitted answer. Clients may send a
// scalar or an array depending on the question type; DecodeAnswer
// resolves the raw JSON into exactly one variant at scoring time.
type Answer struct {
	Kind AnswerKind
	// Single holds the selected option id for MCQ.
	Single string
	// Multiple holds the selected option id set for MSQ.
	Multiple map[string]struct{}
	// Numeric holds the parsed value for NAT.
	Numeric float64
	// Valid is false when the raw value could not be interpreted for the
	// question's type (e.g. non-numeric NAT input). Invalid answers are
	// attempted but never correct.
	Valid bool
}

// DecodeAnswer interprets a raw stored answer against the question type.
// A nil/empty/null raw means no answer (Kind AnswerNone).
func DecodeAnswer(raw json.RawMessage, qt QuestionType) Answer {
	if len(raw) == 0 || string(raw) == "null" {
		return Answer{Kind: AnswerNone}
	}

	switch qt {
	case QuestionTypeMCQ:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return Answer{Kind: AnswerSingle, Valid: false}
		}
		return Answer{Kind: AnswerSingle, Single: s, Valid: true}

	case QuestionTypeMSQ:
		set := make(map[string]struct{})
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, id := range list {
				set[id] = struct{}{}
			}
			return Answer{Kind: AnswerMultiple, Multiple: set, Valid: len(set) > 0}
		}
		// A lone scalar counts as a single-element selection.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			set[s] = struct{}{}
			return Answer{Kind: AnswerMultiple, Multiple: set, Valid: true}
		}
		return Answer{Kind: AnswerMultiple, Valid: false}

	case QuestionTypeNAT:
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return Answer{Kind: AnswerNumeric, Numeric: f, Valid: true}
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
				return Answer{Kind: AnswerNumeric, Numeric: v, Valid: true}
			}
		}
		return Answer{Kind: AnswerNumeric, Valid: false}
	}

	return Answer{Kind: AnswerNone}
}
