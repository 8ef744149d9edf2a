package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatesim/gatesim-backend/internal/model"
)

func poolOf(texts ...string) []model.Question {
	pool := make([]model.Question, len(texts))
	for i, t := range texts {
		pool[i] = model.Question{ID: uuid.New(), QuestionText: t}
	}
	return pool
}

func TestSamplePoolDeduplicatesByNormalizedText(t *testing.T) {
	pool := poolOf(
		"What is a deadlock?",
		"what   is a DEADLOCK?", // duplicate after normalization
		"Define throughput.",
	)

	selected, err := samplePool(pool, 2, false)
	require.NoError(t, err)
	require.Len(t, selected, 2)

	// First occurrence wins, store order preserved.
	assert.Equal(t, pool[0].ID, selected[0])
	assert.Equal(t, pool[2].ID, selected[1])
}

func TestSamplePoolInsufficientAfterDedup(t *testing.T) {
	pool := poolOf("Q one", "q  ONE", "Q two")

	_, err := samplePool(pool, 3, false)
	assert.ErrorIs(t, err, ErrInsufficientQuestions)
}

func TestSamplePoolExactCount(t *testing.T) {
	pool := poolOf("a", "b", "c")

	selected, err := samplePool(pool, 3, false)
	require.NoError(t, err)
	assert.Len(t, selected, 3)
}

func TestSamplePoolRandomizedIsPermutationOfPool(t *testing.T) {
	var texts []string
	for i := 0; i < 20; i++ {
		texts = append(texts, fmt.Sprintf("question %d", i))
	}
	pool := poolOf(texts...)

	ids := make(map[uuid.UUID]struct{}, len(pool))
	for i := range pool {
		ids[pool[i].ID] = struct{}{}
	}

	selected, err := samplePool(pool, 10, true)
	require.NoError(t, err)
	require.Len(t, selected, 10)

	seen := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		_, fromPool := ids[id]
		assert.True(t, fromPool)
		_, dup := seen[id]
		assert.False(t, dup, "no id may repeat")
		seen[id] = struct{}{}
	}
}
