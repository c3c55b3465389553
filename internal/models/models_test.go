package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{
		"alta":    PriorityHigh,
		"High":    PriorityHigh,
		" media ": PriorityMedium,
		"low":     PriorityLow,
		"1":       PriorityLow,
	} {
		got, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}

func TestFilterNextCycles(t *testing.T) {
	assert.Equal(t, FilterPending, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterPending.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("done")
	require.NoError(t, err)
	assert.Equal(t, FilterCompleted, f)

	_, err = ParseFilter("someday")
	assert.Error(t, err)
}

func TestNextColorWraps(t *testing.T) {
	assert.Equal(t, Color("green"), NextColor("blue"))
	assert.Equal(t, Colors[0], NextColor(Colors[len(Colors)-1]))
	assert.Equal(t, Colors[0], NextColor("teal"))
}

func TestTaskJSONUsesStoredFieldNames(t *testing.T) {
	raw := `{"id":3,"titulo":"Comprar pão","descricao":"","dataVencimento":"2024-05-01",
		"prioridade":"alta","cor":"yellow","projetoId":1,"concluida":true,"dataCriacao":"30/04/2024, 10:11:12"}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, Task{
		ID:        3,
		Title:     "Comprar pão",
		DueDate:   "2024-05-01",
		Priority:  PriorityHigh,
		Color:     "yellow",
		ProjectID: 1,
		Done:      true,
		CreatedAt: "30/04/2024, 10:11:12",
	}, task)
}

func TestTaskPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Done: Ptr(false)}.Empty())
}
