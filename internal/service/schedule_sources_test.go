package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

func TestMaterializeReconcilesOccurrences(t *testing.T) {
	f := newFixture()
	other := python101()
	other.ID = "c-other"
	other.Name = "Scratch Kids"
	f.classes.classes = append(f.classes.classes, other)
	sources := f.sources()

	tuesday, err := sources.materialize(context.Background(), "B", day("2024-06-04"))
	require.NoError(t, err)
	require.Len(t, tuesday.materialized, 2)
	assert.True(t, tuesday.materialized[0].HasLiveOccurrence)
	assert.False(t, tuesday.materialized[1].HasLiveOccurrence, "no occurrence row means the class does not run")
	live := tuesday.live()
	require.Len(t, live, 1)
	assert.Equal(t, "c-python", live[0].ID)
	assert.Len(t, tuesday.byID(), 2)

	cancelled, err := sources.materialize(context.Background(), "B", day("2024-06-11"))
	require.NoError(t, err)
	require.Len(t, cancelled.materialized, 2)
	assert.Empty(t, cancelled.live())
}

func TestMaterializeSkipsOccurrenceQueryOffPattern(t *testing.T) {
	f := newFixture()
	f.occurrences.err = errDown

	wednesday, err := f.sources().materialize(context.Background(), "B", day("2024-06-05"))
	require.NoError(t, err)
	assert.Empty(t, wednesday.materialized)
	assert.Equal(t, []models.RecurringClass{python101()}, wednesday.all)
}
