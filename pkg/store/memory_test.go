package store

import (
	"context"
	"testing"

	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo(t *testing.T) {
	testRepository(t, NewMemoryRepo(nil))
}

func TestMemoryRepo_CopiesSections(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(nil)

	sections := wheel.Sections{{Name: "A", Percentage: 10, Color: "#000000"}}
	require.NoError(t, repo.Persist(ctx, &Wheel{GuildID: "guild", Sections: sections}))

	sections[0].Name = "mutated"

	w, err := repo.Load(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, "A", w.Sections[0].Name)

	w.Sections[0].Name = "mutated again"

	again, err := repo.Load(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Sections[0].Name)
}
