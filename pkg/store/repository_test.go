package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepository(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()

	t.Run("memory", func(t *testing.T) {
		setupTest(t)

		repo, err := NewRepository(ctx, log, &Config{Backend: BackendMemory}, NewMetrics("test"))
		require.NoError(t, err)
		assert.IsType(t, &MemoryRepo{}, repo)
	})

	t.Run("sqlite", func(t *testing.T) {
		setupTest(t)

		repo, err := NewRepository(ctx, log, &Config{
			Backend: BackendSQLite,
			DBPath:  filepath.Join(t.TempDir(), "wheels.db"),
		}, NewMetrics("test"))
		require.NoError(t, err)
		defer repo.Close()

		assert.IsType(t, &SQLiteRepo{}, repo)
	})

	t.Run("s3 without config", func(t *testing.T) {
		_, err := NewRepository(ctx, log, &Config{Backend: BackendS3}, nil)
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewRepository(ctx, log, &Config{Backend: "postgres"}, nil)

		var unknown *UnknownBackendError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "postgres", unknown.Backend)
	})
}

// testRepository exercises the behaviour every Repository must share.
func testRepository(t *testing.T, repo Repository) {
	t.Helper()

	ctx := context.Background()

	t.Run("Load_Absent", func(t *testing.T) {
		w, err := repo.Load(ctx, "absent-guild")
		require.NoError(t, err)
		assert.Equal(t, "absent-guild", w.GuildID)
		assert.NotNil(t, w.Sections)
		assert.Empty(t, w.Sections)
	})

	t.Run("Persist_And_Load", func(t *testing.T) {
		sections := wheel.Sections{
			{Name: "Pizza", Percentage: 12.5, Color: "#FFA500"},
			{Name: "Tacos", Percentage: 87.5, Color: "#800080"},
		}

		require.NoError(t, repo.Persist(ctx, &Wheel{GuildID: "guild-1", Sections: sections}))

		w, err := repo.Load(ctx, "guild-1")
		require.NoError(t, err)
		assert.Equal(t, sections, w.Sections)
		assert.False(t, w.UpdatedAt.IsZero())
	})

	t.Run("Persist_Replaces", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, &Wheel{
			GuildID:  "guild-2",
			Sections: wheel.Sections{{Name: "A", Percentage: 50, Color: "#FF0000"}},
		}))
		require.NoError(t, repo.Persist(ctx, &Wheel{
			GuildID:  "guild-2",
			Sections: wheel.Sections{{Name: "B", Percentage: 25, Color: "#00FF00"}},
		}))

		w, err := repo.Load(ctx, "guild-2")
		require.NoError(t, err)
		require.Len(t, w.Sections, 1)
		assert.Equal(t, "B", w.Sections[0].Name)
	})

	t.Run("Persist_Empty", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, &Wheel{GuildID: "guild-3"}))

		w, err := repo.Load(ctx, "guild-3")
		require.NoError(t, err)
		assert.NotNil(t, w.Sections)
		assert.Empty(t, w.Sections)
	})

	t.Run("Guild_Isolation", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, &Wheel{
			GuildID:  "guild-4",
			Sections: wheel.Sections{{Name: "Only here", Percentage: 10, Color: "#000000"}},
		}))

		w, err := repo.Load(ctx, "guild-5")
		require.NoError(t, err)
		assert.Empty(t, w.Sections)
	})

	t.Run("Purge", func(t *testing.T) {
		require.NoError(t, repo.Persist(ctx, &Wheel{
			GuildID:  "guild-6",
			Sections: wheel.Sections{{Name: "A", Percentage: 10, Color: "#000000"}},
		}))
		require.NoError(t, repo.Purge(ctx, "guild-6"))

		w, err := repo.Load(ctx, "guild-6")
		require.NoError(t, err)
		assert.Empty(t, w.Sections)
	})

	t.Run("Missing_GuildID", func(t *testing.T) {
		_, err := repo.Load(ctx, "")
		require.ErrorIs(t, err, ErrMissingGuildID)
		require.ErrorIs(t, repo.Persist(ctx, &Wheel{}), ErrMissingGuildID)
		require.ErrorIs(t, repo.Purge(ctx, ""), ErrMissingGuildID)
	})

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, repo.Ping(ctx))
	})
}
