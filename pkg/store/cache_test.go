package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethpandaops/panda-wheel/pkg/store"
	"github.com/ethpandaops/panda-wheel/pkg/store/mock"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCache(t *testing.T, repo store.Repository) *store.Cache {
	t.Helper()

	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	return store.NewCache(logrus.New(), repo, store.NewMetrics("test"))
}

func TestCache_LoadsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().Load(gomock.Any(), "guild").Return(&store.Wheel{
		GuildID:  "guild",
		Sections: wheel.Sections{{Name: "A", Percentage: 40, Color: "#FF0000"}},
	}, nil).Times(1)

	cache := newTestCache(t, repo)
	assert.Equal(t, 0, cache.Len())

	for i := 0; i < 3; i++ {
		sections, err := cache.Sections(ctx, "guild")
		require.NoError(t, err)
		require.Len(t, sections, 1)
	}

	assert.Equal(t, 1, cache.Len())
}

func TestCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, store.NewMemoryRepo(nil))

	_, err := cache.Update(ctx, "guild", func(wheel.Sections) (wheel.Sections, error) {
		return wheel.Sections{{Name: "A", Percentage: 40, Color: "#FF0000"}}, nil
	})
	require.NoError(t, err)

	sections, err := cache.Sections(ctx, "guild")
	require.NoError(t, err)

	sections[0].Name = "mutated"

	again, err := cache.Sections(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Name)
}

func TestCache_Update_PersistsBeforeSwap(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	ctx := context.Background()

	initial := wheel.Sections{{Name: "A", Percentage: 40, Color: "#FF0000"}}

	repo.EXPECT().Load(gomock.Any(), "guild").Return(&store.Wheel{GuildID: "guild", Sections: initial}, nil)
	repo.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	cache := newTestCache(t, repo)

	_, err := cache.Update(ctx, "guild", func(current wheel.Sections) (wheel.Sections, error) {
		return append(current, wheel.Section{Name: "B", Percentage: 10, Color: "#00FF00"}), nil
	})
	require.ErrorIs(t, err, wheel.ErrStorage)
	assert.Contains(t, err.Error(), "disk full")

	sections, err := cache.Sections(ctx, "guild")
	require.NoError(t, err)
	assert.Equal(t, initial, sections)
}

func TestCache_Update_PersistsWheel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().Load(gomock.Any(), "guild").Return(&store.Wheel{GuildID: "guild", Sections: wheel.Sections{}}, nil)
	repo.EXPECT().Persist(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *store.Wheel) error {
		assert.Equal(t, "guild", w.GuildID)
		assert.Equal(t, wheel.Sections{{Name: "A", Percentage: 40, Color: "#FF0000"}}, w.Sections)
		assert.False(t, w.UpdatedAt.IsZero())

		return nil
	})

	cache := newTestCache(t, repo)

	sections, err := cache.Update(ctx, "guild", func(current wheel.Sections) (wheel.Sections, error) {
		return append(current, wheel.Section{Name: "A", Percentage: 40, Color: "#FF0000"}), nil
	})
	require.NoError(t, err)
	assert.Len(t, sections, 1)
}

func TestCache_Update_FnErrorSkipsPersist(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().Load(gomock.Any(), "guild").Return(&store.Wheel{GuildID: "guild", Sections: wheel.Sections{}}, nil)
	repo.EXPECT().Persist(gomock.Any(), gomock.Any()).Times(0)

	cache := newTestCache(t, repo)

	rejected := &wheel.SectionNotFoundError{Name: "A"}

	_, err := cache.Update(ctx, "guild", func(wheel.Sections) (wheel.Sections, error) {
		return nil, rejected
	})
	require.ErrorIs(t, err, rejected)
	assert.NotErrorIs(t, err, wheel.ErrStorage)
}

func TestCache_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().Load(gomock.Any(), "guild").Return(nil, errors.New("connection refused")),
		repo.EXPECT().Load(gomock.Any(), "guild").Return(&store.Wheel{GuildID: "guild", Sections: wheel.Sections{}}, nil),
	)

	cache := newTestCache(t, repo)

	_, err := cache.Sections(ctx, "guild")
	require.ErrorIs(t, err, wheel.ErrStorage)
	assert.Equal(t, 0, cache.Len())

	// A failed load is retried on the next lookup.
	sections, err := cache.Sections(ctx, "guild")
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_GuildIsolation(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t, store.NewMemoryRepo(nil))

	_, err := cache.Update(ctx, "guild-a", func(wheel.Sections) (wheel.Sections, error) {
		return wheel.Sections{{Name: "A", Percentage: 40, Color: "#FF0000"}}, nil
	})
	require.NoError(t, err)

	sections, err := cache.Sections(ctx, "guild-b")
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_ConcurrentUpdatesAreSerialised(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepo(nil)
	cache := newTestCache(t, repo)

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := cache.Update(ctx, "guild", func(current wheel.Sections) (wheel.Sections, error) {
				return append(current, wheel.Section{Name: "x", Percentage: 1, Color: "#000000"}), nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	sections, err := cache.Sections(ctx, "guild")
	require.NoError(t, err)
	assert.Len(t, sections, 50)

	stored, err := repo.Load(ctx, "guild")
	require.NoError(t, err)
	assert.Len(t, stored.Sections, 50)
}

func TestCache_WithEngine(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepo(nil)
	engine := wheel.NewEngine(logrus.New(), newTestCache(t, repo))

	_, err := engine.AddSection(ctx, "guild", "Pizza", 60, "red")
	require.NoError(t, err)

	_, err = engine.AddSection(ctx, "guild", "pizza", 10, "blue")

	var dup *wheel.DuplicateNameError
	require.ErrorAs(t, err, &dup)

	stored, err := repo.Load(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, stored.Sections, 1)
	assert.Equal(t, "#FF0000", stored.Sections[0].Color)
}
