package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/domain"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/port"
	"github.com/zzzuuusurp/faux-cart-copy/internal/core/service"
)

const testShopID = "Bioshield"

// memStorage mimics the persisted key-value record per shop id.
type memStorage struct {
	records map[string]domain.Cart
	saves   int
}

func newMemStorage() *memStorage {
	return &memStorage{records: make(map[string]domain.Cart)}
}

func (s *memStorage) LoadCart(
	ctx context.Context, shopID string,
) (domain.Cart, error) {
	c, ok := s.records[shopID]
	if !ok {
		return domain.Cart{}, port.ErrCartNotFound
	}
	return c.Clone(), nil
}

func (s *memStorage) SaveCart(
	ctx context.Context, shopID string, c domain.Cart,
) error {
	s.saves++
	s.records[shopID] = c.Clone()
	return nil
}

type failStorage struct {
	*memStorage
	failSave bool
}

func (s *failStorage) SaveCart(
	ctx context.Context, shopID string, c domain.Cart,
) error {
	if s.failSave {
		return errors.New("disk full")
	}
	return s.memStorage.SaveCart(ctx, shopID, c)
}

type MockEventsProducer struct {
	mock.Mock
}

func (p *MockEventsProducer) ProduceEvent(
	ctx context.Context, evt domain.CartEvent,
) error {
	args := p.Called(ctx, evt)
	return args.Error(0)
}

func widget() domain.Candidate {
	return domain.Candidate{
		Name:   "Widget",
		Desc:   "d",
		Price:  9.99,
		ImgSrc: "x.png",
	}
}

func newReadyService(
	t *testing.T, st port.CartStorage,
) *service.CartService {
	t.Helper()
	s := service.New(testShopID, st, nil)
	require.NoError(t, s.Init(t.Context()))
	return s
}

func TestInit(t *testing.T) {
	t.Run("CreatesEmptyRecordOnFirstAccess", func(t *testing.T) {
		st := newMemStorage()
		newReadyService(t, st)

		persisted, ok := st.records[testShopID]
		require.True(t, ok)
		assert.Empty(t, persisted.Items)
	})

	t.Run("LoadsExistingRecord", func(t *testing.T) {
		st := newMemStorage()
		first := newReadyService(t, st)
		_, err := first.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		second := newReadyService(t, st)
		items := second.Items(t.Context())
		require.Len(t, items, 1)
		assert.Equal(t, "Widget", items[0].Name)
	})

	t.Run("Idempotent", func(t *testing.T) {
		st := newMemStorage()
		s := newReadyService(t, st)
		saves := st.saves

		require.NoError(t, s.Init(t.Context()))
		assert.Equal(t, saves, st.saves)
	})

	t.Run("PropagatesStorageFailure", func(t *testing.T) {
		st := &failStorage{memStorage: newMemStorage(), failSave: true}
		s := service.New(testShopID, st, nil)
		require.Error(t, s.Init(t.Context()))
	})
}

func TestAddOrMerge(t *testing.T) {
	t.Run("FirstAdd", func(t *testing.T) {
		s := newReadyService(t, newMemStorage())

		items, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Qty)

		tt := s.Totals(t.Context())
		assert.InDelta(t, 9.99, tt.Total, 1e-9)
		assert.Equal(t, 1, tt.ItemCount)
	})

	t.Run("MergeInvariant", func(t *testing.T) {
		s := newReadyService(t, newMemStorage())

		for range 4 {
			_, err := s.AddOrMerge(t.Context(), widget())
			require.NoError(t, err)
		}

		items := s.Items(t.Context())
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Qty)
		assert.InDelta(t, 9.99, items[0].Price, 1e-9)
	})

	t.Run("RejectsInvalidCandidateWithoutMutation", func(t *testing.T) {
		st := newMemStorage()
		s := newReadyService(t, st)
		saves := st.saves

		bad := widget()
		bad.Name = ""
		_, err := s.AddOrMerge(t.Context(), bad)
		require.ErrorIs(t, err, domain.ErrValidation)

		assert.Empty(t, s.Items(t.Context()))
		assert.Equal(t, saves, st.saves)
	})

	t.Run("PersistsSynchronously", func(t *testing.T) {
		st := newMemStorage()
		s := newReadyService(t, st)

		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		assert.Equal(t, s.Items(t.Context()), st.records[testShopID].Items)
	})
}

func TestQuantityOps(t *testing.T) {
	t.Run("IncreaseAndDecrease", func(t *testing.T) {
		s := newReadyService(t, newMemStorage())
		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		items, err := s.Increase(t.Context(), 0)
		require.NoError(t, err)
		assert.Equal(t, 2, items[0].Qty)

		items, err = s.Decrease(t.Context(), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, items[0].Qty)
	})

	t.Run("DecreaseAtOneRemovesLine", func(t *testing.T) {
		st := newMemStorage()
		s := newReadyService(t, st)
		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		items, err := s.Decrease(t.Context(), 0)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, domain.Totals{}, s.Totals(t.Context()))
		assert.Empty(t, st.records[testShopID].Items)
	})

	t.Run("IndexSafety", func(t *testing.T) {
		st := newMemStorage()
		s := newReadyService(t, st)
		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)
		before := s.Items(t.Context())
		saves := st.saves

		for _, i := range []int{-1, 1, 99} {
			_, err := s.Increase(t.Context(), i)
			assert.ErrorIs(t, err, domain.ErrIndexRange)
			_, err = s.Decrease(t.Context(), i)
			assert.ErrorIs(t, err, domain.ErrIndexRange)
			_, err = s.Remove(t.Context(), i)
			assert.ErrorIs(t, err, domain.ErrIndexRange)
		}

		assert.Equal(t, before, s.Items(t.Context()))
		assert.Equal(t, saves, st.saves)
	})
}

func TestRemove(t *testing.T) {
	t.Run("ByIndex", func(t *testing.T) {
		s := newReadyService(t, newMemStorage())
		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		items, err := s.Remove(t.Context(), 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ByName", func(t *testing.T) {
		s := newReadyService(t, newMemStorage())
		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		items, err := s.RemoveByName(t.Context(), "Widget")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ByUnknownName", func(t *testing.T) {
		s := newReadyService(t, newMemStorage())
		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)

		_, err = s.RemoveByName(t.Context(), "Gadget")
		require.ErrorIs(t, err, domain.ErrUnknownName)
		assert.Len(t, s.Items(t.Context()), 1)
	})
}

func TestClear(t *testing.T) {
	st := newMemStorage()
	s := newReadyService(t, st)
	_, err := s.AddOrMerge(t.Context(), widget())
	require.NoError(t, err)

	items, err := s.Clear(t.Context())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, domain.Totals{}, s.Totals(t.Context()))
	assert.Empty(t, st.records[testShopID].Items)
}

func TestTotalsScenario(t *testing.T) {
	s := newReadyService(t, newMemStorage())

	five := domain.Candidate{Name: "A", Desc: "d", Price: 5, ImgSrc: "a.png"}
	three := domain.Candidate{Name: "B", Desc: "d", Price: 3, ImgSrc: "b.png"}

	_, err := s.AddOrMerge(t.Context(), five)
	require.NoError(t, err)
	_, err = s.AddOrMerge(t.Context(), five)
	require.NoError(t, err)
	_, err = s.AddOrMerge(t.Context(), three)
	require.NoError(t, err)

	tt := s.Totals(t.Context())
	assert.InDelta(t, 13.0, tt.Total, 1e-9)
	assert.Equal(t, 3, tt.ItemCount)
}

func TestPersistenceRoundTrip(t *testing.T) {
	st := newMemStorage()
	s := newReadyService(t, st)

	mutations := []func() error{
		func() error { _, err := s.AddOrMerge(t.Context(), widget()); return err },
		func() error { _, err := s.AddOrMerge(t.Context(), widget()); return err },
		func() error { _, err := s.Increase(t.Context(), 0); return err },
		func() error { _, err := s.Decrease(t.Context(), 0); return err },
		func() error { _, err := s.Clear(t.Context()); return err },
	}

	for _, mutation := range mutations {
		require.NoError(t, mutation())

		reloaded := newReadyService(t, st)
		assert.Equal(t, s.Items(t.Context()), reloaded.Items(t.Context()))
		assert.Equal(t, s.Totals(t.Context()), reloaded.Totals(t.Context()))
	}
}

func TestSaveFailureLeavesMemoryUntouched(t *testing.T) {
	st := &failStorage{memStorage: newMemStorage()}
	s := newReadyService(t, st)
	_, err := s.AddOrMerge(t.Context(), widget())
	require.NoError(t, err)

	st.failSave = true
	_, err = s.AddOrMerge(t.Context(), widget())
	require.Error(t, err)

	items := s.Items(t.Context())
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)
	assert.Equal(t, items, st.records[testShopID].Items)
}

func TestActivityTrail(t *testing.T) {
	t.Run("EmitsAfterMutation", func(t *testing.T) {
		events := new(MockEventsProducer)
		s := service.New(testShopID, newMemStorage(), events)
		require.NoError(t, s.Init(t.Context()))

		events.On("ProduceEvent", t.Context(), domain.CartEvent{
			ShopID:      testShopID,
			Op:          domain.CartOpAdd,
			ProductName: "Widget",
			Totals:      domain.Totals{Total: 9.99, ItemCount: 1},
		}).Return(nil).Once()

		_, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("ProducerFailureDoesNotFailMutation", func(t *testing.T) {
		events := new(MockEventsProducer)
		events.On("ProduceEvent", mock.Anything, mock.Anything).
			Return(errors.New("broker down"))

		s := service.New(testShopID, newMemStorage(), events)
		require.NoError(t, s.Init(t.Context()))

		items, err := s.AddOrMerge(t.Context(), widget())
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("NoEventOnRejectedOperation", func(t *testing.T) {
		events := new(MockEventsProducer)
		s := service.New(testShopID, newMemStorage(), events)
		require.NoError(t, s.Init(t.Context()))

		_, err := s.Increase(t.Context(), 7)
		require.ErrorIs(t, err, domain.ErrIndexRange)
		events.AssertNotCalled(t, "ProduceEvent", mock.Anything, mock.Anything)
	})
}
