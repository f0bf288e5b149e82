package xref_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	mock_backend "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend/mocks"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/xref"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches only missing clients once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		getter := mock_backend.NewMockBatchGetter(ctrl)
		clients := cache.NewStore[*entity.Client](entity.KindClient, zap.NewNop())
		clients.Upsert(&entity.Client{ID: "c1", Name: "Ann"}, false)

		getter.EXPECT().FetchByIDs(gomock.Any(), entity.KindClient, []string{"c2", "c3"}).
			Return([]mapper.Row{{"id": "c2", "name": "Bob"}}, nil)

		r := xref.New(getter, clients, nil, nil, zap.NewNop())
		err := r.Resolve(ctx,
			&entity.Order{ID: "o1", ClientID: "c1"},
			&entity.Order{ID: "o2", ClientID: "c2"},
			&entity.Order{ID: "o3", ClientID: "c2"},
			&entity.Order{ID: "o4", ClientID: "c3"},
			&entity.Order{ID: "o5"},
		)
		require.NoError(t, err)

		got, found := clients.Get("c2")
		require.True(t, found)
		assert.Equal(t, "Bob", got.Name)
		assert.Empty(t, clients.WindowIDs())
	})

	t.Run("nothing missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		getter := mock_backend.NewMockBatchGetter(ctrl)
		clients := cache.NewStore[*entity.Client](entity.KindClient, zap.NewNop())
		clients.Upsert(&entity.Client{ID: "c1"}, false)

		r := xref.New(getter, clients, nil, nil, zap.NewNop())
		require.NoError(t, r.ResolveOne(ctx, &entity.Order{ID: "o1", ClientID: "c1"}))
	})

	t.Run("one kind failing does not stop the others", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		getter := mock_backend.NewMockBatchGetter(ctrl)
		clients := cache.NewStore[*entity.Client](entity.KindClient, zap.NewNop())
		stores := cache.NewStore[*entity.Store](entity.KindStore, zap.NewNop())

		getter.EXPECT().FetchByIDs(gomock.Any(), entity.KindClient, []string{"c1"}).Return(nil, errors.New("timeout"))
		getter.EXPECT().FetchByIDs(gomock.Any(), entity.KindStore, []string{"s1"}).
			Return([]mapper.Row{{"id": "s1", "name": "Amazon"}}, nil)

		r := xref.New(getter, clients, stores, nil, zap.NewNop())
		err := r.Resolve(ctx, &entity.Order{ID: "o1", ClientID: "c1", StoreID: "s1"})
		require.Error(t, err)
		assert.True(t, backend.IsTransient(err))

		_, found := stores.Get("s1")
		assert.True(t, found)
	})
}
