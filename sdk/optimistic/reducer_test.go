package optimistic

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/dangerclosesec/liaison/sdk/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requests() []client.ClientRequest {
	return []client.ClientRequest{
		{ID: "CR1", ProductID: "P1", ImportanceType: "HIGH", Counter: 1},
		{ID: "CR2", ProductID: "P2", ImportanceType: "LOW", IsFavorite: true},
	}
}

func TestReduceLength(t *testing.T) {
	state := requests()

	tests := []struct {
		name   string
		action Action[client.ClientRequest]
		want   int
	}{
		{"create", Action[client.ClientRequest]{Type: ActionCreate, Payload: client.ClientRequest{ID: "CR3"}}, len(state) + 1},
		{"update", Action[client.ClientRequest]{Type: ActionUpdate, Payload: client.ClientRequest{ID: "CR1", Counter: 9}}, len(state)},
		{"delete", Action[client.ClientRequest]{Type: ActionDelete, Payload: client.ClientRequest{ID: "CR2"}}, len(state)},
		{"unknown", Action[client.ClientRequest]{Type: "archive", Payload: client.ClientRequest{ID: "CR2"}}, len(state)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Reduce(state, tt.action, nil)

			require.NoError(t, err)
			assert.Len(t, next, tt.want)
			assert.Equal(t, requests(), state, "input list must not change")
		})
	}
}

func TestReduceCreateOnEmptyState(t *testing.T) {
	next, err := Reduce[client.ClientRequest](nil, Action[client.ClientRequest]{Type: ActionCreate, Payload: client.ClientRequest{ID: "CR1"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, []client.ClientRequest{{ID: "CR1"}}, next)
}

func TestReduceUpdateIsIdempotent(t *testing.T) {
	action := Action[client.ClientRequest]{Type: ActionUpdate, Payload: client.ClientRequest{ID: "CR2", ProductID: "P9", Counter: 4}}

	once, err := Reduce(requests(), action, nil)
	require.NoError(t, err)
	twice, err := Reduce(once, action, nil)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "P9", once[1].ProductID)
	assert.Equal(t, 4, once[1].Counter)
	assert.True(t, once[1].IsFavorite, "fields absent from the payload are kept")
	assert.Equal(t, "LOW", once[1].ImportanceType)
}

func TestReduceUpdateAppliesZeroValues(t *testing.T) {
	state := []client.ClientRequest{{ID: "CR1", ProductID: "P1", Email: "buyer@example.com", IsArchived: true, IsFavorite: true, Counter: 5}}

	t.Run("listed fields are reset", func(t *testing.T) {
		next, err := Reduce(state, UpdateAction(client.ClientRequest{ID: "CR1"}, "isArchived", "isFavorite", "counter"), nil)

		require.NoError(t, err)
		assert.Equal(t, client.ClientRequest{ID: "CR1", ProductID: "P1", Email: "buyer@example.com"}, next[0])
		assert.True(t, state[0].IsArchived, "input list must not change")
	})

	t.Run("unlisted zero values are ignored", func(t *testing.T) {
		next, err := Reduce(state, Action[client.ClientRequest]{Type: ActionUpdate, Payload: client.ClientRequest{ID: "CR1", ProductID: "P2"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, "P2", next[0].ProductID)
		assert.True(t, next[0].IsArchived)
		assert.Equal(t, 5, next[0].Counter)
	})

	t.Run("listed field present in the payload wins", func(t *testing.T) {
		next, err := Reduce(state, UpdateAction(client.ClientRequest{ID: "CR1", Counter: 2}, "counter", "isFavorite"), nil)

		require.NoError(t, err)
		assert.Equal(t, 2, next[0].Counter)
		assert.False(t, next[0].IsFavorite)
		assert.True(t, next[0].IsArchived)
	})
}

func TestReduceDeleteMarksSentinel(t *testing.T) {
	next, err := Reduce(requests(), Action[client.ClientRequest]{Type: ActionDelete, Payload: client.ClientRequest{ID: "CR1"}}, nil)

	require.NoError(t, err)
	want := requests()[0]
	want.ID = DeletedID
	assert.Equal(t, want, next[0])
	assert.Equal(t, requests()[1], next[1])
}

func TestReduceResolvesLiaisonRequest(t *testing.T) {
	companies := []client.Company{{ID: "S1", Name: "Acme Print", CompanyType: "SUPPLIER"}}
	decorate := DecorateLiaisonRequest(requests(), companies)

	t.Run("resolved", func(t *testing.T) {
		next, err := Reduce(nil, Action[client.LiaisonRequest]{Type: ActionCreate, Payload: client.LiaisonRequest{
			ID:                         "LR1",
			OriginatingClientRequestID: "CR1",
			ForwardedToSupplierID:      "S1",
		}}, decorate)

		require.NoError(t, err)
		require.Len(t, next, 1)
		require.NotNil(t, next[0].ClientRequest)
		assert.Equal(t, requests()[0], *next[0].ClientRequest)
		require.NotNil(t, next[0].Company)
		assert.Equal(t, "Acme Print", next[0].Company.Name)
	})

	t.Run("missing reference", func(t *testing.T) {
		state := []client.LiaisonRequest{{ID: "LR0"}}

		next, err := Reduce(state, Action[client.LiaisonRequest]{Type: ActionCreate, Payload: client.LiaisonRequest{
			ID:                         "LR1",
			OriginatingClientRequestID: "CR404",
		}}, decorate)

		var resErr *ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.Equal(t, "originatingClientRequestId", resErr.Field)
		assert.Equal(t, "CR404", resErr.ID)
		assert.Equal(t, state, next)
	})
}

func TestStoreDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("success refreshes from the server", func(t *testing.T) {
		server := requests()
		var seen []client.ClientRequest

		store := NewStore[client.ClientRequest](StoreConfig[client.ClientRequest]{
			Fetch: func(context.Context) ([]client.ClientRequest, error) { return server, nil },
			Mutate: func(_ context.Context, a Action[client.ClientRequest]) error {
				server = append(server, client.ClientRequest{ID: "CR3", ProductID: a.Payload.ProductID})
				return nil
			},
		})
		require.NoError(t, store.Refresh(ctx))

		watched := &sendWatcher{store: store, seen: &seen}
		err := watched.dispatch(ctx, Action[client.ClientRequest]{Type: ActionCreate, Payload: client.ClientRequest{ID: "tmp", ProductID: "P3"}})

		require.NoError(t, err)
		assert.Equal(t, "tmp", seen[2].ID, "optimistic row is visible before the server answers")
		items := store.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "CR3", items[2].ID)
	})

	t.Run("failure rolls back", func(t *testing.T) {
		rejected := errors.New("user does not own the client request")
		store := NewStore[client.ClientRequest](StoreConfig[client.ClientRequest]{
			Fetch:  func(context.Context) ([]client.ClientRequest, error) { return requests(), nil },
			Mutate: func(context.Context, Action[client.ClientRequest]) error { return rejected },
		})
		require.NoError(t, store.Refresh(ctx))

		action := Action[client.ClientRequest]{Type: ActionDelete, Payload: client.ClientRequest{ID: "CR1"}}
		err := store.Dispatch(ctx, action)

		var mutErr *MutationError[client.ClientRequest]
		require.True(t, errors.As(err, &mutErr))
		assert.ErrorIs(t, err, rejected)
		assert.Equal(t, action, mutErr.Action)
		assert.Equal(t, requests(), store.Items())
	})

	t.Run("failure takes back only its own action", func(t *testing.T) {
		var mu sync.Mutex
		server := requests()
		started := make(chan struct{})
		release := make(chan struct{})
		rejected := errors.New("user does not own the client request")

		store := NewStore[client.ClientRequest](StoreConfig[client.ClientRequest]{
			Fetch: func(context.Context) ([]client.ClientRequest, error) {
				mu.Lock()
				defer mu.Unlock()
				return slices.Clone(server), nil
			},
			Mutate: func(_ context.Context, a Action[client.ClientRequest]) error {
				if a.Payload.ID == "CR1" {
					close(started)
					<-release
					return rejected
				}
				mu.Lock()
				defer mu.Unlock()
				server[1].ProductID = a.Payload.ProductID
				return nil
			},
		})
		require.NoError(t, store.Refresh(ctx))

		failed := make(chan error, 1)
		go func() {
			failed <- store.Dispatch(ctx, UpdateAction(client.ClientRequest{ID: "CR1", Counter: 7}))
		}()
		<-started

		require.NoError(t, store.Dispatch(ctx, UpdateAction(client.ClientRequest{ID: "CR2", ProductID: "P9"})))
		items := store.Items()
		assert.Equal(t, 7, items[0].Counter, "in-flight update survives the refresh")
		assert.Equal(t, "P9", items[1].ProductID)

		close(release)
		var mutErr *MutationError[client.ClientRequest]
		require.ErrorAs(t, <-failed, &mutErr)
		assert.ErrorIs(t, mutErr, rejected)

		items = store.Items()
		require.Len(t, items, 2)
		assert.Equal(t, requests()[0], items[0])
		assert.Equal(t, "P9", items[1].ProductID)
	})

	t.Run("failed create is removed while earlier creates stay", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})

		store := NewStore[client.ClientRequest](StoreConfig[client.ClientRequest]{
			Fetch: func(context.Context) ([]client.ClientRequest, error) { return requests(), nil },
			Mutate: func(_ context.Context, a Action[client.ClientRequest]) error {
				if a.Payload.ID == "tmp1" {
					close(started)
					<-release
					return nil
				}
				return errors.New("validation failed")
			},
		})
		require.NoError(t, store.Refresh(ctx))

		done := make(chan error, 1)
		go func() {
			done <- store.Dispatch(ctx, Action[client.ClientRequest]{Type: ActionCreate, Payload: client.ClientRequest{ID: "tmp1"}})
		}()
		<-started

		err := store.Dispatch(ctx, Action[client.ClientRequest]{Type: ActionCreate, Payload: client.ClientRequest{ID: "tmp2"}})
		require.Error(t, err)

		items := store.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "tmp1", items[2].ID)

		close(release)
		require.NoError(t, <-done)
	})

	t.Run("unresolved reference never reaches the server", func(t *testing.T) {
		called := false
		store := NewStore[client.LiaisonRequest](StoreConfig[client.LiaisonRequest]{
			Fetch:    func(context.Context) ([]client.LiaisonRequest, error) { return nil, nil },
			Mutate:   func(context.Context, Action[client.LiaisonRequest]) error { called = true; return nil },
			Decorate: DecorateLiaisonRequest(nil, nil),
		})

		err := store.Dispatch(ctx, Action[client.LiaisonRequest]{Type: ActionCreate, Payload: client.LiaisonRequest{OriginatingClientRequestID: "CR1"}})

		var resErr *ResolutionError
		assert.True(t, errors.As(err, &resErr))
		assert.False(t, called)
		assert.Empty(t, store.Items())
	})
}

// sendWatcher captures the displayed list at the moment the mutation is sent.
type sendWatcher struct {
	store *Store[client.ClientRequest, *client.ClientRequest]
	seen  *[]client.ClientRequest
}

func (p *sendWatcher) dispatch(ctx context.Context, action Action[client.ClientRequest]) error {
	mutate := p.store.mutate
	p.store.mutate = func(ctx context.Context, a Action[client.ClientRequest]) error {
		*p.seen = p.store.Items()
		return mutate(ctx, a)
	}
	return p.store.Dispatch(ctx, action)
}
