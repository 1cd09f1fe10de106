package finder_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"productbot/internal/finder"
	"productbot/pkg/catalog"
	mockcatalog "productbot/pkg/catalog/mock"
	"productbot/pkg/domain"
	"productbot/pkg/logger"
	"productbot/pkg/metrics"
	"productbot/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	_ = logger.Setup(logger.DevelopmentEnvironment)
	os.Exit(m.Run())
}

func ptr(s string) *string { return &s }

func newTestFinder(t *testing.T, opts finder.Options) (*mockcatalog.MockClient, finder.Finder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mockcatalog.NewMockClient(ctrl)

	return client, finder.New(client, opts)
}

func candidates(n int) []catalog.Item {
	items := make([]catalog.Item, 0, n)
	for i := range n {
		id := string(rune('A' + i))
		items = append(items, catalog.Item{
			ID:    id,
			Title: ptr("Title " + id),
			URL:   ptr("https://example.com/" + id),
			Price: ptr("¥" + id),
		})
	}

	return items
}

func TestFinder_Find_SearchRequest(t *testing.T) {
	client, f := newTestFinder(t, finder.Options{})

	client.EXPECT().SearchItems(gomock.Any(), catalog.SearchRequest{
		Keywords:  "Python 書籍",
		ItemCount: 10,
		SortBy:    catalog.SortByRating,
		Resources: []catalog.Resource{catalog.ResourceTitle, catalog.ResourceURL, catalog.ResourcePrice},
	}).Return(candidates(1), nil)

	require.NotNil(t, f.Find(context.Background(), "  Python 書籍 "))
}

func TestFinder_Find_ItemCountClamped(t *testing.T) {
	tests := []struct {
		itemCount int
		want      int
	}{
		{-1, catalog.MaxItemCount},
		{0, catalog.MaxItemCount},
		{3, 3},
		{10, 10},
		{11, catalog.MaxItemCount},
	}
	for _, tt := range tests {
		client, f := newTestFinder(t, finder.Options{ItemCount: tt.itemCount})
		client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req catalog.SearchRequest) ([]catalog.Item, error) {
				require.Equal(t, tt.want, req.ItemCount)

				return nil, nil
			})

		require.Nil(t, f.Find(context.Background(), "go"))
	}
}

func TestFinder_Find_SelectionIsMember(t *testing.T) {
	items := candidates(7)
	want := make(map[domain.Product]bool, len(items))
	for _, it := range items {
		want[domain.Product{Title: *it.Title, URL: *it.URL, Price: *it.Price}] = true
	}

	seen := map[domain.Product]bool{}
	rnd := rand.New(rand.NewPCG(1, 2)) //nolint: gosec
	for range 200 {
		client, f := newTestFinder(t, finder.Options{Rand: rnd})
		client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(items, nil)

		p := f.Find(context.Background(), "go")
		require.NotNil(t, p)
		require.True(t, want[*p], "selected product %+v is not a candidate", *p)
		seen[*p] = true
	}
	// 200 uniform draws over 7 candidates reach every one of them.
	require.Len(t, seen, len(items))
}

func TestFinder_Find_SingleCandidate(t *testing.T) {
	client, f := newTestFinder(t, finder.Options{})
	client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(candidates(1), nil)

	p := f.Find(context.Background(), "go")
	require.Equal(t, &domain.Product{Title: "Title A", URL: "https://example.com/A", Price: "¥A"}, p)
}

func TestFinder_Find_NoCandidates(t *testing.T) {
	client, f := newTestFinder(t, finder.Options{})
	client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return([]catalog.Item{}, nil)

	require.Nil(t, f.Find(context.Background(), "go"))
}

func TestFinder_Find_MissingFieldsUseDefaults(t *testing.T) {
	tests := []struct {
		name string
		item catalog.Item
		want domain.Product
	}{
		{
			name: "no price",
			item: catalog.Item{ID: "A", Title: ptr("Learn X"), URL: ptr("http://example.com/x")},
			want: domain.Product{Title: "Learn X", URL: "http://example.com/x", Price: domain.NoPrice},
		},
		{
			name: "blank price",
			item: catalog.Item{ID: "A", Title: ptr("Learn X"), URL: ptr("http://example.com/x"), Price: ptr("  ")},
			want: domain.Product{Title: "Learn X", URL: "http://example.com/x", Price: domain.NoPrice},
		},
		{
			name: "nothing",
			item: catalog.Item{ID: "A"},
			want: domain.Product{Title: domain.NoTitle, URL: domain.NoURL, Price: domain.NoPrice},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, f := newTestFinder(t, finder.Options{})
			client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return([]catalog.Item{tt.item}, nil)

			p := f.Find(context.Background(), "go")
			require.NotNil(t, p)
			require.Equal(t, tt.want, *p)
			require.NotEmpty(t, p.Price)
		})
	}
}

func TestFinder_Find_ErrorsAreAbsorbed(t *testing.T) {
	errs := []error{
		serrors.With(serrors.ErrUnauthorized, "catalog credentials are not configured"),
		serrors.With(serrors.ErrRateLimited, "slow down"),
		serrors.Wrap(serrors.ErrInternal, errors.New("unexpected EOF"), "could not decode response"),
		errors.New("network unreachable"),
	}
	for _, searchErr := range errs {
		t.Run(searchErr.Error(), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			ctx := logger.WithLogger(context.Background(), zap.New(core))

			client, f := newTestFinder(t, finder.Options{})
			client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(nil, searchErr)

			var p *domain.Product
			require.NotPanics(t, func() { p = f.Find(ctx, "go") })
			require.Nil(t, p)

			entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
			require.Len(t, entries, 1)
			logged, ok := entries[0].ContextMap()["error"].(string)
			require.True(t, ok)
			require.Contains(t, logged, searchErr.Error())
		})
	}
}

func TestFinder_Find_LogsCandidatesAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	client, f := newTestFinder(t, finder.Options{})
	client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(candidates(3), nil)

	require.NotNil(t, f.Find(ctx, "go"))

	entries := logs.FilterMessage("selected candidate").All()
	require.Len(t, entries, 1)
	require.Equal(t, []any{"A", "B", "C"}, entries[0].ContextMap()["candidates"])
	require.Equal(t, "go", entries[0].ContextMap()["keyword"])
}

func TestFinder_Find_EmptyKeyword(t *testing.T) {
	// no EXPECT: any call to the catalog fails the test
	_, f := newTestFinder(t, finder.Options{})

	require.Nil(t, f.Find(context.Background(), ""))
	require.Nil(t, f.Find(context.Background(), " \t"))
}

func TestFinder_Find_RecordsMetrics(t *testing.T) {
	rec, err := metrics.New()
	require.NoError(t, err)

	client, f := newTestFinder(t, finder.Options{MeterProvider: rec.MeterProvider()})
	gomock.InOrder(
		client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(candidates(2), nil),
		client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(nil, nil),
		client.EXPECT().SearchItems(gomock.Any(), gomock.Any()).Return(nil, serrors.KindOnly(serrors.ErrRateLimited)),
	)
	f.Find(context.Background(), "go")
	f.Find(context.Background(), "go")
	f.Find(context.Background(), "go")

	path := filepath.Join(t.TempDir(), "finder.prom")
	require.NoError(t, rec.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(b)
	require.Contains(t, out, "productbot_search_requests_total{")
	require.Contains(t, out, `outcome="ok"`)
	require.Contains(t, out, `outcome="empty"`)
	require.Contains(t, out, `outcome="rate_limited"`)
	require.Contains(t, out, "productbot_search_duration_seconds_bucket{")
}
