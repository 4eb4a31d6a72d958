package enrichment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"questlog/internal/catalog"
	"questlog/internal/library"
	"questlog/internal/scores"
	"questlog/internal/services"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Search(ctx context.Context, query string) ([]catalog.Record, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Record), args.Error(1)
}

func (m *mockCatalog) Details(ctx context.Context, id int64) (*catalog.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Record), args.Error(1)
}

type mockPress struct {
	mock.Mock
}

func (m *mockPress) Lookup(ctx context.Context, title string) (*int, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

type mockReviews struct {
	mock.Mock
}

func (m *mockReviews) Scrape(ctx context.Context, title string) (scores.ScrapeResult, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(scores.ScrapeResult), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ApplyEnrichment(ctx context.Context, id int64, e library.Enrichment) (*library.Game, error) {
	args := m.Called(ctx, id, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*library.Game), args.Error(1)
}

func intp(v int) *int { return &v }

func hadesRecord() *catalog.Record {
	release := time.Date(2020, 9, 17, 0, 0, 0, 0, time.UTC)
	return &catalog.Record{
		ID:          113112,
		Name:        "Hades",
		Summary:     "Defy the god of the dead.",
		CoverURL:    "https://images.igdb.com/igdb/image/upload/t_cover_big/co39vc.jpg",
		ReleaseDate: &release,
		PressScore:  intp(91),
		UserScore:   intp(88),
		Genres:      []string{"Role-playing (RPG)", "Hack and slash/Beat 'em up"},
		Developers:  []string{"Supergiant Games"},
		Publishers:  []string{"Supergiant Games"},
		AgeRatings: []catalog.AgeRating{
			{Category: intp(4)},
			{Organization: intp(1), Category: intp(10)},
			{Category: intp(4)},
			{Organization: intp(99)},
		},
		DLCs: []catalog.Record{{ID: 1, Name: "Original Soundtrack"}},
	}
}

func TestMergePrecedence(t *testing.T) {
	rec := hadesRecord()
	cases := []struct {
		name      string
		record    *catalog.Record
		press     *int
		scraped   scores.ScrapeResult
		wantPress *int
		wantUser  *int
	}{
		{"review site wins", rec, intp(80), scores.ScrapeResult{Press: intp(93), User: intp(85)}, intp(93), intp(85)},
		{"aggregator before catalog", rec, intp(80), scores.ScrapeResult{}, intp(80), intp(88)},
		{"catalog fallback", rec, nil, scores.ScrapeResult{}, intp(91), intp(88)},
		{"nothing known", nil, nil, scores.ScrapeResult{}, nil, nil},
		{"scrape only", nil, nil, scores.ScrapeResult{User: intp(70)}, nil, intp(70)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.record, tc.press, tc.scraped)
			assert.Equal(t, tc.wantPress, got.CriticScore)
			assert.Equal(t, tc.wantUser, got.UserScore)
		})
	}
}

func TestMergeCopiesCatalogFields(t *testing.T) {
	got := Merge(hadesRecord(), nil, scores.ScrapeResult{})

	assert.Equal(t, int64(113112), got.ExternalID)
	assert.Equal(t, "Defy the god of the dead.", got.Description)
	assert.Equal(t, "Role-playing (RPG), Hack and slash/Beat 'em up", got.Genre)
	assert.Equal(t, "Supergiant Games", got.Developer)
	assert.Equal(t, "PEGI 16, ESRB T", got.AgeRatings)
	assert.Equal(t, []string{"Original Soundtrack"}, got.DLCNames)
	require.NotNil(t, got.ReleaseDate)
	assert.Equal(t, 2020, got.ReleaseDate.Year())
}

func TestEnrichResolvesExternalIDAndRunsAllSources(t *testing.T) {
	ctx := context.Background()
	cat := new(mockCatalog)
	press := new(mockPress)
	reviews := new(mockReviews)

	cat.On("Search", mock.Anything, "Hades").Return([]catalog.Record{
		{ID: 555, Name: "Hades Original Soundtrack"},
		{ID: 113112, Name: "Hades"},
		{ID: 145191, Name: "Hades II"},
	}, nil)
	cat.On("Details", mock.Anything, int64(113112)).Return(hadesRecord(), nil)
	press.On("Lookup", mock.Anything, "Hades").Return(intp(93), nil)
	reviews.On("Scrape", mock.Anything, "Hades").Return(scores.ScrapeResult{User: intp(87)}, nil)

	e := New(cat, press, reviews, nil)
	got, err := e.Enrich(ctx, library.Game{ID: 7, Title: "Hades", Platform: "PC"})
	require.NoError(t, err)

	assert.Equal(t, int64(113112), got.ExternalID)
	assert.Equal(t, intp(93), got.CriticScore)
	assert.Equal(t, intp(87), got.UserScore)
	assert.Equal(t, "Supergiant Games", got.Publisher)
	cat.AssertExpectations(t)
	press.AssertExpectations(t)
	reviews.AssertExpectations(t)
}

func TestEnrichIsolatesSourceFailures(t *testing.T) {
	ctx := context.Background()
	cat := new(mockCatalog)
	press := new(mockPress)
	reviews := new(mockReviews)

	cat.On("Details", mock.Anything, int64(113112)).Return(nil, errors.New("catalog down"))
	press.On("Lookup", mock.Anything, "Hades").Return(intp(77), nil)
	reviews.On("Scrape", mock.Anything, "Hades").Return(scores.ScrapeResult{}, errors.New("timeout"))

	e := New(cat, press, reviews, nil)
	got, err := e.Enrich(ctx, library.Game{ID: 7, ExternalID: 113112, Title: "Hades", Platform: "PC"})
	require.NoError(t, err)

	assert.Equal(t, int64(113112), got.ExternalID)
	assert.Equal(t, intp(77), got.CriticScore)
	assert.Nil(t, got.UserScore)
	assert.Empty(t, got.Description)
	cat.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestEnrichSkipsDetailsWhenSearchFails(t *testing.T) {
	cat := new(mockCatalog)
	cat.On("Search", mock.Anything, "Hades").Return(nil, services.ErrConnectionBlocked)

	e := New(cat, nil, nil, nil)
	got, err := e.Enrich(context.Background(), library.Game{ID: 1, Title: "Hades", Platform: "PC"})
	require.NoError(t, err)

	assert.Equal(t, library.Enrichment{}, got)
	cat.AssertNotCalled(t, "Details", mock.Anything, mock.Anything)
}

func TestSearchClassifiesFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.SearchFailure
	}{
		{"blocked", services.Wrap(services.ErrConnectionBlocked, "catalog", "search", "html response", nil), services.SearchFailureConnectionBlocked},
		{"certificate", services.Wrap(services.ErrCertificate, "catalog", "search", "", nil), services.SearchFailureCertificate},
		{"generic", errors.New("boom"), services.SearchFailureGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := new(mockCatalog)
			cat.On("Search", mock.Anything, "Zelda").Return(nil, tc.err)

			_, err := New(cat, nil, nil, nil).Search(context.Background(), "Zelda")

			var searchErr *SearchError
			require.ErrorAs(t, err, &searchErr)
			assert.Equal(t, tc.want, searchErr.Failure)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSearchMovesBestMatchFirst(t *testing.T) {
	cat := new(mockCatalog)
	parent := int64(26192)
	cat.On("Search", mock.Anything, "Rain Code").Return([]catalog.Record{
		{ID: 1, Name: "Master Detective Archives: Rain Code Plus", VersionParent: &parent},
		{ID: 2, Name: "Rain Code Soundtrack"},
		{ID: 3, Name: "Rain Code"},
	}, nil)

	results, err := New(cat, nil, nil, nil).Search(context.Background(), "Rain Code")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, int64(3), results[0].Record.ID)
	assert.True(t, results[0].BestMatch)
	assert.Equal(t, catalog.RoleMain, results[0].Resolution.Role)
	assert.Equal(t, int64(1), results[1].Record.ID)
	assert.Equal(t, catalog.RoleEditionVariant, results[1].Resolution.Role)
	assert.False(t, results[1].BestMatch)
	assert.Equal(t, int64(2), results[2].Record.ID)
}

func TestEnrichAllCountsFailuresPerGame(t *testing.T) {
	press := new(mockPress)
	store := new(mockStore)
	press.On("Lookup", mock.Anything, "Tunic").Return(intp(85), nil)
	press.On("Lookup", mock.Anything, "Inside").Return(intp(93), nil)
	store.On("ApplyEnrichment", mock.Anything, int64(1), mock.MatchedBy(func(e library.Enrichment) bool {
		return e.CriticScore != nil && *e.CriticScore == 85
	})).Return(&library.Game{ID: 1}, nil)
	store.On("ApplyEnrichment", mock.Anything, int64(2), mock.Anything).Return(nil, errors.New("disk full"))

	lockPath := filepath.Join(t.TempDir(), "enrich.lock")
	e := New(nil, press, nil, store, WithConcurrency(2), WithLockPath(lockPath))
	summary, err := e.EnrichAll(context.Background(), []library.Game{
		{ID: 1, Title: "Tunic", Platform: "PC"},
		{ID: 2, Title: "Inside", Platform: "PC"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Enriched)
	assert.Equal(t, 1, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
	store.AssertExpectations(t)

	// The lock is released after the run.
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, lock.Unlock())
}

func TestEnrichAllRefusesConcurrentRun(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "enrich.lock")
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = held.Unlock() })

	store := new(mockStore)
	e := New(nil, nil, nil, store, WithLockPath(lockPath))
	_, err = e.EnrichAll(context.Background(), []library.Game{{ID: 1, Title: "Tunic", Platform: "PC"}})

	assert.ErrorIs(t, err, ErrRunInProgress)
	store.AssertNotCalled(t, "ApplyEnrichment", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichAllKeepsFieldsWhenSourceHangs(t *testing.T) {
	cat := new(mockCatalog)
	reviews := new(mockReviews)
	store := new(mockStore)
	cat.On("Details", mock.Anything, int64(113112)).Return(hadesRecord(), nil)
	reviews.On("Scrape", mock.Anything, "Hades").
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(scores.ScrapeResult{}, context.DeadlineExceeded)
	store.On("ApplyEnrichment", mock.Anything, int64(1), mock.MatchedBy(func(e library.Enrichment) bool {
		return e.ExternalID == 113112 && e.Developer == "Supergiant Games" && e.UserScore != nil && *e.UserScore == 88
	})).Return(&library.Game{ID: 1}, nil)

	e := New(cat, nil, reviews, store, WithGameTimeout(50*time.Millisecond))
	summary, err := e.EnrichAll(context.Background(), []library.Game{
		{ID: 1, Title: "Hades", Platform: "PC", ExternalID: 113112},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Enriched)
	assert.Equal(t, 0, summary.Failed)
	store.AssertExpectations(t)
}

func TestEnrichAllFailsWhenBudgetYieldsNothing(t *testing.T) {
	reviews := new(mockReviews)
	store := new(mockStore)
	reviews.On("Scrape", mock.Anything, "Hades").
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(scores.ScrapeResult{}, context.DeadlineExceeded)

	e := New(nil, nil, reviews, store, WithGameTimeout(20*time.Millisecond))
	summary, err := e.EnrichAll(context.Background(), []library.Game{{ID: 1, Title: "Hades", Platform: "PC"}})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Enriched)
	assert.Equal(t, 1, summary.Failed)
	store.AssertNotCalled(t, "ApplyEnrichment", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichReturnsCallerCancellation(t *testing.T) {
	cat := new(mockCatalog)
	reviews := new(mockReviews)
	cat.On("Details", mock.Anything, int64(113112)).Return(hadesRecord(), nil)
	reviews.On("Scrape", mock.Anything, "Hades").
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(scores.ScrapeResult{}, context.Canceled)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	e := New(cat, nil, reviews, nil)
	_, err := e.Enrich(ctx, library.Game{ID: 1, Title: "Hades", Platform: "PC", ExternalID: 113112})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
