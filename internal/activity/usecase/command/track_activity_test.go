package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-search/internal/activity/domain"
	"github.com/tair/catalog-search/internal/activity/repository"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
	"github.com/tair/catalog-search/kafka"
)

// stubCatalog resolves a fixed product set.
type stubCatalog struct {
	products map[uint]*searchdomain.Product
}

func (s stubCatalog) FindByID(ctx context.Context, id uint) (*searchdomain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: product %d", searchdomain.ErrNotFound, id)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []kafka.ActivityTrackedEvent
	err    error
}

func (p *recordingPublisher) PublishActivityTracked(ctx context.Context, event kafka.ActivityTrackedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newTestHandler(publisher EventPublisher) (*TrackActivityHandler, *repository.MemoryActivityRepository) {
	repo := repository.NewMemoryActivityRepository()
	catalog := stubCatalog{products: map[uint]*searchdomain.Product{
		10: {ID: 10, Name: "iPhone 15", Category: searchdomain.CategoryIphone},
	}}
	return NewTrackActivityHandler(repo, catalog, publisher), repo
}

func TestTrackActivity_RecordsEvent(t *testing.T) {
	handler, repo := newTestHandler(nil)

	err := handler.Handle(context.Background(), TrackActivityCommand{
		UserID:       1,
		ActivityType: string(domain.ActivitySearch),
		SearchQuery:  "macbook",
	})

	require.NoError(t, err)
	log, err := repo.Find(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, log.Len())
	assert.Equal(t, domain.ActivitySearch, log.Events()[0].ActivityType)
	assert.False(t, log.LastActiveAt.IsZero())
}

func TestTrackActivity_BackfillsCategoryFromCatalog(t *testing.T) {
	handler, repo := newTestHandler(nil)

	err := handler.Handle(context.Background(), TrackActivityCommand{
		UserID:       1,
		ActivityType: string(domain.ActivityViewProduct),
		ProductID:    10,
		Category:     "ignored",
	})

	require.NoError(t, err)
	log, err := repo.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, searchdomain.CategoryIphone, log.Events()[0].Category)
	assert.Equal(t, []string{searchdomain.CategoryIphone}, log.Preferences.FavoriteCategories)
}

func TestTrackActivity_MissingTypeIsValidationError(t *testing.T) {
	handler, _ := newTestHandler(nil)

	err := handler.Handle(context.Background(), TrackActivityCommand{UserID: 1})

	require.Error(t, err)
	assert.True(t, errors.Is(err, searchdomain.ErrValidation))
}

func TestTrackActivity_UnknownTypeIsValidationError(t *testing.T) {
	handler, _ := newTestHandler(nil)

	err := handler.Handle(context.Background(), TrackActivityCommand{
		UserID:       1,
		ActivityType: "teleport",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, searchdomain.ErrValidation))
}

func TestTrackActivity_UnknownProductIsNotFound(t *testing.T) {
	handler, repo := newTestHandler(nil)

	err := handler.Handle(context.Background(), TrackActivityCommand{
		UserID:       1,
		ActivityType: string(domain.ActivityViewProduct),
		ProductID:    999,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, searchdomain.ErrNotFound))

	// Nothing was recorded.
	_, err = repo.Find(context.Background(), 1)
	assert.True(t, errors.Is(err, searchdomain.ErrNotFound))
}

func TestTrackActivity_PublishesToStream(t *testing.T) {
	publisher := &recordingPublisher{}
	handler, _ := newTestHandler(publisher)

	err := handler.Handle(context.Background(), TrackActivityCommand{
		UserID:       1,
		ActivityType: string(domain.ActivityViewProduct),
		ProductID:    10,
		SessionID:    "sess-1",
	})

	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, uint(1), publisher.events[0].UserID)
	assert.Equal(t, uint(10), publisher.events[0].ProductID)
	assert.Equal(t, searchdomain.CategoryIphone, publisher.events[0].Category)
}

func TestTrackActivity_PublishFailureDoesNotFailCommand(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	handler, repo := newTestHandler(publisher)

	err := handler.Handle(context.Background(), TrackActivityCommand{
		UserID:       1,
		ActivityType: string(domain.ActivityClick),
	})

	require.NoError(t, err)
	log, err := repo.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, log.Len())
}
