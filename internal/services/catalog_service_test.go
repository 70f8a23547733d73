package services

import (
	"context"
	"errors"
	"testing"

	"guanago/internal/cache"
	"guanago/internal/domain"
	"guanago/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() *fakeServices {
	return &fakeServices{items: []models.TourService{
		{ID: "s1", Name: "Tour Acuario", Category: "tour", Price: 120000, Active: true},
		{ID: "s2", Name: "Buceo nocturno", Category: "Buceo", Price: 300000, Active: true, Description: "arrecife"},
		{ID: "s3", Name: "Ángel Cay", Category: "tour", Price: 90000, Active: false},
	}}
}

func TestListServicesFiltersAndSorts(t *testing.T) {
	svcs := catalogFixture()
	c := newCatalog(svcs)
	ctx := context.Background()

	all, meta, err := c.ListServices(ctx, models.ServiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, cache.StateMiss, meta.State)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"s3", "s2", "s1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	tours, meta, err := c.ListServices(ctx, models.ServiceFilter{Category: "TOUR", ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, cache.StateFresh, meta.State)
	require.Len(t, tours, 1)
	assert.Equal(t, "s1", tours[0].ID)

	found, _, err := c.ListServices(ctx, models.ServiceFilter{Query: "ARRECIFE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "s2", found[0].ID)

	assert.Equal(t, 1, svcs.lists)
}

func TestListServicesServesFallbackWhenAirtableDown(t *testing.T) {
	c := newCatalog(&fakeServices{err: errors.New("dial tcp: timeout")})
	require.NoError(t, c.RegisterFallbacks())

	list, meta, err := c.ListServices(context.Background(), models.ServiceFilter{Category: "rimm"})
	require.NoError(t, err)
	assert.Equal(t, cache.StateFallback, meta.State)
	require.Len(t, list, 1)
	assert.Equal(t, "fallback-rimm", list[0].ID)
}

func TestGetServiceUsesCacheThenStore(t *testing.T) {
	c := newCatalog(catalogFixture())
	svc, err := c.GetService(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, "Buceo nocturno", svc.Name)

	_, err = c.GetService(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))

	_, err = c.GetService(context.Background(), " ")
	assert.True(t, domain.IsValidation(err))
}

func TestServiceWritesInvalidateCache(t *testing.T) {
	svcs := catalogFixture()
	c := newCatalog(svcs)
	ctx := context.Background()

	_, _, err := c.ListServices(ctx, models.ServiceFilter{})
	require.NoError(t, err)

	name, category := "Paddle board", "deporte"
	created, err := c.CreateService(ctx, models.ServiceInput{Name: &name, Category: &category})
	require.NoError(t, err)
	assert.True(t, created.Active)

	list, meta, err := c.ListServices(ctx, models.ServiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, cache.StateMiss, meta.State)
	assert.Len(t, list, 4)

	require.NoError(t, c.DeleteService(ctx, "recNew"))
	list, _, err = c.ListServices(ctx, models.ServiceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestServiceInputValidation(t *testing.T) {
	c := newCatalog(catalogFixture())
	ctx := context.Background()

	_, err := c.CreateService(ctx, models.ServiceInput{})
	assert.True(t, domain.IsValidation(err))

	neg := int64(-1)
	_, err = c.UpdateService(ctx, "s1", models.ServiceInput{Price: &neg})
	assert.True(t, domain.IsValidation(err))

	rating := 6.0
	_, err = c.UpdateService(ctx, "s1", models.ServiceInput{Rating: &rating})
	assert.True(t, domain.IsValidation(err))
}

func TestListDirectoryAndAccommodations(t *testing.T) {
	c := newCatalog(catalogFixture())
	ctx := context.Background()

	places, _, err := c.ListDirectory(ctx, "atraccion")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "p1", places[0].ID)

	acc, _, err := c.ListAccommodations(ctx, AccommodationFilter{})
	require.NoError(t, err)
	require.Len(t, acc, 2)
	assert.Equal(t, "a2", acc[0].ID)

	acc, _, err = c.ListAccommodations(ctx, AccommodationFilter{MinCapacity: 3})
	require.NoError(t, err)
	require.Len(t, acc, 1)
	assert.Equal(t, "Posada", acc[0].Name)
}

func TestWarmFillsAllKeys(t *testing.T) {
	svcs := catalogFixture()
	c := newCatalog(svcs)
	ctx := context.Background()

	require.NoError(t, c.Warm(ctx))
	_, meta, err := c.ListServices(ctx, models.ServiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, cache.StateFresh, meta.State)
	_, meta, err = c.ListDirectory(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, cache.StateFresh, meta.State)
	_, meta, err = c.ListAccommodations(ctx, AccommodationFilter{})
	require.NoError(t, err)
	assert.Equal(t, cache.StateFresh, meta.State)
}
