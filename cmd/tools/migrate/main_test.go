package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/products"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/models"
)

func TestFlushProductCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)

	keys := []string{
		products.CacheKey(models.CategoryIncomeStream, "at_risk"),
		products.CacheKey(models.CategoryRetirementPlanning, "excellent"),
		products.CacheKey(models.CategorySavingsHabit, "needs_improvement"),
	}
	for _, k := range keys {
		require.NoError(t, mr.Set(k, "[]"))
	}
	require.NoError(t, mr.Set("questions:financial_clinic:en:default:abc", "[]"))

	store := products.NewCachedStore(nil, client, 0, logger.NewTestLogger(t))
	removed, err := flushProductCache(context.Background(), store, catalogs)
	require.NoError(t, err)
	assert.Equal(t, len(keys), removed)

	for _, k := range keys {
		assert.False(t, mr.Exists(k), k)
	}
	assert.True(t, mr.Exists("questions:financial_clinic:en:default:abc"))
}

func TestFlushProductCache_SkipsMissingVariant(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	key := products.CacheKey(models.CategoryIncomeStream, "good")
	require.NoError(t, mr.Set(key, "[]"))

	store := products.NewCachedStore(nil, client, 0, logger.NewTestLogger(t))
	removed, err := flushProductCache(context.Background(), store, catalog.Set{})
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.True(t, mr.Exists(key))
}
