package domain_test

import (
	"testing"

	"github.com/aretw0/catsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCategories(t *testing.T) {
	want := []domain.Category{
		{ID: 1, Slug: "general", Name: "General"},
		{ID: 2, Slug: "bugs"},
	}

	t.Run("Array", func(t *testing.T) {
		got, err := domain.DecodeCategories([]byte(`[{"id":1,"slug":"general","name":"General","color":"fff"},{"id":2,"slug":"bugs"}]`))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Categories object with string ids", func(t *testing.T) {
		got, err := domain.DecodeCategories([]byte(`{"categories":[{"id":"1","slug":"general","name":"General"},{"id":"2","slug":"bugs"}]}`))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Site payload", func(t *testing.T) {
		got, err := domain.DecodeCategories([]byte(`{"category_list":{"can_create_category":false,"categories":[{"id":1,"slug":"general","name":"General"},{"id":2,"slug":"bugs"}]}}`))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Unknown shape", func(t *testing.T) {
		_, err := domain.DecodeCategories([]byte(`{"topics":[]}`))
		assert.ErrorIs(t, err, domain.ErrCategoriesFormat)
	})

	t.Run("Bad id", func(t *testing.T) {
		_, err := domain.DecodeCategories([]byte(`[{"id":"one","slug":"x"}]`))
		assert.Error(t, err)
	})

	t.Run("Fractional id", func(t *testing.T) {
		_, err := domain.DecodeCategories([]byte(`[{"id":2.7,"slug":"x"}]`))
		assert.ErrorContains(t, err, "not a whole number")
	})

	t.Run("Whole float id", func(t *testing.T) {
		got, err := domain.DecodeCategories([]byte(`[{"id":2.0,"slug":"bugs"}]`))
		require.NoError(t, err)
		assert.Equal(t, []domain.Category{{ID: 2, Slug: "bugs"}}, got)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		_, err := domain.DecodeCategories([]byte(`[`))
		assert.Error(t, err)
	})
}
