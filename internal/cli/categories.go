package cli

import (
	"fmt"
	"os"

	"github.com/aretw0/catsort/pkg/domain"
)

// LoadCategories reads a categories payload from path. An empty path
// yields no categories.
func LoadCategories(path string) ([]domain.Category, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return domain.DecodeCategories(data)
}
