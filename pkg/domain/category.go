package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrCategoriesFormat is returned for payloads that hold no category list.
var ErrCategoriesFormat = errors.New("categories payload must be an array, {categories: [...]} or {category_list: {categories: [...]}}")

// Category is a category record supplied by the host data layer.
// Only ID and Slug take part in grouping.
type Category struct {
	ID   int    `json:"id" yaml:"id" mapstructure:"id"`
	Slug string `json:"slug" yaml:"slug" mapstructure:"slug"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
}

// DecodeCategories reads a JSON categories payload. Besides a bare array it
// accepts the site payload shapes {categories} and {category_list: {categories}}.
// Ids may be whole numbers or numeric strings; unknown fields are ignored.
func DecodeCategories(data []byte) ([]Category, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	list, ok := categoryList(raw)
	if !ok {
		return nil, ErrCategoriesFormat
	}

	var cats []Category
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(wholeNumbers),
		WeaklyTypedInput: true,
		Result:           &cats,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(list); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return cats, nil
}

// wholeNumbers rejects fractional JSON numbers bound for integer fields,
// which weak decoding would otherwise truncate.
func wholeNumbers(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}
	if f := data.(float64); f != math.Trunc(f) {
		return nil, fmt.Errorf("id %v is not a whole number", f)
	}
	return data, nil
}

func categoryList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case map[string]any:
		if list, ok := v["categories"].([]any); ok {
			return list, true
		}
		if inner, ok := v["category_list"].(map[string]any); ok {
			return categoryList(inner)
		}
	}
	return nil, false
}
