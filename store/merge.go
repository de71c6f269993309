package store

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dyndiff/document"
)

// mergeExprNames merges name tables. A token may repeat only for the same name.
func mergeExprNames(maps ...map[string]string) (map[string]string, error) {
	var result map[string]string
	for _, m := range maps {
		for k, v := range m {
			if prev, ok := result[k]; ok && prev != v {
				return nil, fmt.Errorf("%w: %s is both %q and %q", ErrPlaceholderConflict, k, prev, v)
			}
			if result == nil {
				result = make(map[string]string)
			}
			result[k] = v
		}
	}
	return result, nil
}

// mergeExprValues merges value tables. A token may repeat only for an equal value.
func mergeExprValues(maps ...map[string]document.Node) (map[string]document.Node, error) {
	var result map[string]document.Node
	for _, m := range maps {
		for k, v := range m {
			if prev, ok := result[k]; ok && !prev.Equal(v) {
				return nil, fmt.Errorf("%w: %s is both %s and %s", ErrPlaceholderConflict, k, prev, v)
			}
			if result == nil {
				result = make(map[string]document.Node)
			}
			result[k] = v
		}
	}
	return result, nil
}

// fromAttributeValues converts a wire value table.
func fromAttributeValues(values map[string]types.AttributeValue) (map[string]document.Node, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]document.Node, len(values))
	for k, av := range values {
		n, err := document.FromAttributeValue(av)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

// andConditions joins two condition expressions, either of which may be empty.
func andConditions(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return fmt.Sprintf("(%s) AND (%s)", a, b)
}
