package store

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dyndiff/document"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// KeyFrom marshals a struct or map into a PK. Struct fields follow the
// `dynamodbav` tags.
func KeyFrom(v any) (PK, error) {
	m, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return PK(m), nil
}

// keyOf reads the key attributes from the first item that carries them. Items
// that carry an attribute must agree on its value.
func keyOf(attrs []string, items ...document.Node) (PK, error) {
	key := make(PK, len(attrs))
	for _, attr := range attrs {
		var found document.Node
		var ok bool
		for _, item := range items {
			v, has := item.Get(attr)
			if !has || v.IsNull() {
				continue
			}
			if ok && !found.Equal(v) {
				return nil, fmt.Errorf("%w: %s", ErrKeyChanged, attr)
			}
			found, ok = v, true
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, attr)
		}
		switch found.Kind() {
		case document.KindString, document.KindNumber, document.KindBinary:
		default:
			return nil, fmt.Errorf("%w: %s is a %s", ErrInvalidKey, attr, found.Kind())
		}
		key[attr] = found.AttributeValue()
	}
	return key, nil
}

// withoutKey drops the key attributes, which an update may not touch.
func withoutKey(item document.Node, attrs []string) document.Node {
	if item.Kind() != document.KindMap {
		return item
	}
	skip := make(map[string]bool, len(attrs))
	for _, attr := range attrs {
		skip[attr] = true
	}
	fields := make([]document.Field, 0, item.Len())
	for _, k := range item.Keys() {
		if skip[k] {
			continue
		}
		v, _ := item.Get(k)
		fields = append(fields, document.Field{Key: k, Value: v})
	}
	return document.Map(fields...)
}
