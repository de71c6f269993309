package document

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	gyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// MaxDepth bounds the nesting accepted by the conversion functions.
// Cyclic Go values hit this bound instead of looping forever.
const MaxDepth = 1024

// FromValue converts a Go value into a Node.
//
// nil, bool, strings, integers, floats, json.Number, []any, map[string]any and Node
// are converted directly. Go maps carry no order, so map keys are sorted.
// Anything else (structs, typed maps and slices) is marshalled with
// attributevalue.Marshal first, which honours `dynamodbav` struct tags.
func FromValue(v any) (Node, error) {
	return fromValue(v, 0)
}

func fromValue(v any, depth int) (Node, error) {
	if depth > MaxDepth {
		return Node{}, ErrTooDeep
	}
	switch tv := v.(type) {
	case nil:
		return Null(), nil
	case Node:
		return tv, nil
	case *Node:
		if tv == nil {
			return Null(), nil
		}
		return *tv, nil
	case bool:
		return Bool(tv), nil
	case string:
		return String(tv), nil
	case []byte:
		return Binary(tv), nil
	case int:
		return Int(int64(tv)), nil
	case int8:
		return Int(int64(tv)), nil
	case int16:
		return Int(int64(tv)), nil
	case int32:
		return Int(int64(tv)), nil
	case int64:
		return Int(tv), nil
	case uint:
		return Number(strconv.FormatUint(uint64(tv), 10))
	case uint8:
		return Int(int64(tv)), nil
	case uint16:
		return Int(int64(tv)), nil
	case uint32:
		return Int(int64(tv)), nil
	case uint64:
		return Number(strconv.FormatUint(tv, 10))
	case float32:
		return fromFloat(float64(tv))
	case float64:
		return fromFloat(tv)
	case json.Number:
		return Number(tv.String())
	case []any:
		items := make([]Node, len(tv))
		for i, item := range tv {
			n, err := fromValue(item, depth+1)
			if err != nil {
				return Node{}, err
			}
			items[i] = n
		}
		return Node{kind: KindList, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			n, err := fromValue(tv[k], depth+1)
			if err != nil {
				return Node{}, err
			}
			fields[i] = Field{Key: k, Value: n}
		}
		return Map(fields...), nil
	case gyaml.MapSlice:
		fields := make([]Field, 0, len(tv))
		for _, item := range tv {
			n, err := fromValue(item.Value, depth+1)
			if err != nil {
				return Node{}, err
			}
			fields = append(fields, Field{Key: fmt.Sprint(item.Key), Value: n})
		}
		return Map(fields...), nil
	case types.AttributeValue:
		return fromAttributeValue(tv, depth)
	}

	av, err := attributevalue.Marshal(v)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %T: %v", ErrUnsupportedValue, v, err)
	}
	return fromAttributeValue(av, depth)
}

func fromFloat(f float64) (Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Node{}, &ValueError{Kind: KindNumber, Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Float(f), nil
}

// FromAttributeValue converts a DynamoDB attribute value. String, number and binary
// sets become lists because documents have no set type.
func FromAttributeValue(av types.AttributeValue) (Node, error) {
	return fromAttributeValue(av, 0)
}

// FromItem converts a DynamoDB item into a map node with sorted keys.
func FromItem(item map[string]types.AttributeValue) (Node, error) {
	return fromAttributeValue(&types.AttributeValueMemberM{Value: item}, 0)
}

func fromAttributeValue(av types.AttributeValue, depth int) (Node, error) {
	if depth > MaxDepth {
		return Node{}, ErrTooDeep
	}
	switch tv := av.(type) {
	case nil:
		return Null(), nil
	case *types.AttributeValueMemberNULL:
		return Null(), nil
	case *types.AttributeValueMemberBOOL:
		return Bool(tv.Value), nil
	case *types.AttributeValueMemberS:
		return String(tv.Value), nil
	case *types.AttributeValueMemberN:
		return Number(tv.Value)
	case *types.AttributeValueMemberB:
		return Binary(tv.Value), nil
	case *types.AttributeValueMemberSS:
		items := make([]Node, len(tv.Value))
		for i, s := range tv.Value {
			items[i] = String(s)
		}
		return Node{kind: KindList, items: items}, nil
	case *types.AttributeValueMemberNS:
		items := make([]Node, len(tv.Value))
		for i, s := range tv.Value {
			n, err := Number(s)
			if err != nil {
				return Node{}, err
			}
			items[i] = n
		}
		return Node{kind: KindList, items: items}, nil
	case *types.AttributeValueMemberBS:
		items := make([]Node, len(tv.Value))
		for i, b := range tv.Value {
			items[i] = Binary(b)
		}
		return Node{kind: KindList, items: items}, nil
	case *types.AttributeValueMemberL:
		items := make([]Node, len(tv.Value))
		for i, item := range tv.Value {
			n, err := fromAttributeValue(item, depth+1)
			if err != nil {
				return Node{}, err
			}
			items[i] = n
		}
		return Node{kind: KindList, items: items}, nil
	case *types.AttributeValueMemberM:
		keys := make([]string, 0, len(tv.Value))
		for k := range tv.Value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			n, err := fromAttributeValue(tv.Value[k], depth+1)
			if err != nil {
				return Node{}, err
			}
			fields[i] = Field{Key: k, Value: n}
		}
		return Map(fields...), nil
	}
	return Node{}, fmt.Errorf("%w: attribute value %T", ErrUnsupportedValue, av)
}

// Parse decodes JSON or YAML text, keeping the key order of every mapping.
// Empty input yields null.
func Parse(data []byte) (Node, error) {
	var v any
	if err := gyaml.UnmarshalWithOptions(data, &v, gyaml.UseOrderedMap()); err != nil {
		return Node{}, fmt.Errorf("dyndiff: parse document: %w", err)
	}
	return fromValue(v, 0)
}

// FromYAML converts a yaml.v3 node tree. Document nodes are unwrapped and aliases followed.
func FromYAML(n *yaml.Node) (Node, error) {
	return fromYAML(n, 0)
}

func fromYAML(n *yaml.Node, depth int) (Node, error) {
	if depth > MaxDepth {
		return Node{}, ErrTooDeep
	}
	if n == nil {
		return Null(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Node, len(n.Content))
		for i, c := range n.Content {
			item, err := fromYAML(c, depth+1)
			if err != nil {
				return Node{}, err
			}
			items[i] = item
		}
		return Node{kind: KindList, items: items}, nil
	case yaml.MappingNode:
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1], depth+1)
			if err != nil {
				return Node{}, err
			}
			fields = append(fields, Field{Key: n.Content[i].Value, Value: v})
		}
		return Map(fields...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return Node{}, fmt.Errorf("%w: yaml node kind %d", ErrUnsupportedValue, n.Kind)
}

func yamlScalar(n *yaml.Node) (Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Node{}, &ValueError{Kind: KindBool, Value: n.Value}
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Number(n.Value)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Node{}, &ValueError{Kind: KindNumber, Value: n.Value}
		}
		return fromFloat(f)
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return Node{}, &ValueError{Kind: KindBinary, Value: n.Value}
		}
		return Binary(b), nil
	}
	return String(n.Value), nil
}
