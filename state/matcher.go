// Package state holds the selection, filter and focus state of a graph view
// and decides which nodes and edges are visible.
package state

import (
	"reflect"
	"strings"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/models"
)

// Predicate reports whether a node satisfies a filter or focus query.
type Predicate func(n *models.Node) bool

// Matcher is what callers hand to Filter and Focus. It is one of Predicate,
// Match or Literal and is compiled into a Predicate once, at the API
// boundary.
type Matcher interface {
	isMatcher()
}

// Match is a declarative query. Keys are id, text, cluster and size; several
// keys are ANDed.
//
//	state.Match{"cluster": []any{0, 1}, "size": []any{nil, 20}}
type Match map[string]any

// Literal is a bare id or text value. It is only meaningful for focus.
type Literal string

func (Predicate) isMatcher() {}
func (Match) isMatcher()     {}
func (Literal) isMatcher()   {}

// Declarative match keys.
const (
	KeyID      = "id"
	KeyText    = "text"
	KeyCluster = "cluster"
	KeySize    = "size"
)

// ByID matches nodes whose id is any of ids.
func ByID(ids ...models.Key) Predicate {
	set := make(map[models.Key]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(n *models.Node) bool {
		return set[n.ID]
	}
}

// ByText matches nodes whose text contains q, ignoring case. An empty query
// matches everything.
func ByText(q string) Predicate {
	q = strings.ToLower(q)
	return func(n *models.Node) bool {
		return strings.Contains(strings.ToLower(n.Text), q)
	}
}

// ByCluster matches nodes in any of the clusters.
func ByCluster(clusters ...string) Predicate {
	set := make(map[string]bool, len(clusters))
	for _, c := range clusters {
		set[c] = true
	}
	return func(n *models.Node) bool {
		return set[n.Cluster]
	}
}

// BySize matches nodes with min <= size <= max. A nil bound is unbounded.
func BySize(min, max *float64) Predicate {
	return func(n *models.Node) bool {
		if min != nil && n.Size < *min {
			return false
		}
		if max != nil && n.Size > *max {
			return false
		}
		return true
	}
}

// All is the conjunction of preds. No predicates match everything.
func All(preds ...Predicate) Predicate {
	return func(n *models.Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// Compile turns a filter matcher into a predicate. Literals are rejected:
// a filter needs a predicate or a declarative match.
func Compile(m Matcher) (Predicate, error) {
	switch t := m.(type) {
	case Predicate:
		if t == nil {
			return nil, errors.Wrap(errors.ErrInvalidFilter, "nil predicate")
		}
		return t, nil
	case Match:
		p, err := t.compile()
		if err != nil {
			return nil, errors.Mark(err, errors.ErrInvalidFilter)
		}
		return p, nil
	case Literal:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidFilter, "literal %q", string(t)),
			`use state.Match{"text": ...} or state.Match{"id": ...}`)
	case nil:
		return nil, errors.Wrap(errors.ErrInvalidFilter, "nil matcher")
	}
	return nil, errors.Wrapf(errors.ErrInvalidFilter, "unsupported matcher %T", m)
}

// CompileFocus turns a focus matcher into a predicate. A literal matches the
// node id exactly or the node text ignoring case.
func CompileFocus(m Matcher) (Predicate, error) {
	switch t := m.(type) {
	case Predicate:
		if t == nil {
			return nil, errors.Wrap(errors.ErrInvalidFocus, "nil predicate")
		}
		return t, nil
	case Match:
		p, err := t.compile()
		if err != nil {
			return nil, errors.Mark(err, errors.ErrInvalidFocus)
		}
		return p, nil
	case Literal:
		v := string(t)
		return func(n *models.Node) bool {
			return n.ID == v || strings.EqualFold(n.Text, v)
		}, nil
	case nil:
		return nil, errors.Wrap(errors.ErrInvalidFocus, "nil matcher")
	}
	return nil, errors.Wrapf(errors.ErrInvalidFocus, "unsupported matcher %T", m)
}

func (m Match) compile() (Predicate, error) {
	if len(m) == 0 {
		return nil, errors.New("empty match")
	}

	preds := make([]Predicate, 0, len(m))
	for key, value := range m {
		var (
			p   Predicate
			err error
		)
		switch key {
		case KeyID:
			var ids []string
			ids, err = keys(value)
			p = ByID(ids...)
		case KeyCluster:
			var clusters []string
			clusters, err = keys(value)
			p = ByCluster(clusters...)
		case KeyText:
			s, ok := value.(string)
			if !ok {
				err = errors.Newf("text must be a string, got %T", value)
			}
			p = ByText(s)
		case KeySize:
			var min, max *float64
			min, max, err = sizeRange(value)
			p = BySize(min, max)
		default:
			return nil, errors.WithHint(
				errors.Newf("unknown match key %q", key),
				"valid keys are id, text, cluster and size")
		}
		if err != nil {
			return nil, errors.Wrapf(err, "match key %q", key)
		}
		preds = append(preds, p)
	}
	return All(preds...), nil
}

// keys normalizes a scalar or a list of scalars into keys. A list means OR.
func keys(value any) ([]string, error) {
	if value == nil {
		return nil, errors.New("value is nil")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			if !isScalar(item) {
				return nil, errors.Newf("list item %d has type %T", i, item)
			}
			out = append(out, models.KeyOf(item))
		}
		return out, nil
	}
	if !isScalar(value) {
		return nil, errors.Newf("unsupported value type %T", value)
	}
	return []string{models.KeyOf(value)}, nil
}

// sizeRange reads a two element [min, max] list. nil bounds are unbounded.
func sizeRange(value any) (*float64, *float64, error) {
	if value == nil {
		return nil, nil, errors.New("size range is nil")
	}
	rv := reflect.ValueOf(value)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, nil, errors.Newf("size must be a [min, max] list, got %T", value)
	}
	if rv.Len() != 2 {
		return nil, nil, errors.Newf("size range needs 2 bounds, got %d", rv.Len())
	}

	bounds := [2]*float64{}
	for i := range bounds {
		item := rv.Index(i)
		if item.Kind() == reflect.Interface || item.Kind() == reflect.Pointer {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		f, ok := number(item)
		if !ok {
			return nil, nil, errors.Newf("size bound %d has type %s", i, item.Type())
		}
		bounds[i] = &f
	}
	if bounds[0] != nil && bounds[1] != nil && *bounds[0] > *bounds[1] {
		return nil, nil, errors.Newf("size range [%v, %v] is inverted", *bounds[0], *bounds[1])
	}
	return bounds[0], bounds[1], nil
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	}
	return 0, false
}

func isScalar(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
