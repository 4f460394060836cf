// ABOUTME: Uniform view over the six entity collections
// ABOUTME: Lets the CLI and TUI list, edit and delete any entity the same way

package resources

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field describes one editable attribute
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Numeric  bool     `json:"numeric"`
	Options  []Option `json:"options,omitempty"`
	Value    string   `json:"value,omitempty"`
}

// Resource is implemented by every entity collection
type Resource interface {
	// Name is the command and collection name, e.g. "users"
	Name() string
	Title() string
	Singular() string
	Columns() []string
	// FacetName names the entity-specific filter, or "" when there is none
	FacetName() string
	Facets(rows []Row) []string
	List(ctx context.Context) ([]Row, error)
	Get(ctx context.Context, id int64) (Row, error)
	// Fields returns the editable fields. id 0 describes a new entity;
	// otherwise the fields carry the current values.
	Fields(ctx context.Context, id int64) ([]Field, error)
	// Save creates (id 0) or updates an entity from key/value pairs.
	// Updates start from the current values, so values may be partial.
	Save(ctx context.Context, id int64, values map[string]string) (Row, error)
	Delete(ctx context.Context, id int64) error
}

// entity adapts a typed Repository to Resource
type entity[T, C, U any] struct {
	repo        *Repository[T, C, U]
	name        string
	title       string
	singular    string
	columns     []string
	facet       string
	fixedFacets []string

	row    func(T) Row
	fields func(ctx context.Context) ([]Field, error)
	values func(ctx context.Context, item T) (map[string]string, error)
	create func(f form) (C, error)
	update func(id int64, f form) (U, error)
}

func (e *entity[T, C, U]) Name() string      { return e.name }
func (e *entity[T, C, U]) Title() string     { return e.title }
func (e *entity[T, C, U]) Singular() string  { return e.singular }
func (e *entity[T, C, U]) Columns() []string { return e.columns }
func (e *entity[T, C, U]) FacetName() string { return e.facet }

func (e *entity[T, C, U]) Facets(rows []Row) []string {
	if e.facet == "" {
		return nil
	}
	if e.fixedFacets != nil {
		return e.fixedFacets
	}
	return distinctFacets(rows)
}

func (e *entity[T, C, U]) List(ctx context.Context) ([]Row, error) {
	items, err := e.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(items))
	for i, item := range items {
		rows[i] = e.row(item)
	}
	return rows, nil
}

func (e *entity[T, C, U]) Get(ctx context.Context, id int64) (Row, error) {
	item, err := e.repo.Get(ctx, id)
	if err != nil {
		return Row{}, err
	}
	return e.row(*item), nil
}

func (e *entity[T, C, U]) Fields(ctx context.Context, id int64) ([]Field, error) {
	defs, err := e.fields(ctx)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return defs, nil
	}

	defs = append(defs, Field{Key: "statut", Label: "Status", Required: true, Options: StatusOptions})
	item, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current, err := e.values(ctx, *item)
	if err != nil {
		return nil, err
	}
	for i := range defs {
		defs[i].Value = current[defs[i].Key]
	}
	return defs, nil
}

func (e *entity[T, C, U]) Save(ctx context.Context, id int64, values map[string]string) (Row, error) {
	defs, err := e.fields(ctx)
	if err != nil {
		return Row{}, err
	}
	if id != 0 {
		defs = append(defs, Field{Key: "statut", Options: StatusOptions})
	}
	input, err := normalize(defs, values)
	if err != nil {
		return Row{}, err
	}

	if id == 0 {
		req, err := e.create(input)
		if err != nil {
			return Row{}, err
		}
		item, err := e.repo.Create(ctx, req)
		if err != nil {
			return Row{}, err
		}
		return e.row(*item), nil
	}

	current, err := e.repo.Get(ctx, id)
	if err != nil {
		return Row{}, err
	}
	merged, err := e.values(ctx, *current)
	if err != nil {
		return Row{}, err
	}
	for k, v := range input {
		merged[k] = v
	}
	req, err := e.update(id, merged)
	if err != nil {
		return Row{}, err
	}
	item, err := e.repo.Update(ctx, id, req)
	if err != nil {
		return Row{}, err
	}
	return e.row(*item), nil
}

func (e *entity[T, C, U]) Delete(ctx context.Context, id int64) error {
	return e.repo.Delete(ctx, id)
}

// normalize rejects unknown keys and maps option labels to their values
func normalize(defs []Field, values map[string]string) (form, error) {
	byKey := make(map[string]Field, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}

	out := make(form, len(values))
	var problems []FieldError
	for k, v := range values {
		d, ok := byKey[k]
		if !ok {
			problems = append(problems, FieldError{Field: k, Message: fmt.Sprintf("unknown field %q (valid: %s)", k, strings.Join(fieldKeys(defs), ", "))})
			continue
		}
		v = strings.TrimSpace(v)
		if len(d.Options) > 0 && v != "" {
			resolved, ok := resolveOption(d.Options, v)
			if !ok {
				problems = append(problems, FieldError{Field: k, Message: fmt.Sprintf("%s must be one of: %s", k, strings.Join(optionLabels(d.Options), ", "))})
				continue
			}
			v = resolved
		}
		out[k] = v
	}
	if len(problems) > 0 {
		sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
		return nil, &ValidationError{Errors: problems}
	}
	return out, nil
}

func resolveOption(opts []Option, v string) (string, bool) {
	for _, o := range opts {
		if o.Value == v || strings.EqualFold(o.Label, v) || strings.EqualFold(o.Value, v) {
			return o.Value, true
		}
	}
	return "", false
}

func fieldKeys(defs []Field) []string {
	keys := make([]string, len(defs))
	for i, d := range defs {
		keys[i] = d.Key
	}
	return keys
}

func optionLabels(opts []Option) []string {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	return labels
}

// form holds submitted values keyed by JSON field name
type form map[string]string

func (f form) str(key string) string {
	return strings.TrimSpace(f[key])
}

func (f form) number(key string) (int, error) {
	v := f.str(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ValidationError{Errors: []FieldError{{Field: key, Message: key + " must be a number"}}}
	}
	return n, nil
}

func (f form) ref(key string) (int64, error) {
	n, err := f.number(key)
	return int64(n), err
}

// status returns the submitted status, defaulting to Actif
func (f form) status() string {
	if v := f.str("statut"); v != "" {
		return v
	}
	return StatusActive
}

func itoa[N int | int64](n N) string {
	return strconv.FormatInt(int64(n), 10)
}
