package fabrica

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/fabrica/faker"
)

// resolvedField is one definition field with its applicable overrides
// attached: the direct override, if any, and the merged sub-override
// mapping destined for a nested factory. Final value dispatch happens in
// the graph builder, which knows whether the effective value is a
// reference.
type resolvedField struct {
	name      string
	base      Field
	direct    any
	hasDirect bool
	sub       map[string]any
}

// factoryLabel names a factory in error messages. The package-qualified
// type name lines up with the "<app>.<FactoryName>" identifier convention.
func factoryLabel(f Factory) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", f), "*")
}

// evaluateDefinition invokes the factory's mixin and definition hooks once
// and flattens them into a single ordered field list. Mixin fields come
// first, in mixin order; on name collision the later entry wins while the
// position of the first occurrence is kept.
func evaluateDefinition(f Factory, gen *faker.Faker, label string) ([]Field, error) {
	var raw []Field
	for _, m := range f.Mixin() {
		raw = append(raw, m.Definition(gen)...)
	}
	raw = append(raw, f.Definition(gen)...)
	if len(raw) == 0 {
		return nil, NewDefinitionError(label, "", "no fields declared")
	}
	fields := make([]Field, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, fd := range raw {
		if fd.name == "" {
			return nil, NewDefinitionError(label, "", "field with empty name")
		}
		if i, ok := index[fd.name]; ok {
			fields[i] = fd
			continue
		}
		index[fd.name] = len(fields)
		fields = append(fields, fd)
	}
	return fields, nil
}

// mergeOverrides combines override maps left to right; on key collision
// the later map wins. Dotted and direct keys are kept as supplied, the
// precedence between them is decided per field in resolveOverrides.
func mergeOverrides(ovs []Overrides) Overrides {
	switch len(ovs) {
	case 0:
		return nil
	case 1:
		return ovs[0]
	}
	merged := make(Overrides)
	for _, ov := range ovs {
		for k, v := range ov {
			merged[k] = v
		}
	}
	return merged
}

// partitionOverrides splits an override map into direct entries and dotted
// entries grouped by their first path segment. Grouping happens before any
// application, so sibling dotted keys ("author__name", "author__email")
// land in one sub-mapping for the "author" field. Remaining path segments
// stay joined; the nested resolution pass splits them again.
func partitionOverrides(ov Overrides) (direct map[string]any, grouped map[string]map[string]any, err error) {
	direct = make(map[string]any, len(ov))
	grouped = make(map[string]map[string]any)
	for k, v := range ov {
		head, rest, found := strings.Cut(k, PathSeparator)
		if !found {
			direct[k] = v
			continue
		}
		if head == "" || rest == "" {
			return nil, nil, NewInvalidOverrideError(k, "malformed override path")
		}
		g := grouped[head]
		if g == nil {
			g = make(map[string]any)
			grouped[head] = g
		}
		g[rest] = v
	}
	return direct, grouped, nil
}

// resolveOverrides validates the merged override map against the base
// definition and pairs every definition field with its direct override and
// sub-override group. Any override key naming a field absent from the
// definition fails with an UnknownFieldError.
func resolveOverrides(label string, fields []Field, ov Overrides) ([]resolvedField, error) {
	direct, grouped, err := partitionOverrides(ov)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.name] = struct{}{}
	}
	var unknown []string
	for k := range direct {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	for k := range grouped {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, NewUnknownFieldError(label, unknown[0])
	}
	resolved := make([]resolvedField, 0, len(fields))
	for _, f := range fields {
		rf := resolvedField{name: f.name, base: f}
		if v, ok := direct[f.name]; ok {
			rf.direct = v
			rf.hasDirect = true
		}
		if g, ok := grouped[f.name]; ok {
			rf.sub = g
		}
		resolved = append(resolved, rf)
	}
	return resolved, nil
}

// mergeSub merges a flat sub-override map with the dotted group for the
// same field. Both address the nested factory; on key collision the dotted
// entry wins.
func mergeSub(flat map[string]any, dotted map[string]any) map[string]any {
	if len(flat) == 0 {
		return dotted
	}
	merged := make(map[string]any, len(flat)+len(dotted))
	for k, v := range flat {
		merged[k] = v
	}
	for k, v := range dotted {
		merged[k] = v
	}
	return merged
}

// asOverrideMap normalizes the accepted map forms of sub-overrides.
func asOverrideMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Overrides:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}
