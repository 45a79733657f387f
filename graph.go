package fabrica

import (
	"context"
	"fmt"
	"slices"

	"github.com/syssam/fabrica/faker"
	"github.com/syssam/fabrica/model"
)

// buildOne executes one resolution pass for a single factory: evaluate the
// definition, apply overrides, resolve every field (recursing into nested
// factories with the same op), construct the instance through the layer,
// and persist it when the op is OpCreate. Dependencies are always resolved,
// and persisted, before the instance that needs them.
//
// gen is the provider of the resolving unit; nil means the unit is a nested
// child and receives a fresh provider of its own.
func (c *Client) buildOne(ctx context.Context, f Factory, gen *faker.Faker, ovs []Overrides, op Op) (model.Instance, error) {
	label := factoryLabel(f)
	name := f.Model()
	if name == "" {
		return nil, NewDefinitionError(label, "", "no model name declared")
	}
	if gen == nil {
		gen = c.providerFor(f)
	}
	fields, err := evaluateDefinition(f, gen, label)
	if err != nil {
		return nil, err
	}
	resolved, err := resolveOverrides(label, fields, mergeOverrides(ovs))
	if err != nil {
		return nil, err
	}
	values := make([]model.Field, 0, len(resolved))
	for _, rf := range resolved {
		v, err := c.fieldValue(ctx, label, rf, op)
		if err != nil {
			return nil, err
		}
		values = append(values, model.Field{Name: rf.name, Value: v})
	}
	inst, err := c.layer.New(name, values)
	if err != nil {
		return nil, err
	}
	if op == OpCreate {
		// Persistence errors surface verbatim; the engine neither wraps
		// nor interprets them, and already persisted children stay put.
		if err := c.layer.Save(ctx, inst); err != nil {
			return nil, err
		}
	}
	c.logger.Debug("built instance", "factory", label, "model", name, "op", op.String(), "id", inst.ID())
	return inst, nil
}

// fieldValue produces the final value of one resolved field.
//
// A direct override wins entirely when it is a literal or an instance; any
// path sub-overrides for the field are then discarded. Factory-valued and
// map-valued direct overrides keep the nested resolution alive, with path
// entries merged over flat ones per key.
func (c *Client) fieldValue(ctx context.Context, label string, rf resolvedField, op Op) (any, error) {
	if rf.hasDirect {
		direct := rf.direct
		if fn, ok := direct.(func() any); ok {
			direct = fn()
		}
		switch v := direct.(type) {
		case model.Instance:
			return v, nil
		case Factory:
			return c.buildChild(ctx, v, rf.sub, op)
		default:
			if flat, ok := asOverrideMap(direct); ok {
				_, fac, err := c.baseValue(label, rf.base)
				if err != nil {
					return nil, err
				}
				if fac != nil {
					return c.buildChild(ctx, fac, mergeSub(flat, rf.sub), op)
				}
				if len(rf.sub) > 0 {
					return nil, NewInvalidOverrideError(rf.name, "path overrides target a non-reference field")
				}
				// Literal map value for a plain field.
				return direct, nil
			}
			return v, nil
		}
	}
	base, fac, err := c.baseValue(label, rf.base)
	if err != nil {
		return nil, err
	}
	if fac != nil {
		return c.buildChild(ctx, fac, rf.sub, op)
	}
	if len(rf.sub) > 0 {
		return nil, NewInvalidOverrideError(rf.name, "path overrides target a non-reference field")
	}
	return base, nil
}

// baseValue evaluates a definition entry. Lazy functions run here, once per
// resolution pass, and reference targets resolve through the registry. A
// non-nil Factory return means the field is a nested reference.
func (c *Client) baseValue(label string, f Field) (any, Factory, error) {
	var v any
	switch f.kind {
	case kindValue:
		v = f.val
	case kindLazy:
		if f.fn == nil {
			return nil, nil, NewDefinitionError(label, f.name, "nil function in lazy field")
		}
		v = f.fn()
	case kindRef:
		if f.ref == nil {
			return nil, nil, NewDefinitionError(label, f.name, "nil factory reference")
		}
		fac, err := c.factoryFor(label, f.name, f.ref)
		if err != nil {
			return nil, nil, err
		}
		return nil, fac, nil
	}
	if fn, ok := v.(func() any); ok {
		v = fn()
	}
	if fac, ok := v.(Factory); ok {
		return nil, fac, nil
	}
	return v, nil, nil
}

// factoryFor resolves a reference target to a factory. String targets are
// registry identifiers and resolve lazily, at build time.
func (c *Client) factoryFor(label, field string, ref any) (Factory, error) {
	switch t := ref.(type) {
	case Factory:
		return t, nil
	case string:
		return c.registry.Lookup(t)
	default:
		return nil, NewDefinitionError(label, field, fmt.Sprintf("invalid factory reference type %T", ref))
	}
}

// buildChild resolves a nested factory with the given sub-overrides,
// inheriting the parent's op. Children own fresh providers; random state is
// never shared between factory instances.
func (c *Client) buildChild(ctx context.Context, f Factory, sub map[string]any, op Op) (model.Instance, error) {
	var ovs []Overrides
	if len(sub) > 0 {
		ovs = []Overrides{Overrides(sub)}
	}
	return c.buildOne(ctx, f, nil, ovs, op)
}

// relatedRequest is one pending Has registration on a builder.
type relatedRequest struct {
	relation  string
	amount    int
	overrides []Overrides
}

// expand builds the children requested through Has and HasMany, in
// registration order, and attaches them to the parent under their relation
// names. Every child is built with a forced foreign-key override binding it
// to the parent; the forced entry wins over caller-supplied values for the
// same field. Re-running a builder expands a fresh set of children.
func (c *Client) expand(ctx context.Context, parent model.Instance, parentModel string, reqs []relatedRequest, op Op) error {
	for _, req := range reqs {
		rel, err := c.layer.Relation(parentModel, req.relation)
		if err != nil {
			return err
		}
		child, err := c.registry.ForModel(rel.Type)
		if err != nil {
			return err
		}
		forced := Overrides{rel.Field: parent}
		ovs := append(slices.Clone(req.overrides), forced)
		for i := 0; i < req.amount; i++ {
			inst, err := c.buildOne(ctx, child, nil, ovs, op)
			if err != nil {
				return err
			}
			parent.AttachRelated(req.relation, inst)
		}
		c.logger.Debug("expanded relation", "model", parentModel, "relation", req.relation, "amount", req.amount, "op", op.String())
	}
	return nil
}
