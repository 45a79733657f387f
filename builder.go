package fabrica

import (
	"context"
	"slices"

	"github.com/syssam/fabrica/faker"
	"github.com/syssam/fabrica/model"
)

// Builder is a factory bound to a client, ready to build instances.
//
// Has, HasMany and Sequence return derived builders; the receiver is never
// mutated, so a builder can be shared and branched freely:
//
//	posts := client.Factory(PostFactory{})
//	discussed := posts.HasMany("comments", 3)
//
//	draft, err := posts.Make()
//	published, err := discussed.Create(ctx, fabrica.Overrides{"title": "Hello"})
//
// Derived builders share the owned value provider; the graph builder hands
// fresh providers to nested children.
type Builder struct {
	client   *Client
	factory  Factory
	gen      *faker.Faker
	related  []relatedRequest
	sequence []Overrides
}

// Factory returns the factory the builder is bound to.
func (b *Builder) Factory() Factory {
	return b.factory
}

func (b *Builder) clone() *Builder {
	nb := *b
	nb.related = slices.Clone(b.related)
	nb.sequence = slices.Clone(b.sequence)
	return &nb
}

// Has registers one related child to generate per build, resolved through
// the named reverse relation. The returned builder is derived; the receiver
// keeps its own request list.
func (b *Builder) Has(relation string, ov ...Overrides) *Builder {
	return b.HasMany(relation, 1, ov...)
}

// HasMany registers amount related children to generate per build.
// Children are built after the parent resolves, in registration order,
// with a forced foreign-key override binding them to the parent. An amount
// of zero or less registers nothing to expand.
func (b *Builder) HasMany(relation string, amount int, ov ...Overrides) *Builder {
	nb := b.clone()
	nb.related = append(nb.related, relatedRequest{
		relation:  relation,
		amount:    amount,
		overrides: slices.Clone(ov),
	})
	return nb
}

// Sequence sets per-item overrides for batch operations: the i-th instance
// of a batch additionally receives seq[i%len(seq)], which wins over the
// overrides shared by the whole batch.
func (b *Builder) Sequence(seq ...Overrides) *Builder {
	nb := b.clone()
	nb.sequence = slices.Clone(seq)
	return nb
}

// Make resolves the factory into a transient instance. Nothing in the
// graph is persisted: nested factories and has-expanded children are made
// transiently as well.
func (b *Builder) Make(ov ...Overrides) (model.Instance, error) {
	return b.run(context.Background(), OpMake, ov)
}

// Create resolves the factory and persists the whole graph bottom-up:
// nested dependencies first, then the instance itself, then has-expanded
// children. On failure the error is returned as-is and instances already
// persisted stay persisted; callers needing atomicity run Create inside
// their own transaction boundary.
func (b *Builder) Create(ctx context.Context, ov ...Overrides) (model.Instance, error) {
	return b.run(ctx, OpCreate, ov)
}

// MakeBatch makes n transient instances, applying the builder sequence if
// one is set.
func (b *Builder) MakeBatch(n int, ov ...Overrides) ([]model.Instance, error) {
	return b.runBatch(context.Background(), OpMake, n, ov)
}

// CreateBatch creates n instances, applying the builder sequence if one is
// set. Instances persisted before a failure stay persisted.
func (b *Builder) CreateBatch(ctx context.Context, n int, ov ...Overrides) ([]model.Instance, error) {
	return b.runBatch(ctx, OpCreate, n, ov)
}

func (b *Builder) run(ctx context.Context, op Op, ovs []Overrides) (model.Instance, error) {
	inst, err := b.client.buildOne(ctx, b.factory, b.gen, ovs, op)
	if err != nil {
		return nil, err
	}
	if len(b.related) > 0 {
		if err := b.client.expand(ctx, inst, b.factory.Model(), b.related, op); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (b *Builder) runBatch(ctx context.Context, op Op, n int, ovs []Overrides) ([]model.Instance, error) {
	insts := make([]model.Instance, 0, max(n, 0))
	for i := 0; i < n; i++ {
		itemOvs := ovs
		if len(b.sequence) > 0 {
			itemOvs = append(slices.Clone(ovs), b.sequence[i%len(b.sequence)])
		}
		inst, err := b.run(ctx, op, itemOvs)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, nil
}
