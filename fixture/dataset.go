package fixture

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/fabrica"
	"github.com/syssam/fabrica/model"
)

// HasRequest is one reverse-relation expansion of a dataset entry.
type HasRequest struct {
	Relation  string         `yaml:"relation"`
	Amount    int            `yaml:"amount"`
	Overrides map[string]any `yaml:"overrides"`
}

// Entry seeds one factory a number of times. Override keys support the
// same double-underscore paths the engine accepts, so nested factory
// fields are addressable straight from YAML.
type Entry struct {
	Factory   string           `yaml:"factory"`
	Amount    int              `yaml:"amount"`
	Overrides map[string]any   `yaml:"overrides"`
	Sequence  []map[string]any `yaml:"sequence"`
	Has       []HasRequest     `yaml:"has"`
}

// Dataset is a declarative seeding plan:
//
//	entries:
//	  - factory: blog.UserFactory
//	    amount: 2
//	  - factory: blog.PostFactory
//	    overrides:
//	      title: Pinned
//	      author__name: Ada
//	    has:
//	      - relation: comments
//	        amount: 3
type Dataset struct {
	Entries []Entry `yaml:"entries"`
}

// Load decodes a dataset from YAML. Unknown document fields are rejected;
// omitted amounts default to 1.
func Load(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Dataset
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("fixture: decoding dataset: %w", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile decodes a dataset from a YAML file.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// normalize validates entries and fills in default amounts.
func (d *Dataset) normalize() error {
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.Factory == "" {
			return fmt.Errorf("fixture: entry %d: missing factory identifier", i)
		}
		if e.Amount < 0 {
			return fmt.Errorf("fixture: entry %d: negative amount %d", i, e.Amount)
		}
		if e.Amount == 0 {
			e.Amount = 1
		}
		for j := range e.Has {
			h := &e.Has[j]
			if h.Relation == "" {
				return fmt.Errorf("fixture: entry %d: has request %d: missing relation", i, j)
			}
			if h.Amount < 0 {
				return fmt.Errorf("fixture: entry %d: relation %q: negative amount %d", i, h.Relation, h.Amount)
			}
			if h.Amount == 0 {
				h.Amount = 1
			}
		}
	}
	return nil
}

// Apply creates every entry in order through the client's registry and
// returns the created parent instances, amounts expanded, in entry order.
func (d *Dataset) Apply(ctx context.Context, c *fabrica.Client) ([]model.Instance, error) {
	var out []model.Instance
	for i := range d.Entries {
		insts, err := applyEntry(ctx, c, &d.Entries[i])
		if err != nil {
			return nil, err
		}
		out = append(out, insts...)
	}
	return out, nil
}

// ApplyConcurrent creates entries concurrently with at most limit in
// flight; limit <= 0 means unbounded. Entries must not depend on one
// another, and the model layer must tolerate concurrent saves. Results
// come back grouped in entry order regardless of completion order.
func (d *Dataset) ApplyConcurrent(ctx context.Context, c *fabrica.Client, limit int) ([]model.Instance, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	results := make([][]model.Instance, len(d.Entries))
	for i := range d.Entries {
		i := i
		g.Go(func() error {
			insts, err := applyEntry(ctx, c, &d.Entries[i])
			if err != nil {
				return err
			}
			results[i] = insts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []model.Instance
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func applyEntry(ctx context.Context, c *fabrica.Client, e *Entry) ([]model.Instance, error) {
	b, err := c.Lookup(e.Factory)
	if err != nil {
		return nil, err
	}
	for _, h := range e.Has {
		var ov []fabrica.Overrides
		if len(h.Overrides) > 0 {
			ov = append(ov, fabrica.Overrides(h.Overrides))
		}
		b = b.HasMany(h.Relation, h.Amount, ov...)
	}
	if len(e.Sequence) > 0 {
		seq := make([]fabrica.Overrides, len(e.Sequence))
		for i, s := range e.Sequence {
			seq[i] = fabrica.Overrides(s)
		}
		b = b.Sequence(seq...)
	}
	var ov []fabrica.Overrides
	if len(e.Overrides) > 0 {
		ov = append(ov, fabrica.Overrides(e.Overrides))
	}
	return b.CreateBatch(ctx, e.Amount, ov...)
}
