package fabrica

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/syssam/fabrica/faker"
	"github.com/syssam/fabrica/model"
)

// Client resolves factories against one model layer. Clients are cheap,
// immutable after construction, and safe for concurrent use when the
// underlying layer is.
type Client struct {
	layer    model.Layer
	registry *Registry
	logger   *slog.Logger
	provider func() *faker.Faker
}

// Option configures a Client.
type Option func(*Client)

// WithRegistry resolves identifier references and relation expansion
// against the given registry instead of the process-wide default.
func WithRegistry(r *Registry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// WithLogger sets the logger used for build and expansion events.
// The client logs at Debug level; the default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithProviderFunc sets the constructor invoked whenever a factory needs a
// value provider. Every bound factory and every nested child receives its
// own instance; factories implementing ConfigureProvider bypass it.
func WithProviderFunc(fn func() *faker.Faker) Option {
	return func(c *Client) {
		c.provider = fn
	}
}

// WithSeed makes factory output reproducible: the n-th provider the client
// hands out is seeded with seed+n, so identical build sequences yield
// identical values across runs.
func WithSeed(seed int64) Option {
	return func(c *Client) {
		var n atomic.Int64
		c.provider = func() *faker.Faker {
			return faker.NewSeeded(seed + n.Add(1) - 1)
		}
	}
}

// NewClient returns a client resolving factories against the given layer.
//
//	layer := memmodel.New()
//	layer.Register(model.Type{Name: "Post", Relations: []model.Relation{
//	    {Name: "comments", Type: "Comment", Field: "post"},
//	}})
//	client := fabrica.NewClient(layer)
//	post, err := client.Factory(PostFactory{}).Create(ctx)
//
// NewClient panics if layer is nil.
func NewClient(layer model.Layer, opts ...Option) *Client {
	if layer == nil {
		panic("fabrica: NewClient called with nil model layer")
	}
	c := &Client{
		layer:    layer,
		registry: defaultRegistry,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		provider: faker.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Debug returns a copy of the client that logs build and expansion events
// through slog.Default.
func (c *Client) Debug() *Client {
	nc := *c
	nc.logger = slog.Default()
	return &nc
}

// Layer returns the model layer the client resolves against.
func (c *Client) Layer() model.Layer {
	return c.layer
}

// Registry returns the registry the client resolves identifiers against.
func (c *Client) Registry() *Registry {
	return c.registry
}

// Factory binds a factory to the client. The returned builder owns a value
// provider of its own and carries no pending related requests.
func (c *Client) Factory(f Factory) *Builder {
	return &Builder{client: c, factory: f, gen: c.providerFor(f)}
}

// Lookup binds the factory registered under the given identifier.
func (c *Client) Lookup(identifier string) (*Builder, error) {
	f, err := c.registry.Lookup(identifier)
	if err != nil {
		return nil, err
	}
	return c.Factory(f), nil
}

// providerFor returns the provider a resolving unit owns: the factory's
// configured one when present, a fresh client-default one otherwise.
func (c *Client) providerFor(f Factory) *faker.Faker {
	if gen := f.ConfigureProvider(); gen != nil {
		return gen
	}
	return c.provider()
}
