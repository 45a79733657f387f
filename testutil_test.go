package fabrica_test

import (
	"github.com/syssam/fabrica"
	"github.com/syssam/fabrica/faker"
	"github.com/syssam/fabrica/model"
	"github.com/syssam/fabrica/model/memmodel"
)

// The blog domain used across the engine tests: users write posts,
// posts receive comments, users carry one profile.

type userFactory struct {
	fabrica.Base
}

func (userFactory) Model() string { return "User" }

func (userFactory) Definition(gen *faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("name", gen.Name()),
		fabrica.Value("email", gen.Email()),
	}
}

type postFactory struct {
	fabrica.Base
}

func (postFactory) Model() string { return "Post" }

func (postFactory) Definition(gen *faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("title", gen.Sentence(3)),
		fabrica.Lazy("body", func() any { return gen.Paragraphs(1) }),
		fabrica.Ref("author", userFactory{}),
	}
}

type commentFactory struct {
	fabrica.Base
}

func (commentFactory) Model() string { return "Comment" }

func (commentFactory) Definition(gen *faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("text", gen.Sentence(5)),
		fabrica.Ref("post", postFactory{}),
	}
}

type profileFactory struct {
	fabrica.Base
}

func (profileFactory) Model() string { return "Profile" }

func (profileFactory) Definition(gen *faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("bio", gen.Sentence(8)),
		fabrica.Ref("user", userFactory{}),
	}
}

// adminFactory targets the User model with fixed values. It stays
// unregistered; tests pass it by value.
type adminFactory struct {
	fabrica.Base
}

func (adminFactory) Model() string { return "User" }

func (adminFactory) Definition(*faker.Faker) []fabrica.Field {
	return []fabrica.Field{
		fabrica.Value("name", "Admin"),
		fabrica.Value("email", "admin@example.com"),
	}
}

func newBlogLayer() *memmodel.Layer {
	layer := memmodel.New()
	layer.Register(
		model.Type{Name: "User", Relations: []model.Relation{
			{Name: "posts", Type: "Post", Field: "author"},
			{Name: "profile", Type: "Profile", Field: "user"},
		}},
		model.Type{Name: "Post", Relations: []model.Relation{
			{Name: "comments", Type: "Comment", Field: "post"},
		}},
		model.Type{Name: "Comment"},
		model.Type{Name: "Profile"},
	)
	return layer
}

func newBlogRegistry() *fabrica.Registry {
	reg := fabrica.NewRegistry()
	reg.Register("blog.UserFactory", userFactory{})
	reg.Register("blog.PostFactory", postFactory{})
	reg.Register("blog.CommentFactory", commentFactory{})
	reg.Register("blog.ProfileFactory", profileFactory{})
	return reg
}

func newBlogClient() (*fabrica.Client, *memmodel.Layer) {
	layer := newBlogLayer()
	return fabrica.NewClient(layer, fabrica.WithRegistry(newBlogRegistry())), layer
}
