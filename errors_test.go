package fabrica_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/fabrica"
	"github.com/syssam/fabrica/model"
)

func TestUnknownFieldError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := fabrica.NewUnknownFieldError("blog.PostFactory", "color")
		assert.Equal(t, `fabrica: unknown field "color" in overrides for factory "blog.PostFactory"`, err.Error())
	})

	t.Run("Accessors", func(t *testing.T) {
		err := fabrica.NewUnknownFieldError("blog.PostFactory", "color")
		assert.Equal(t, "blog.PostFactory", err.Factory())
		assert.Equal(t, "color", err.Field())
	})

	t.Run("Is", func(t *testing.T) {
		err := fabrica.NewUnknownFieldError("blog.PostFactory", "color")
		assert.True(t, errors.Is(err, fabrica.ErrUnknownField))
	})

	t.Run("IsUnknownField", func(t *testing.T) {
		err := fabrica.NewUnknownFieldError("blog.CommentFactory", "mood")
		assert.True(t, fabrica.IsUnknownField(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, fabrica.IsUnknownField(wrapped))

		// Sentinel error
		assert.True(t, fabrica.IsUnknownField(fabrica.ErrUnknownField))

		// Non-matching error
		assert.False(t, fabrica.IsUnknownField(errors.New("other error")))
		assert.False(t, fabrica.IsUnknownField(nil))
	})
}

func TestFactoryNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := fabrica.NewFactoryNotFoundError("blog.GhostFactory")
		assert.Equal(t, `fabrica: factory "blog.GhostFactory" not found`, err.Error())
	})

	t.Run("ErrorForModel", func(t *testing.T) {
		err := fabrica.NewFactoryNotFoundErrorForModel("Ghost")
		assert.Equal(t, `fabrica: no factory registered for model "Ghost"`, err.Error())
	})

	t.Run("Accessors", func(t *testing.T) {
		err := fabrica.NewFactoryNotFoundError("blog.GhostFactory")
		assert.Equal(t, "blog.GhostFactory", err.Identifier())
		assert.Empty(t, err.Model())

		err = fabrica.NewFactoryNotFoundErrorForModel("Ghost")
		assert.Equal(t, "Ghost", err.Model())
		assert.Empty(t, err.Identifier())
	})

	t.Run("Is", func(t *testing.T) {
		err := fabrica.NewFactoryNotFoundError("blog.GhostFactory")
		assert.True(t, errors.Is(err, fabrica.ErrFactoryNotFound))
	})

	t.Run("IsFactoryNotFound", func(t *testing.T) {
		err := fabrica.NewFactoryNotFoundErrorForModel("Ghost")
		assert.True(t, fabrica.IsFactoryNotFound(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, fabrica.IsFactoryNotFound(wrapped))

		// Sentinel error
		assert.True(t, fabrica.IsFactoryNotFound(fabrica.ErrFactoryNotFound))

		// Non-matching error
		assert.False(t, fabrica.IsFactoryNotFound(errors.New("other error")))
		assert.False(t, fabrica.IsFactoryNotFound(nil))
	})
}

func TestRelationNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := model.NewRelationNotFoundError("Post", "likes")
		assert.Equal(t, `fabrica: relation "likes" not found on model "Post"`, err.Error())
	})

	t.Run("Accessors", func(t *testing.T) {
		err := model.NewRelationNotFoundError("Post", "likes")
		assert.Equal(t, "Post", err.Model())
		assert.Equal(t, "likes", err.Relation())
	})

	t.Run("Is", func(t *testing.T) {
		err := model.NewRelationNotFoundError("Post", "likes")
		assert.True(t, errors.Is(err, fabrica.ErrRelationNotFound))
		assert.True(t, errors.Is(err, model.ErrRelationNotFound))
	})

	t.Run("IsRelationNotFound", func(t *testing.T) {
		// The root predicate and the model predicate see the same type.
		var err error = model.NewRelationNotFoundError("Post", "likes")
		assert.True(t, fabrica.IsRelationNotFound(err))
		assert.True(t, model.IsRelationNotFound(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, fabrica.IsRelationNotFound(wrapped))

		// Sentinel error
		assert.True(t, fabrica.IsRelationNotFound(fabrica.ErrRelationNotFound))

		// Non-matching error
		assert.False(t, fabrica.IsRelationNotFound(errors.New("other error")))
		assert.False(t, fabrica.IsRelationNotFound(nil))
	})
}

func TestDefinitionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := fabrica.NewDefinitionError("blog.PostFactory", "", "no fields declared")
		assert.Equal(t, `fabrica: invalid definition for factory "blog.PostFactory": no fields declared`, err.Error())
	})

	t.Run("ErrorWithField", func(t *testing.T) {
		err := fabrica.NewDefinitionError("blog.PostFactory", "author", "nil factory reference")
		assert.Equal(t, `fabrica: invalid definition for factory "blog.PostFactory": field "author": nil factory reference`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("boom")
		err := &fabrica.DefinitionError{Factory: "blog.PostFactory", Message: "hook failed", Err: underlying}
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("Is", func(t *testing.T) {
		err := fabrica.NewDefinitionError("blog.PostFactory", "", "no fields declared")
		assert.True(t, errors.Is(err, fabrica.ErrInvalidDefinition))
	})

	t.Run("IsDefinitionError", func(t *testing.T) {
		err := fabrica.NewDefinitionError("blog.PostFactory", "", "no fields declared")
		assert.True(t, fabrica.IsDefinitionError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, fabrica.IsDefinitionError(wrapped))

		// Sentinel error
		assert.True(t, fabrica.IsDefinitionError(fabrica.ErrInvalidDefinition))

		// Non-matching error
		assert.False(t, fabrica.IsDefinitionError(errors.New("other error")))
		assert.False(t, fabrica.IsDefinitionError(nil))
	})
}

func TestInvalidOverrideError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := fabrica.NewInvalidOverrideError("title", "path overrides target a non-reference field")
		assert.Equal(t, `fabrica: invalid override for field "title": path overrides target a non-reference field`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := fabrica.NewInvalidOverrideError("title", "malformed override path")
		assert.True(t, errors.Is(err, fabrica.ErrInvalidOverride))
	})

	t.Run("IsInvalidOverride", func(t *testing.T) {
		err := fabrica.NewInvalidOverrideError("title", "malformed override path")
		assert.True(t, fabrica.IsInvalidOverride(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, fabrica.IsInvalidOverride(wrapped))

		// Sentinel error
		assert.True(t, fabrica.IsInvalidOverride(fabrica.ErrInvalidOverride))

		// Non-matching error
		assert.False(t, fabrica.IsInvalidOverride(errors.New("other error")))
		assert.False(t, fabrica.IsInvalidOverride(nil))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrUnknownField", func(t *testing.T) {
		assert.Error(t, fabrica.ErrUnknownField)
		assert.Contains(t, fabrica.ErrUnknownField.Error(), "unknown field")
	})

	t.Run("ErrFactoryNotFound", func(t *testing.T) {
		assert.Error(t, fabrica.ErrFactoryNotFound)
		assert.Contains(t, fabrica.ErrFactoryNotFound.Error(), "factory not found")
	})

	t.Run("ErrRelationNotFound", func(t *testing.T) {
		assert.Error(t, fabrica.ErrRelationNotFound)
		assert.Contains(t, fabrica.ErrRelationNotFound.Error(), "relation not found")
	})

	t.Run("ErrInvalidDefinition", func(t *testing.T) {
		assert.Error(t, fabrica.ErrInvalidDefinition)
		assert.Contains(t, fabrica.ErrInvalidDefinition.Error(), "invalid definition")
	})

	t.Run("ErrInvalidOverride", func(t *testing.T) {
		assert.Error(t, fabrica.ErrInvalidOverride)
		assert.Contains(t, fabrica.ErrInvalidOverride.Error(), "invalid override")
	})
}

// BenchmarkErrors benchmarks error creation and checking.
func BenchmarkErrors(b *testing.B) {
	b.Run("NewUnknownFieldError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = fabrica.NewUnknownFieldError("blog.PostFactory", "color")
		}
	})

	b.Run("IsUnknownField", func(b *testing.B) {
		err := fabrica.NewUnknownFieldError("blog.PostFactory", "color")
		for i := 0; i < b.N; i++ {
			_ = fabrica.IsUnknownField(err)
		}
	})

	b.Run("NewFactoryNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = fabrica.NewFactoryNotFoundError("blog.GhostFactory")
		}
	})

	b.Run("IsFactoryNotFound", func(b *testing.B) {
		err := fabrica.NewFactoryNotFoundError("blog.GhostFactory")
		for i := 0; i < b.N; i++ {
			_ = fabrica.IsFactoryNotFound(err)
		}
	})
}
