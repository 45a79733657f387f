package fabrica_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fabrica"
)

// TestRegistry tests identifier and model-keyed factory lookup.
func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("RegisterAndLookup", func(t *testing.T) {
		t.Parallel()

		reg := fabrica.NewRegistry()
		reg.Register("blog.UserFactory", userFactory{})

		f, err := reg.Lookup("blog.UserFactory")
		require.NoError(t, err)
		assert.IsType(t, userFactory{}, f)
	})

	t.Run("LookupMiss", func(t *testing.T) {
		t.Parallel()

		reg := fabrica.NewRegistry()
		_, err := reg.Lookup("blog.UserFactory")
		require.Error(t, err)
		assert.True(t, fabrica.IsFactoryNotFound(err))
		assert.EqualError(t, err, `fabrica: factory "blog.UserFactory" not found`)
	})

	t.Run("RegisterOverwrites", func(t *testing.T) {
		t.Parallel()

		reg := fabrica.NewRegistry()
		reg.Register("blog.UserFactory", userFactory{})
		reg.Register("blog.UserFactory", adminFactory{})

		f, err := reg.Lookup("blog.UserFactory")
		require.NoError(t, err)
		assert.IsType(t, adminFactory{}, f)
	})

	t.Run("ForModel", func(t *testing.T) {
		t.Parallel()

		reg := fabrica.NewRegistry()
		reg.Register("blog.UserFactory", userFactory{})

		f, err := reg.ForModel("User")
		require.NoError(t, err)
		assert.IsType(t, userFactory{}, f)
	})

	t.Run("ForModelMiss", func(t *testing.T) {
		t.Parallel()

		reg := fabrica.NewRegistry()
		_, err := reg.ForModel("User")
		require.Error(t, err)
		assert.True(t, fabrica.IsFactoryNotFound(err))
		assert.EqualError(t, err, `fabrica: no factory registered for model "User"`)
	})

	t.Run("ForModelLastRegisteredWins", func(t *testing.T) {
		t.Parallel()

		// userFactory and adminFactory both target User.
		reg := fabrica.NewRegistry()
		reg.Register("blog.UserFactory", userFactory{})
		reg.Register("blog.AdminFactory", adminFactory{})

		f, err := reg.ForModel("User")
		require.NoError(t, err)
		assert.IsType(t, adminFactory{}, f)
	})

	t.Run("Identifiers", func(t *testing.T) {
		t.Parallel()

		reg := fabrica.NewRegistry()
		reg.Register("blog.UserFactory", userFactory{})
		reg.Register("blog.CommentFactory", commentFactory{})
		reg.Register("blog.PostFactory", postFactory{})

		assert.Equal(t, []string{
			"blog.CommentFactory",
			"blog.PostFactory",
			"blog.UserFactory",
		}, reg.Identifiers())
	})
}

// TestDefaultRegistry tests the process-wide registry and the package-level
// registration functions backed by it.
func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	// Unique identifier: the default registry is shared process state.
	fabrica.Register("registrytest.UserFactory", userFactory{})

	f, err := fabrica.Lookup("registrytest.UserFactory")
	require.NoError(t, err)
	assert.IsType(t, userFactory{}, f)

	f, err = fabrica.DefaultRegistry().Lookup("registrytest.UserFactory")
	require.NoError(t, err)
	assert.IsType(t, userFactory{}, f)

	_, err = fabrica.Lookup("registrytest.Missing")
	require.Error(t, err)
	assert.True(t, fabrica.IsFactoryNotFound(err))
}
