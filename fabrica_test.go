package fabrica_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/fabrica"
	"github.com/syssam/fabrica/faker"
)

// TestBaseDefaultMethods tests the default implementations of Factory methods.
func TestBaseDefaultMethods(t *testing.T) {
	t.Parallel()

	type TestFactory struct {
		fabrica.Base
	}

	f := TestFactory{}

	// All default implementations should return empty or nil values
	assert.Empty(t, f.Model())
	assert.Nil(t, f.Definition(faker.New()))
	assert.Nil(t, f.Mixin())
	assert.Nil(t, f.ConfigureProvider())
}

// TestBaseImplementsInterface tests that Base satisfies the Factory interface.
func TestBaseImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ fabrica.Factory = fabrica.Base{}
	var _ fabrica.Factory = &fabrica.Base{}
}

// TestOpString tests the Op.String method.
func TestOpString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op       fabrica.Op
		expected string
	}{
		{fabrica.OpMake, "make"},
		{fabrica.OpCreate, "create"},
		{fabrica.Op(42), "Op(42)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.op.String())
		})
	}
}

// TestFieldConstructors tests the definition field constructors.
func TestFieldConstructors(t *testing.T) {
	t.Parallel()

	t.Run("Value", func(t *testing.T) {
		t.Parallel()

		f := fabrica.Value("title", "Hello")
		assert.Equal(t, "title", f.Name())
	})

	t.Run("Lazy", func(t *testing.T) {
		t.Parallel()

		f := fabrica.Lazy("body", func() any { return "text" })
		assert.Equal(t, "body", f.Name())
	})

	t.Run("Ref", func(t *testing.T) {
		t.Parallel()

		f := fabrica.Ref("author", "blog.UserFactory")
		assert.Equal(t, "author", f.Name())
	})
}
