package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID   int
	Name string
}

func TestRegister(t *testing.T) {
	reg := New[testItem]()

	t.Run("register valid item", func(t *testing.T) {
		require.NoError(t, reg.Register("Valid", testItem{ID: 1, Name: "valid"}))
		assert.Equal(t, 1, reg.Count())
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("  ", testItem{ID: 2})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("register duplicate differing only in case", func(t *testing.T) {
		err := reg.Register("VALID", testItem{ID: 3})
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	})
}

func TestGetIsCaseInsensitive(t *testing.T) {
	reg := New[testItem]()
	item := testItem{ID: 1, Name: "forcefix"}
	require.NoError(t, reg.Register("ForceFix", item))

	got, err := reg.Get(" FORCEFIX ")
	require.NoError(t, err)
	assert.Equal(t, item, got)

	_, err = reg.Get("fix")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, ok := reg.Lookup("forcefix")
	assert.True(t, ok)
	assert.True(t, reg.Has("forceFix"))
	assert.False(t, reg.Has(""))
}

func TestListKeepsRegistrationOrder(t *testing.T) {
	reg := New[testItem]()
	for i, name := range []string{"charlie", "Alpha", "bravo"} {
		require.NoError(t, reg.Register(name, testItem{ID: i}))
	}

	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, reg.List())

	// the returned slice is a copy
	list := reg.List()
	list[0] = "mutated"
	assert.Equal(t, "charlie", reg.List()[0])
}

func TestConcurrentAccess(t *testing.T) {
	reg := New[testItem]()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("item%d", id)
			_ = reg.Register(name, testItem{ID: id})
			_, _ = reg.Get(name)
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, reg.Count())
	assert.Len(t, reg.List(), 20)
}

func TestMustRegister(t *testing.T) {
	reg := New[testItem]()
	assert.NotPanics(t, func() { MustRegister(reg, "one", testItem{ID: 1}) })
	assert.Panics(t, func() { MustRegister(reg, "one", testItem{ID: 2}) })
}
