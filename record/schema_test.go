package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema_Validation(t *testing.T) {
	idCol := Column[*widget]{
		Name: "id",
		Get:  func(w *widget) (any, bool) { return Value(w.id) },
		Set:  func(w *widget, v any) error { return SetInt64(&w.id, v) },
	}

	_, err := NewSchema("bad table", idCol)
	assert.Error(t, err)

	_, err = NewSchema[*widget]("widgets")
	assert.Error(t, err, "schema without id column")

	_, err = NewSchema("widgets", idCol, idCol)
	assert.Error(t, err, "duplicate column")

	_, err = NewSchema("widgets", idCol, Column[*widget]{Name: "name"})
	assert.Error(t, err, "column without accessors")

	s, err := NewSchema("widgets", idCol)
	require.NoError(t, err)
	assert.Equal(t, "widgets", s.Table())
	assert.Equal(t, []string{"id"}, s.Columns())
	assert.True(t, s.Has("id"))
	assert.False(t, s.Has("name"))

	assert.Panics(t, func() { MustSchema[*widget]("widgets") })
}

func TestSetInt64(t *testing.T) {
	var p *int64
	for _, v := range []any{int64(4), 4, int32(4), float64(4), "4", []byte("4")} {
		p = nil
		require.NoError(t, SetInt64(&p, v), "%T", v)
		assert.Equal(t, int64(4), *p)
	}
	require.NoError(t, SetInt64(&p, nil))
	assert.Nil(t, p)

	for _, v := range []any{4.5, "four", true} {
		assert.ErrorIs(t, SetInt64(&p, v), ErrBadValue, "%v", v)
	}
}

func TestSetString(t *testing.T) {
	var p *string
	require.NoError(t, SetString(&p, []byte("a@x.com")))
	assert.Equal(t, "a@x.com", *p)
	require.NoError(t, SetString(&p, nil))
	assert.Nil(t, p)
	assert.ErrorIs(t, SetString(&p, 12), ErrBadValue)
}

func TestValue(t *testing.T) {
	v, ok := Value[string](nil)
	assert.False(t, ok)
	assert.Nil(t, v)

	s := "x"
	v, ok = Value(&s)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}
