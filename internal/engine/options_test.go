package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOptions(t *testing.T) {
	opts, err := DecodeOptions(KindRect, []byte(`{"left":10,"width":50,"height":20,"originX":0.25,"originY":"bottom"}`))
	require.NoError(t, err)
	assert.Equal(t, 10.0, opts.Left)
	assert.Equal(t, Origin("0.25"), opts.OriginX)
	assert.Equal(t, OriginBottom, opts.OriginY)
	assert.Equal(t, 12.0, opts.CornerSize, "defaults survive the overlay")
	assert.True(t, opts.Visible)

	opts, err = DecodeOptions(KindEllipse, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestDecodeOptionsRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		kind Kind
		data string
	}{
		{"unknown key", KindRect, `{"colour":"red"}`},
		{"negative width", KindRect, `{"width":-1}`},
		{"negative stroke", KindRect, `{"strokeWidth":-2}`},
		{"vertical name on x axis", KindRect, `{"originX":"top"}`},
		{"fraction out of range", KindRect, `{"originY":1.5}`},
		{"unknown kind", Kind("star"), `{}`},
		{"malformed", KindRect, `{"left":`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeOptions(tc.kind, []byte(tc.data))
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestOptionsJSONRoundTrip(t *testing.T) {
	s := New(KindRect, WithPosition(3, 4), WithOrigin(OriginAt(0.75), OriginCenter), WithCornerRadius(5, 6))
	data, err := json.Marshal(s.Options)
	require.NoError(t, err)

	got, err := DecodeOptions(KindRect, data)
	require.NoError(t, err)
	assert.Equal(t, s.Options, got)
}

func TestSetAndState(t *testing.T) {
	s := New(KindRect, WithSize(100, 100))
	s.SaveState()
	assert.False(t, s.HasStateChanged())

	require.NoError(t, s.Set("left", 42.0))
	assert.Equal(t, 42.0, s.Left)
	assert.InDelta(t, 42.5, s.Coords.TL.X, 1e-9, "coordinates follow Set")
	assert.True(t, s.HasStateChanged())

	s.RestoreState()
	assert.Equal(t, 0.0, s.Left)
	assert.False(t, s.HasStateChanged())

	// Non-state properties do not count as changes.
	s.Padding = 4
	assert.False(t, s.HasStateChanged())

	require.NoError(t, s.Set("rx", 3.0))
	assert.True(t, s.HasStateChanged(), "rect radii are state")
}

func TestSetRejects(t *testing.T) {
	s := New(KindRect, WithSize(100, 100))

	assert.ErrorIs(t, s.Set("nope", 1.0), ErrInvalidOptions)
	assert.ErrorIs(t, s.Set("width", "wide"), ErrInvalidOptions)
	assert.ErrorIs(t, s.SetAll(map[string]any{"left": 5.0, "width": -1.0}), ErrInvalidOptions)
	assert.Equal(t, 0.0, s.Left, "a failed SetAll changes nothing")
	assert.Equal(t, 100.0, s.Width)

	require.NoError(t, s.Set("originX", 0.5))
	assert.Equal(t, Origin("0.5"), s.OriginX)
}

func TestToObject(t *testing.T) {
	s := New(KindRect,
		WithPosition(10.456, -3.333),
		WithSize(100.005, 50),
		WithAngle(12.3456),
		WithCornerRadius(4, 5),
	)
	obj := s.ToObject("cornerSize", "nope")

	assert.Equal(t, "rect", obj["type"])
	assert.Equal(t, 10.46, obj["left"])
	assert.Equal(t, -3.33, obj["top"])
	assert.Equal(t, 12.35, obj["angle"])
	assert.Equal(t, "left", obj["originX"])
	assert.Equal(t, 1.0, obj["strokeWidth"])
	assert.Equal(t, 4.0, obj["rx"])
	assert.Equal(t, 5.0, obj["ry"])
	assert.Equal(t, 12.0, obj["cornerSize"])
	assert.NotContains(t, obj, "nope")

	ellipse := New(KindEllipse).ToObject()
	assert.NotContains(t, ellipse, "rx")
	assert.Len(t, ellipse, 19)
}

func TestToObjectRoundsEveryNumber(t *testing.T) {
	s := New(KindRect,
		WithCornerRadius(4.4444, 5.5555),
		WithStroke("black", 1.005),
		WithSkew(10.123, 0),
	)
	obj := s.ToObject("skewX", "stroke")

	assert.Equal(t, 4.44, obj["rx"])
	assert.Equal(t, 5.56, obj["ry"])
	assert.Equal(t, 1.0, obj["strokeWidth"])
	assert.Equal(t, 10.12, obj["skewX"])
	assert.Equal(t, "black", obj["stroke"])
}
