package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Box
		want  Box
		empty bool
	}{
		{
			name: "overlapping",
			a:    Box{X: 0, Y: 0, W: 10, H: 10},
			b:    Box{X: 5, Y: 5, W: 10, H: 10},
			want: Box{X: 5, Y: 5, W: 5, H: 5},
		},
		{
			name:  "edge touching is empty",
			a:     Box{X: 0, Y: 0, W: 10, H: 10},
			b:     Box{X: 10, Y: 0, W: 10, H: 10},
			empty: true,
		},
		{
			name:  "disjoint",
			a:     Box{X: 0, Y: 0, W: 1, H: 1},
			b:     Box{X: 100, Y: 100, W: 1, H: 1},
			empty: true,
		},
		{
			name:  "intersect with empty is empty",
			a:     Box{X: 0, Y: 0, W: 10, H: 10},
			b:     Box{},
			empty: true,
		},
		{
			name: "identical boxes are idempotent",
			a:    Box{X: 1, Y: 2, W: 3, H: 4},
			b:    Box{X: 1, Y: 2, W: 3, H: 4},
			want: Box{X: 1, Y: 2, W: 3, H: 4},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert := assert.New(t)

			got := Intersect(c.a, c.b)
			assert.Equal(c.empty, got.Empty())
			if !c.empty {
				assert.Equal(c.want, got)
			}
		})
	}
}

func TestIntersectCommutative(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	b := Box{X: 4, Y: 4, W: 10, H: 10}

	assert.Equal(t, Intersect(a, b), Intersect(b, a))
}

func TestIntersectAssociative(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	b := Box{X: 2, Y: 2, W: 10, H: 10}
	c := Box{X: 4, Y: 4, W: 10, H: 10}

	left := Intersect(Intersect(a, b), c)
	right := Intersect(a, Intersect(b, c))

	assert.Equal(t, left, right)
}

func TestIntersectWithEmptyIsEmpty(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	assert.True(t, Intersect(a, Box{}).Empty())
}
