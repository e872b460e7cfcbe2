package sphericalharmonics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestACNRoundTrip(t *testing.T) {
	cases := []struct {
		degree, order int
	}{
		{0, 0}, {1, -1}, {1, 0}, {1, 1}, {2, -2}, {2, 2}, {4, -4}, {5, 2},
	}
	for _, c := range cases {
		acn := ACN(c.degree, c.order)
		gotDegree, gotOrder := DegreeOrderForACN(acn)
		assert.Equal(t, c.degree, gotDegree, "degree for acn %d", acn)
		assert.Equal(t, c.order, gotOrder, "order for acn %d", acn)
	}
}

func TestDegreeOrderForACNFixtures(t *testing.T) {
	acns := []int{0, 1, 4, 8, 16, 32}
	expectedDegrees := []int{0, 1, 2, 2, 4, 5}
	expectedOrders := []int{0, -1, -2, 2, -4, 2}
	for i, acn := range acns {
		degree, order := DegreeOrderForACN(acn)
		assert.Equal(t, expectedDegrees[i], degree, "acn %d", acn)
		assert.Equal(t, expectedOrders[i], order, "acn %d", acn)
	}
}

func TestIsValidAmbisonicOrder(t *testing.T) {
	for _, n := range []int{1, 4, 9, 16, 25, 36} {
		assert.True(t, IsValidAmbisonicOrder(n), "expected %d valid", n)
	}
	for _, n := range []int{0, 2, 3, 5, 8, 50, 99} {
		assert.False(t, IsValidAmbisonicOrder(n), "expected %d invalid", n)
	}
}

func TestSn3dNormalizationZerothOrder(t *testing.T) {
	assert.InDelta(t, 1.0, sn3dNormalization(0, 0), 1e-9)
}
