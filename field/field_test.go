package field

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randElements(n int) []Element {
	r := rand.New(rand.NewSource(1))
	out := make([]Element, n)
	for i := range out {
		out[i] = NewRandom(r)
	}
	return out
}

func TestAddCommutative(t *testing.T) {
	es := randElements(50)
	for i := 0; i < len(es)-1; i++ {
		a, b := es[i], es[i+1]
		require.True(t, a.Add(b).Equal(b.Add(a)))
	}
}

func TestAddAssociative(t *testing.T) {
	es := randElements(50)
	for i := 0; i < len(es)-2; i++ {
		a, b, c := es[i], es[i+1], es[i+2]
		lhs := a.Add(b).Add(c)
		rhs := a.Add(b.Add(c))
		require.True(t, lhs.Equal(rhs))
	}
}

func TestMulCommutativeAssociative(t *testing.T) {
	es := randElements(50)
	for i := 0; i < len(es)-2; i++ {
		a, b, c := es[i], es[i+1], es[i+2]
		require.True(t, a.Mul(b).Equal(b.Mul(a)))
		require.True(t, a.Mul(b).Mul(c).Equal(a.Mul(b.Mul(c))))
	}
}

func TestDistributive(t *testing.T) {
	es := randElements(50)
	for i := 0; i < len(es)-2; i++ {
		a, b, c := es[i], es[i+1], es[i+2]
		lhs := a.Mul(b.Add(c))
		rhs := a.Mul(b).Add(a.Mul(c))
		require.True(t, lhs.Equal(rhs))
	}
}

func TestInverse(t *testing.T) {
	es := randElements(50)
	for _, a := range es {
		if a.IsZero() {
			continue
		}
		inv, err := a.Inverse()
		require.NoError(t, err)
		require.True(t, a.Mul(inv).Equal(One))
	}
}

func TestInverseOfZero(t *testing.T) {
	_, err := Zero.Inverse()
	require.Error(t, err)
}

func TestRootOfUnityOrder(t *testing.T) {
	for k := 1; k < 20; k++ {
		rou, err := GetRootOfUnity(k)
		require.NoError(t, err)

		full := rou.Pow(uint64(1) << k)
		require.True(t, full.Equal(One), "omega^(2^%d) should be 1", k)

		half := rou.Pow(uint64(1) << (k - 1))
		require.False(t, half.Equal(One), "omega^(2^%d) should not be 1", k-1)
	}
}

func TestRootOfUnityTooHigh(t *testing.T) {
	_, err := GetRootOfUnity(MaxOrder)
	require.Error(t, err)
}

func TestFromRealReducesModP(t *testing.T) {
	e := FromReal(Mod + 5)
	require.Equal(t, uint64(5), e.Real)
	require.Equal(t, uint64(0), e.Img)
}

func TestNegAndSub(t *testing.T) {
	es := randElements(20)
	for _, a := range es {
		zero := a.Add(a.Neg())
		require.True(t, zero.IsZero())

		diff := a.Sub(a)
		require.True(t, diff.IsZero())
	}
}
