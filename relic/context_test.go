package relic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-relic/core/bn"
	"github.com/go-relic/core/eb"
	"github.com/go-relic/core/ep"
)

func TestNewContextSecp256k1(t *testing.T) {
	ctx, err := NewContext(Secp256k1)
	require.NoError(t, err)
	require.NotNil(t, ctx.EP)

	g := ep.Generator(ctx.EP)
	require.True(t, g.IsOnCurve())

	got, err := ctx.ScalarMulEp(g, bn.FromUint64(5), ep.MethodWNAF)
	require.NoError(t, err)
	want := ep.MulBasic(g, bn.FromUint64(5))
	require.True(t, got.Equal(want))
}

func TestNewContextK283(t *testing.T) {
	ctx, err := NewContext(K283)
	require.NoError(t, err)
	require.NotNil(t, ctx.EB)
	require.True(t, ctx.EB.Gx != nil && ctx.EB.Gy != nil)
}

func TestContextRejectsWrongCurveFamily(t *testing.T) {
	ctx, err := NewContext(K283)
	require.NoError(t, err)
	_, err = ctx.ScalarMulEp(nil, bn.FromUint64(1), ep.MethodBasic)
	require.Error(t, err)
}

func TestNewContextUnknownCurve(t *testing.T) {
	_, err := NewContext(CurveID(999))
	require.Error(t, err)
}

func TestArenaAllocAndRelease(t *testing.T) {
	a := NewArena(8)
	s1 := a.Alloc(4)
	require.Len(t, s1, 4)
	scope := NewScope(a)
	s2 := a.Alloc(4)
	require.Len(t, s2, 4)
	scope.Close()
	require.Equal(t, 4, a.Mark())

	overflow := a.Alloc(100)
	require.Len(t, overflow, 100)
}

// TestContextArenaBacksHalvingScratch confirms a Context configured with
// WithAllocator actually routes a real arithmetic path's scratch buffers
// through that allocator, rather than leaving Allocator/Arena dead
// infrastructure: MethodHalving's scalar rescale (eb.MulHalvingWithAlloc)
// reduces k modulo the curve order through the configured Allocator, which
// should advance the arena's mark.
func TestContextArenaBacksHalvingScratch(t *testing.T) {
	arena := NewArena(64)
	ctx, err := NewContext(K283, WithAllocator(arena))
	require.NoError(t, err)
	require.Equal(t, 0, arena.Mark())

	p := eb.FromAffine(ctx.EB, ctx.EB.Gx, ctx.EB.Gy)
	_, err = ctx.ScalarMulEb(p, bn.FromUint64(5), eb.MethodHalving)
	require.NoError(t, err)

	require.Greater(t, arena.Mark(), 0)
}

// TestContextHeapAndArenaAgree confirms switching allocators never changes
// the arithmetic result, only where its scratch lives.
func TestContextHeapAndArenaAgree(t *testing.T) {
	heapCtx, err := NewContext(K283)
	require.NoError(t, err)
	arenaCtx, err := NewContext(K283, WithAllocator(NewArena(64)))
	require.NoError(t, err)

	ph := eb.FromAffine(heapCtx.EB, heapCtx.EB.Gx, heapCtx.EB.Gy)
	pa := eb.FromAffine(arenaCtx.EB, arenaCtx.EB.Gx, arenaCtx.EB.Gy)

	gotHeap, err := heapCtx.ScalarMulEb(ph, bn.FromUint64(11), eb.MethodHalving)
	require.NoError(t, err)
	gotArena, err := arenaCtx.ScalarMulEb(pa, bn.FromUint64(11), eb.MethodHalving)
	require.NoError(t, err)

	require.True(t, gotHeap.Equal(gotArena))
}
