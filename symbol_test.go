package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbol(t *testing.T) {
	s := NewSolver()

	v := s.nextSymbol(externalKind)
	require.True(t, v.valid())
	require.True(t, v.external())

	v = s.nextSymbol(slackKind)
	require.True(t, v.restricted())

	v = s.nextSymbol(errorKind)
	require.True(t, v.restricted())
	require.True(t, v.errSym())

	v = s.nextSymbol(dummyKind)
	require.True(t, v.dummy())

	require.False(t, invalidSymbol.valid())
}
