package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrengthOrdering(t *testing.T) {
	require.True(t, Weak < Medium)
	require.True(t, Medium < Strong)
	require.True(t, Strong < Required)
}

func TestStrengthIsRequired(t *testing.T) {
	require.True(t, Required.IsRequired())
	require.False(t, Strong.IsRequired())
}

func TestClipStrengthBounds(t *testing.T) {
	require.EqualValues(t, 0, ClipStrength(-5))
	require.EqualValues(t, Required, ClipStrength(Required*2))
	require.EqualValues(t, Strong, ClipStrength(Strong))
}

func TestCreateStrengthClipsComponents(t *testing.T) {
	// components above 1000 saturate rather than overflowing into the
	// next component's place value.
	s := CreateStrength(2000, 0, 0, 1)
	require.EqualValues(t, CreateStrength(1000, 0, 0, 1), s)
}
