package hl7

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementAppend(t *testing.T) {
	parent := &Element{Kind: KindSegment, Name: "PID"}
	child := &Element{Kind: KindField, Name: "PID_1"}

	parent.Append(child)

	require.Len(t, parent.Children(), 1)
	assert.Same(t, parent, child.Parent())
}

func TestElementAppendReparents(t *testing.T) {
	first := &Element{Kind: KindSegment, Name: "PID"}
	second := &Element{Kind: KindSegment, Name: "NK1"}
	child := &Element{Kind: KindField}

	first.Append(child)
	second.Append(child)

	assert.Empty(t, first.Children())
	require.Len(t, second.Children(), 1)
	assert.Same(t, second, child.Parent())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "message", KindMessage.String())
	assert.Equal(t, "group", KindGroup.String())
	assert.Equal(t, "segment", KindSegment.String())
	assert.Equal(t, "field", KindField.String())
	assert.Equal(t, "component", KindComponent.String())
	assert.Equal(t, "subcomponent", KindSubComponent.String())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "strict", Strict.String())
	assert.Equal(t, "tolerant", Tolerant.String())
	assert.Equal(t, "quiet", Quiet.String())

	assert.True(t, Strict.IsStrict())
	assert.False(t, Tolerant.IsStrict())
	assert.True(t, Quiet.IsQuiet())
	assert.False(t, Tolerant.IsQuiet())
}
