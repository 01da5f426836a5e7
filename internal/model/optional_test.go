package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPatchTriState(t *testing.T) {
	var p ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mjölk","brand":null}`), &p))

	assert.True(t, p.Name.Set)
	assert.True(t, p.Name.Valid)
	assert.Equal(t, "Mjölk", p.Name.Value)

	assert.True(t, p.Brand.Set)
	assert.False(t, p.Brand.Valid)
	assert.Nil(t, p.Brand.Ptr())

	assert.False(t, p.Weight.Set)
	assert.False(t, p.ImageURL.Set)
	assert.False(t, p.IsEmpty())
}

func TestProductPatchEmpty(t *testing.T) {
	var p ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
	assert.True(t, p.IsEmpty())
}

func TestOptionalPtrCopies(t *testing.T) {
	o := Some("1 l")
	ptr := o.Ptr()
	require.NotNil(t, ptr)
	*ptr = "2 l"
	assert.Equal(t, "1 l", o.Value)
	assert.Nil(t, Null[string]().Ptr())
}
