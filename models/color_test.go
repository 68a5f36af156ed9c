package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorValueUnmarshal(t *testing.T) {
	var c ColorValue
	require.NoError(t, json.Unmarshal([]byte(`"Red"`), &c))
	assert.Equal(t, "Red", c.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Navy Blue","hex":"#000080"}`), &c))
	assert.Equal(t, "Navy Blue", c.String())

	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestFindVariantIsCaseSensitive(t *testing.T) {
	p := Product{Variants: []Variant{
		{Color: "Red", Size: "M", Stock: 3},
		{Color: "Red", Size: "L", Stock: 1},
	}}

	v := p.FindVariant("Red", "M")
	require.NotNil(t, v)
	assert.Equal(t, 3, v.Stock)

	assert.Nil(t, p.FindVariant("red", "M"))
	assert.Nil(t, p.FindVariant("Red", "S"))
}
