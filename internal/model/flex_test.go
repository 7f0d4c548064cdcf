package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_Unmarshal(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"sku-1","b":123,"c":null}`), &v)
	require.NoError(t, err)

	assert.Equal(t, "sku-1", v.A.String())
	assert.Equal(t, "123", v.B.String())
	assert.Equal(t, "", v.C.String())
}

func TestFlexString_RejectsObjects(t *testing.T) {
	var s FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &s))
}

func TestFlexNumber_Unmarshal(t *testing.T) {
	cases := map[string]float64{
		`2`:         2,
		`10.5`:      10.5,
		`"3"`:       3,
		`" 49.90 "`: 49.9,
		`""`:        0,
		`null`:      0,
	}
	for input, want := range cases {
		var n FlexNumber
		require.NoError(t, json.Unmarshal([]byte(input), &n), input)
		assert.InDelta(t, want, n.Float64(), 1e-9, input)
	}
}

func TestFlexNumber_RejectsGarbage(t *testing.T) {
	for _, input := range []string{`"abc"`, `"NaN"`, `true`, `[1]`} {
		var n FlexNumber
		assert.Error(t, json.Unmarshal([]byte(input), &n), input)
	}
}
