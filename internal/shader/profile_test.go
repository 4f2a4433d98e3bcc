package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Conventions(t *testing.T) {
	tests := []struct {
		profile Profile
		name    string
		suffix  string
		target  string
	}{
		{VertexShader, "vertex", "_vx.hlsl", "vs_5_0"},
		{PixelShader, "pixel", "_px.hlsl", "ps_5_0"},
		{ComputeShader, "compute", "_cs.hlsl", "cs_5_0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.profile.String())
			assert.Equal(t, tt.suffix, tt.profile.Suffix())
			assert.Equal(t, tt.target, tt.profile.Target())
		})
	}

	assert.Equal(t, "Profile(9)", Profile(9).String())
	assert.Empty(t, Profile(9).Suffix())
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in   string
		want Profile
	}{
		{"vertex", VertexShader},
		{"VS", VertexShader},
		{"vx", VertexShader},
		{"vs_5_0", VertexShader},
		{" pixel ", PixelShader},
		{"px", PixelShader},
		{"ps", PixelShader},
		{"compute", ComputeShader},
		{"cs_5_0", ComputeShader},
	}
	for _, tt := range tests {
		got, err := ParseProfile(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseProfile("geometry")
	assert.Error(t, err)
}

func TestParseProfiles(t *testing.T) {
	got, err := ParseProfiles([]string{"pixel", "vertex", "ps"})
	require.NoError(t, err)
	assert.Equal(t, []Profile{PixelShader, VertexShader}, got)

	_, err = ParseProfiles([]string{"vertex", "hull"})
	assert.Error(t, err)
}
