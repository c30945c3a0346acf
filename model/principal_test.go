package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalFromBytes(t *testing.T) {
	tests := []struct {
		raw  []byte
		want Principal
	}{
		{raw: []byte{0x04}, want: AnonymousPrincipal},
		{raw: []byte{}, want: "aaaaa-aa"},
		{raw: []byte{1, 2, 3}, want: "kw6ia-hibai-bq"},
		{raw: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, want: "ivwno-rqaae-bagba-faydq-qci"},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, PrincipalFromBytes(tt.raw))
		})
	}
}

func TestParsePrincipal(t *testing.T) {
	p, err := ParsePrincipal("2vxsx-fae")
	require.NoError(t, err)
	assert.True(t, p.IsAnonymous())

	p, err = ParsePrincipal("IVWNO-RQAAE-BAGBA-FAYDQ-QCI")
	require.NoError(t, err)
	assert.Equal(t, Principal("ivwno-rqaae-bagba-faydq-qci"), p)

	bad := []string{
		"",
		"   ",
		"2vxsx-faf",
		"2vxsxfae",
		"2vx-sxfae",
		"kw6ia-hibai-bq-",
		"hello world",
		"aaaa",
	}
	for _, in := range bad {
		_, err := ParsePrincipal(in)
		assert.Error(t, err, in)
	}
}

func TestParsePrincipalRoundTrip(t *testing.T) {
	raw := make([]byte, maxPrincipalBytes)
	for i := range raw {
		raw[i] = byte(i * 7)
	}
	p := PrincipalFromBytes(raw)
	parsed, err := ParsePrincipal(string(p))
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
	assert.False(t, parsed.IsAnonymous())
}
