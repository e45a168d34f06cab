package phonenumbers_test

import (
	"testing"

	"github.com/fwojciec/leadscout/phonenumbers"
	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		region string
		raw    string
		want   string
	}{
		{name: "national US number", region: "", raw: "(650) 253-0000", want: "+16502530000"},
		{name: "dashed US number", region: "US", raw: "650-253-0000", want: "+16502530000"},
		{name: "international number ignores region", region: "US", raw: "+44 20 7031 3000", want: "+442070313000"},
		{name: "national GB number", region: "gb", raw: "020 7031 3000", want: "+442070313000"},
		{name: "surrounding whitespace", region: "US", raw: "  +1 650 253 0000 ", want: "+16502530000"},
		{name: "too short", region: "US", raw: "12345", want: ""},
		{name: "not a number", region: "US", raw: "call us", want: ""},
		{name: "empty", region: "US", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := phonenumbers.NewNormalizer(tt.region)
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNewNormalizer_DefaultRegion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, phonenumbers.DefaultRegion, phonenumbers.NewNormalizer("").Region)
	assert.Equal(t, "+16502530000", (&phonenumbers.Normalizer{}).Normalize("650 253 0000"))
}
