package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceFor(t *testing.T) {
	cases := []struct {
		probability float64
		want        Confidence
	}{
		{0.95, ConfidenceHigh},
		{0.7, ConfidenceHigh},
		{0.69, ConfidenceMedium},
		{0.4, ConfidenceMedium},
		{0.39, ConfidenceLow},
		{0.0, ConfidenceLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ConfidenceFor(tc.probability), "p=%v", tc.probability)
	}
}
