// AngelaMos | 2026
// money_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicrosToDecimal(t *testing.T) {
	assert.Equal(t, "0.00", MicrosToDecimal(0))
	assert.Equal(t, "1.00", MicrosToDecimal(1_000_000))
	assert.Equal(t, "1250.50", MicrosToDecimal(1_250_500_000))
	assert.Equal(t, "-3.25", MicrosToDecimal(-3_250_000))
	assert.Equal(t, "0.10", MicrosToDecimal(99_999))
}

func TestMicrosToDecimalRoundsHalfUp(t *testing.T) {
	assert.Equal(t, "116.67", MicrosToDecimal(116_666_666))
	assert.Equal(t, "0.01", MicrosToDecimal(5_000))
	assert.Equal(t, "0.00", MicrosToDecimal(4_999))
	assert.Equal(t, "1.00", MicrosToDecimal(999_995))
	assert.Equal(t, "-3.26", MicrosToDecimal(-3_255_000))
}

func TestBasisPointsToDecimal(t *testing.T) {
	assert.Equal(t, "0.0000", BasisPointsToDecimal(0))
	assert.Equal(t, "1.0000", BasisPointsToDecimal(10_000))
	assert.Equal(t, "2.8571", BasisPointsToDecimal(28_571))
	assert.Equal(t, "-0.0500", BasisPointsToDecimal(-500))
}

func TestMilliToDecimal(t *testing.T) {
	assert.Equal(t, "0.00", MilliToDecimal(0))
	assert.Equal(t, "15.00", MilliToDecimal(15_000))
	assert.Equal(t, "2.50", MilliToDecimal(2_500))
	assert.Equal(t, "0.01", MilliToDecimal(5))
	assert.Equal(t, "0.00", MilliToDecimal(4))
}

func TestDecimalToMicros(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"1", 1_000_000},
		{"30.00", 30_000_000},
		{"1250.50", 1_250_500_000},
		{"$1,250.50", 1_250_500_000},
		{"-3.25", -3_250_000},
		{"0.000001", 1},
		{".5", 500_000},
	}

	for _, tt := range tests {
		got, err := DecimalToMicros(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestDecimalToMicrosRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2345678", "1.2.3"} {
		_, err := DecimalToMicros(input)
		assert.Error(t, err, input)
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	for _, micros := range []int64{0, 1_000_000, 42_750_000, 1_250_500_000} {
		parsed, err := DecimalToMicros(MicrosToDecimal(micros))
		require.NoError(t, err)
		assert.Equal(t, micros, parsed)
	}
}
