package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCodeRFC6238(t *testing.T) {
	secret := []byte("12345678901234567890")

	tests := []struct {
		epoch int64
		want  string
	}{
		{epoch: 59, want: "287082"},
		{epoch: 1111111109, want: "081804"},
		{epoch: 1111111111, want: "050471"},
		{epoch: 1234567890, want: "005924"},
	}

	for _, tt := range tests {
		code, err := ComputeCode(secret, tt.epoch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, code, "epoch %d", tt.epoch)
	}
}

func TestComputeCodeFromDecodedSecret(t *testing.T) {
	code, err := ComputeCode(Decode("GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", 32), 59)
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestPeriodAndProgress(t *testing.T) {
	assert.Equal(t, int64(0), Period(29))
	assert.Equal(t, int64(1), Period(30))
	assert.Equal(t, int64(-1), Period(-1))

	assert.Equal(t, 100, ProgressPercentage(1_700_000_010))
	assert.Equal(t, 97, ProgressPercentage(1))
	assert.Equal(t, 50, ProgressPercentage(15))
	assert.Equal(t, 4, ProgressPercentage(29))
	assert.Equal(t, 4, ProgressPercentage(-1))
}
