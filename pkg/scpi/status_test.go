/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package scpi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOperationRegister_BitRoundTrip(t *testing.T) {
	for k := 0; k < 16; k++ {
		raw := []byte(fmt.Sprintf("%d\n", 1<<uint(k)))
		reg, err := DecodeOperationRegister(raw)
		require.NoError(t, err)
		for bit := 0; bit < 16; bit++ {
			assert.Equal(t, bit == k, reg.IsSet(bit), "value 1<<%d bit %d", k, bit)
		}
	}
}

func TestDecodeOperationRegister_Idempotent(t *testing.T) {
	first, err := DecodeOperationRegister([]byte("4128\n"))
	require.NoError(t, err)
	second, err := DecodeOperationRegister([]byte("4128\n"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeOperationRegister_Unreadable(t *testing.T) {
	tests := []struct {
		description string
		input       []byte
	}{
		{description: "empty", input: []byte("")},
		{description: "text", input: []byte("garbage\n")},
		{description: "negative", input: []byte("-1\n")},
		{description: "overflow", input: []byte("70000\n")},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := DecodeOperationRegister(tt.input)
			require.Error(t, err)
			assert.IsType(t, ErrFraming{}, err)
		})
	}
}

func TestMeasuringBit(t *testing.T) {
	measuring, err := DecodeOperationRegister([]byte("16\n"))
	require.NoError(t, err)
	assert.True(t, measuring.Measuring())

	idle, err := DecodeOperationRegister([]byte("0\n"))
	require.NoError(t, err)
	assert.False(t, idle.Measuring())

	// Waiting for trigger is not measuring.
	waiting, err := DecodeOperationRegister([]byte("32\n"))
	require.NoError(t, err)
	assert.False(t, waiting.Measuring())
	assert.True(t, waiting.IsSet(BitWaitingForTrigger))
}
