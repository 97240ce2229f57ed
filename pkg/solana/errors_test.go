package solana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionError(t *testing.T) {
	err := InstructionError{
		Index: 2,
		Err:   CustomError(0x1775),
	}

	assert.Contains(t, err.Error(), "Instruction 2")
	assert.True(t, errors.Is(err, CustomError(0x1775)))

	ce := err.CustomError()
	require.NotNil(t, ce)
	assert.Equal(t, CustomError(0x1775), *ce)

	err = InstructionError{
		Index: 0,
		Err:   errors.New("program failed to complete"),
	}
	assert.Nil(t, err.CustomError())
}
