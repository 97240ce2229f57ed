package token

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligun0805/jupiterSwap/pkg/solana"
)

func generateKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)

	for i := 0; i < n; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}

func TestInitializeAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := InitializeAccount(keys[0], keys[1], keys[2])

	assert.Equal(t, []byte{byte(CommandInitializeAccount)}, instruction.Data)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	for i := 1; i < 4; i++ {
		assert.False(t, instruction.Accounts[i].IsSigner)
		assert.False(t, instruction.Accounts[i].IsWritable)
	}
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := Transfer(keys[0], keys[1], keys[2], 123456789)

	assert.Equal(t, byte(CommandTransfer), instruction.Data[0])
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	decompiled, err := DecompileTransfer(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Destination)
	assert.Equal(t, keys[2], decompiled.Owner)
	assert.EqualValues(t, 123456789, decompiled.Amount)
}

func TestDecompileTransfer_Errors(t *testing.T) {
	keys := generateKeys(t, 3)

	// invalid program
	_, err := DecompileTransfer(solana.NewInstruction(keys[0], []byte{byte(CommandTransfer)}))
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	// wrong command
	instruction := CloseAccount(keys[0], keys[1], keys[2])
	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	// truncated accounts
	instruction = Transfer(keys[0], keys[1], keys[2], 10)
	instruction.Accounts = instruction.Accounts[:2]
	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestCloseAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := CloseAccount(keys[0], keys[1], keys[2])

	assert.Equal(t, []byte{byte(CommandCloseAccount)}, instruction.Data)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)
}
