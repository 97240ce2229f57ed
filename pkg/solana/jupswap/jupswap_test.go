package jupswap

import (
	"crypto/ed25519"
	"encoding/binary"
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

func TestGetRegistryAddress(t *testing.T) {
	address, bump, err := GetRegistryAddress()
	require.NoError(t, err)
	require.NotNil(t, address)

	// The stored bump must reconstruct the same address without searching.
	reconstructed, err := solana.CreateProgramAddress(PROGRAM_ID, registryStatePrefix, []byte{bump})
	require.NoError(t, err)
	assert.EqualValues(t, address, reconstructed)

	again, _, err := GetRegistryAddress()
	require.NoError(t, err)
	assert.EqualValues(t, address, again)
}

func TestRegistryAccount_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 2)

	expected := &RegistryAccount{
		Admin:    keys[0],
		Referral: keys[1],
		Bump:     254,
	}

	marshalled := expected.Marshal()
	require.Len(t, marshalled, RegistryAccountSize)

	var actual RegistryAccount
	require.True(t, actual.Unmarshal(marshalled))
	assert.EqualValues(t, expected.Admin, actual.Admin)
	assert.EqualValues(t, expected.Referral, actual.Referral)
	assert.Equal(t, expected.Bump, actual.Bump)

	// Records with a foreign discriminator are rejected.
	marshalled[0]++
	assert.False(t, actual.Unmarshal(marshalled))

	assert.False(t, actual.Unmarshal(marshalled[:RegistryAccountSize-1]))
}

func TestNewInitializeInstruction(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := NewInitializeInstruction(
		&InitializeInstructionAccounts{
			Registry: keys[0],
			Admin:    keys[1],
			Referral: keys[2],
		},
		&InitializeInstructionArgs{
			Admin:    keys[1],
			Referral: keys[2],
		},
	)

	assert.EqualValues(t, PROGRAM_ID, instruction.Program)
	assert.Equal(t, initializeInstructionDiscriminator, instruction.Data[:8])
	assert.EqualValues(t, keys[1], instruction.Data[8:40])
	assert.EqualValues(t, keys[2], instruction.Data[40:72])

	require.Len(t, instruction.Accounts, 4)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.EqualValues(t, SYSTEM_PROGRAM_ID, instruction.Accounts[3].PublicKey)
}

func TestNewSwapTokensInstruction(t *testing.T) {
	keys := generateKeys(t, 11)
	routeData := []byte{0xde, 0xad, 0xbe, 0xef}

	instruction := NewSwapTokensInstruction(
		&SwapTokensInstructionAccounts{
			Registry:          keys[0],
			User:              keys[1],
			InputMint:         keys[2],
			UserSource:        keys[3],
			UserDestination:   keys[4],
			HoldingAccount:    keys[5],
			SettlementAccount: keys[6],
			ReferralAccount:   keys[7],
			AdminAccount:      keys[8],
			JupiterProgram:    JUPITER_PROGRAM_ID,
			JupiterRoute:      keys[9],
			UsdcMint:          USDC_MINT,
		},
		&SwapTokensInstructionArgs{
			InputAmount:     587000,
			MinOutputAmount: 100,
			RouteData:       routeData,
		},
	)

	assert.EqualValues(t, PROGRAM_ID, instruction.Program)
	assert.Equal(t, swapTokensInstructionDiscriminator, instruction.Data[:8])
	assert.EqualValues(t, 587000, binary.LittleEndian.Uint64(instruction.Data[8:]))
	assert.EqualValues(t, 100, binary.LittleEndian.Uint64(instruction.Data[16:]))
	assert.EqualValues(t, len(routeData), binary.LittleEndian.Uint32(instruction.Data[24:]))
	assert.Equal(t, routeData, instruction.Data[28:])

	require.Len(t, instruction.Accounts, 15)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.EqualValues(t, JUPITER_PROGRAM_ID, instruction.Accounts[9].PublicKey)
	assert.EqualValues(t, USDC_MINT, instruction.Accounts[11].PublicKey)
}

func TestSwapErrorFromError(t *testing.T) {
	swapErr, ok := SwapErrorFromError(solana.InstructionError{
		Index: 0,
		Err:   solana.CustomError(uint32(ErrSlippageExceeded)),
	})
	require.True(t, ok)
	assert.Equal(t, ErrSlippageExceeded, swapErr)

	_, ok = SwapErrorFromError(solana.InstructionError{
		Index: 0,
		Err:   solana.CustomError(0x42),
	})
	assert.False(t, ok)

	_, ok = SwapErrorFromError(solana.ErrIncorrectProgram)
	assert.False(t, ok)
}
