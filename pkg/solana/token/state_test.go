package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 4)
	rentReserve := uint64(2039280)

	expected := Account{
		Mint:            keys[0],
		Owner:           keys[1],
		Amount:          123456789,
		Delegate:        keys[2],
		State:           AccountStateInitialized,
		IsNative:        &rentReserve,
		DelegatedAmount: 42,
		CloseAuthority:  keys[3],
	}

	marshalled := expected.Marshal()
	require.Len(t, marshalled, AccountSize)

	var actual Account
	require.True(t, actual.Unmarshal(marshalled))
	assert.EqualValues(t, expected.Mint, actual.Mint)
	assert.EqualValues(t, expected.Owner, actual.Owner)
	assert.Equal(t, expected.Amount, actual.Amount)
	assert.EqualValues(t, expected.Delegate, actual.Delegate)
	assert.Equal(t, expected.State, actual.State)
	require.NotNil(t, actual.IsNative)
	assert.Equal(t, rentReserve, *actual.IsNative)
	assert.Equal(t, expected.DelegatedAmount, actual.DelegatedAmount)
	assert.EqualValues(t, expected.CloseAuthority, actual.CloseAuthority)

	assert.False(t, actual.Unmarshal(marshalled[:AccountSize-1]))
}

func TestAccount_OptionalFieldsUnset(t *testing.T) {
	keys := generateKeys(t, 2)

	expected := Account{
		Mint:   keys[0],
		Owner:  keys[1],
		Amount: 100,
	}

	var actual Account
	require.True(t, actual.Unmarshal(expected.Marshal()))
	assert.Empty(t, actual.Delegate)
	assert.Nil(t, actual.IsNative)
	assert.Empty(t, actual.CloseAuthority)
	assert.Equal(t, AccountStateUninitialized, actual.State)
}
