// Package wallet provides the signing capability for contract writes.
// A nil Signer means the application runs in read-only mode.
package wallet

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fd1az/escrow-desk/internal/apperror"
)

// Signer is the capability required to submit transactions. Read paths
// never need one.
type Signer interface {
	// Address returns the account the signer signs for.
	Address() common.Address

	// TransactOpts returns transaction options bound to the chain ID.
	TransactOpts() (*bind.TransactOpts, error)
}

// KeyedSigner signs with a locally held private key.
type KeyedSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

// NewKeyedSigner creates a signer from a hex-encoded private key.
func NewKeyedSigner(privateKeyHex string, chainID uint64) (*KeyedSigner, error) {
	keyHex := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if keyHex == "" {
		return nil, apperror.New(apperror.CodeNoSigner, apperror.WithContext("no private key configured"))
	}

	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeNoSigner, "invalid private key")
	}

	return &KeyedSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(chainID),
	}, nil
}

// Address returns the account derived from the private key.
func (s *KeyedSigner) Address() common.Address {
	return s.address
}

// TransactOpts returns EIP-155 transaction options for this key.
func (s *KeyedSigner) TransactOpts() (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeSigningDeclined, "failed to create transactor")
	}
	return opts, nil
}
