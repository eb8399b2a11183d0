package premint

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const signatureLength = crypto.SignatureLength

// Sign signs typed data with key and returns r||s||v with v in {27, 28}.
func Sign(typedData apitypes.TypedData, key *ecdsa.PrivateKey) ([]byte, error) {
	digest, err := Hash(typedData)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverSigner returns the address that produced signature over typedData.
// A signature made over a different schema or domain recovers to some other
// address, callers must compare the result.
func RecoverSigner(typedData apitypes.TypedData, signature []byte) (common.Address, error) {
	if len(signature) != signatureLength {
		return common.Address{}, ErrInvalidSignatureLength
	}
	digest, err := Hash(typedData)
	if err != nil {
		return common.Address{}, err
	}

	sig := make([]byte, signatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, signature[crypto.RecoveryIDOffset])
	}

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify reports whether signature over typedData was made by signer.
func Verify(typedData apitypes.TypedData, signature []byte, signer common.Address) (bool, error) {
	recovered, err := RecoverSigner(typedData, signature)
	if err != nil {
		return false, err
	}
	return recovered == signer, nil
}
