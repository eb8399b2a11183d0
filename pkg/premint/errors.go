package premint

import "errors"

// Every premint failure reverts the whole call, nothing is applied.
var (
	ErrInvalidSignature       = errors.New("premint: invalid signature")
	ErrInvalidSignatureLength = errors.New("premint: signature must be 65 bytes")
	ErrInsufficientPayment    = errors.New("premint: insufficient payment")
	ErrMaxSupplyExceeded      = errors.New("premint: max supply exceeded")
	ErrMaxPerAddressExceeded  = errors.New("premint: max tokens per address exceeded")
	ErrSaleEnded              = errors.New("premint: sale ended")
	ErrInvalidQuantity        = errors.New("premint: quantity must be positive")
	ErrTokenConfigConflict    = errors.New("premint: uid already used with a different token config")
	ErrNotAdmin               = errors.New("premint: caller is not the contract admin")
	ErrContractNotDeployed    = errors.New("premint: contract not deployed")
	ErrInvalidTokenConfig     = errors.New("premint: invalid token config")
)
