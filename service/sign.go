package service

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/pkg/metrics"
	"github.com/thisislithium/zora-protocol/pkg/premint"
	ptypes "github.com/thisislithium/zora-protocol/pkg/types"
	"github.com/thisislithium/zora-protocol/pkg/utils"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

// SignService builds, signs and recovers premint typed data for callers
// that do not hold the domain themselves.
type SignService struct {
	defaults   premint.Domain
	chains     mapset.Set[uint64]
	preminters map[uint64]common.Address
	fees       map[uint64]*big.Int
}

func NewSignService(defaults premint.Domain, chains []config.ChainConfig) (*SignService, error) {
	s := &SignService{
		defaults:   defaults,
		chains:     mapset.NewSet[uint64](),
		preminters: map[uint64]common.Address{},
		fees:       map[uint64]*big.Int{},
	}
	if defaults.ChainId != nil {
		s.chains.Add(defaults.ChainId.Uint64())
	}

	for _, chain := range chains {
		s.chains.Add(chain.Id)
		if chain.MintFee != "" {
			fee, err := utils.ParseEther(chain.MintFee)
			if err != nil {
				return nil, fmt.Errorf("%s mint_fee: %w", chain.Name, err)
			}
			s.fees[chain.Id] = fee
		}
		if chain.PreminterAddress == "" {
			continue
		}
		addr, err := utils.ParseAddress(chain.Name, chain.PreminterAddress)
		if err != nil {
			return nil, err
		}
		s.preminters[chain.Id] = addr
	}
	return s, nil
}

// Domain resolves the domain of req. An empty chain id or preminter address
// falls back to the configured chain and its preminter.
func (s *SignService) Domain(req *ptypes.TypedDataReq) (premint.Domain, error) {
	domain := s.defaults

	if req.ChainId != 0 {
		if !s.chains.ContainsOne(req.ChainId) {
			return domain, fmt.Errorf("chain %d: %w", req.ChainId, ErrUnsupportedChain)
		}
		domain.ChainId = new(big.Int).SetUint64(req.ChainId)
		if addr, ok := s.preminters[req.ChainId]; ok {
			domain.VerifyingContract = addr
		}
	}

	if req.PreminterAddress != "" {
		addr, err := utils.ParseAddress("preminterAddress", req.PreminterAddress)
		if err != nil {
			return domain, err
		}
		domain.VerifyingContract = addr
	}
	return domain, nil
}

// MintFee is the per token protocol fee configured for the chain of req, ok
// is false when the chain has none.
func (s *SignService) MintFee(req *ptypes.TypedDataReq) (fee *big.Int, ok bool) {
	chainId := req.ChainId
	if chainId == 0 && s.defaults.ChainId != nil {
		chainId = s.defaults.ChainId.Uint64()
	}
	if fee, ok = s.fees[chainId]; ok {
		fee = new(big.Int).Set(fee)
	}
	return fee, ok
}

func (s *SignService) TypedData(req *ptypes.TypedDataReq) (apitypes.TypedData, error) {
	domain, err := s.Domain(req)
	if err != nil {
		return apitypes.TypedData{}, err
	}
	cc, err := req.ContractConfig.Config()
	if err != nil {
		return apitypes.TypedData{}, err
	}
	tc, err := req.TokenConfig.Config()
	if err != nil {
		return apitypes.TypedData{}, err
	}
	return domain.TypedData(cc, tc), nil
}

func (s *SignService) Sign(req *ptypes.TypedDataReq, key *ecdsa.PrivateKey) ([]byte, error) {
	typedData, err := s.TypedData(req)
	if err != nil {
		return nil, err
	}
	return premint.Sign(typedData, key)
}

func (s *SignService) Recover(req *ptypes.RecoverReq) (*ptypes.RecoverRsp, error) {
	typedData, err := s.TypedData(&req.TypedDataReq)
	if err != nil {
		return nil, err
	}
	sig, err := utils.ParseHex("signature", req.Signature)
	if err != nil {
		return nil, err
	}
	digest, err := premint.Hash(typedData)
	if err != nil {
		return nil, err
	}
	signer, err := premint.RecoverSigner(typedData, sig)
	if err != nil {
		return nil, err
	}
	metrics.SignaturesRecovered.Inc()

	return &ptypes.RecoverRsp{
		Signer: signer.Hex(),
		Digest: digest.Hex(),
	}, nil
}
