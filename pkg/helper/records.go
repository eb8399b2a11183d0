package helper

// PremintRecordsType tells what a premint did besides minting.
type PremintRecordsType uint8

const (
	PremintStatusUndefined PremintRecordsType = iota
	PremintStatusDeploy
	PremintStatusCreateToken
	PremintStatusMint
)

func NewPremintRecordsType(createdNewContract, createdNewToken bool) PremintRecordsType {
	switch {
	case createdNewContract:
		return PremintStatusDeploy
	case createdNewToken:
		return PremintStatusCreateToken
	default:
		return PremintStatusMint
	}
}

func (t PremintRecordsType) String() string {
	switch t {
	case PremintStatusDeploy:
		return "deploy"
	case PremintStatusCreateToken:
		return "create_token"
	case PremintStatusMint:
		return "mint"
	default:
		return "undefined"
	}
}
