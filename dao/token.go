package dao

import (
	"time"

	"github.com/thisislithium/zora-protocol/pkg/utils"
	"gorm.io/gorm"
)

type IToken interface {
	TableName() string
	Create(db *gorm.DB, model *TokenModel) error
	Select(db *gorm.DB, collection, uid string) (*TokenModel, error)
	Update(db *gorm.DB, id uint64, data map[string]interface{}) error
}

// TokenModel keeps integers wider than 64 bits as decimal strings.
type TokenModel struct {
	Id                  uint64 `json:"id,string" gorm:"primaryKey"`
	Collection          string `json:"collection" gorm:"size:42;uniqueIndex:idx_collection_uid"`
	Uid                 string `json:"uid" gorm:"size:78;uniqueIndex:idx_collection_uid"`
	TokenId             uint64 `json:"token_id"`
	ConfigHash          string `json:"config_hash" gorm:"size:66"`
	TotalMinted         string `json:"total_minted"`
	SaleStart           int64  `json:"sale_start"`
	SaleEnd             int64  `json:"sale_end"`
	TokenUri            string `json:"token_uri"`
	MaxSupply           string `json:"max_supply"`
	MaxTokensPerAddress uint64 `json:"max_tokens_per_address"`
	PricePerToken       string `json:"price_per_token"`
	SaleDuration        uint64 `json:"sale_duration"`
	RoyaltyMintSchedule uint32 `json:"royalty_mint_schedule"`
	RoyaltyBps          uint32 `json:"royalty_bps"`
	RoyaltyRecipient    string `json:"royalty_recipient" gorm:"size:42"`
	CreateAt            int64  `json:"create_at"`
	UpdateAt            int64  `json:"update_at"`
	DeleteAt            int64  `json:"delete_at"`
}

type TokenHandler struct {
}

func (h *TokenHandler) TableName() string {
	return "premint_token"
}

func (h *TokenHandler) Create(db *gorm.DB, model *TokenModel) error {
	var err error

	// init
	if model.Id == 0 {
		if model.Id, err = utils.GenSnowflakeID(); err != nil {
			return err
		}
	}

	if model.CreateAt == 0 {
		model.CreateAt = time.Now().Unix()
	}
	model.UpdateAt = model.CreateAt

	return db.Table(h.TableName()).Create(model).Error
}

func (h *TokenHandler) Select(db *gorm.DB, collection, uid string) (*TokenModel, error) {
	var (
		model TokenModel
		err   error
	)

	if err = db.Table(h.TableName()).Where("collection = ? and uid = ? and delete_at = 0", collection, uid).First(&model).Error; err != nil {
		return nil, err
	}

	return &model, nil
}

func (h *TokenHandler) Update(db *gorm.DB, id uint64, data map[string]interface{}) error {
	data["update_at"] = time.Now().Unix()
	return db.Table(h.TableName()).Where("id = ?", id).UpdateColumns(data).Error
}
