package dao

import (
	"time"

	"github.com/thisislithium/zora-protocol/pkg/utils"
	"gorm.io/gorm"
)

type IBalance interface {
	TableName() string
	Create(db *gorm.DB, model *BalanceModel) error
	Select(db *gorm.DB, collection, owner string, tokenId uint64) (*BalanceModel, error)
	Update(db *gorm.DB, id uint64, data map[string]interface{}) error
}

type BalanceModel struct {
	Id         uint64 `json:"id,string" gorm:"primaryKey"`
	Collection string `json:"collection" gorm:"size:42;uniqueIndex:idx_balance_owner"`
	TokenId    uint64 `json:"token_id" gorm:"uniqueIndex:idx_balance_owner"`
	Owner      string `json:"owner" gorm:"size:42;uniqueIndex:idx_balance_owner"`
	Amount     string `json:"amount"`
	CreateAt   int64  `json:"create_at"`
	UpdateAt   int64  `json:"update_at"`
	DeleteAt   int64  `json:"delete_at"`
}

type BalanceHandler struct {
}

func (h *BalanceHandler) TableName() string {
	return "premint_balance"
}

func (h *BalanceHandler) Create(db *gorm.DB, model *BalanceModel) error {
	var err error

	// init
	if model.Id == 0 {
		if model.Id, err = utils.GenSnowflakeID(); err != nil {
			return err
		}
	}

	model.CreateAt = time.Now().Unix()
	model.UpdateAt = model.CreateAt

	return db.Table(h.TableName()).Create(model).Error
}

func (h *BalanceHandler) Select(db *gorm.DB, collection, owner string, tokenId uint64) (*BalanceModel, error) {
	var (
		model BalanceModel
		err   error
	)

	if err = db.Table(h.TableName()).Where("collection = ? and owner = ? and token_id = ?", collection, owner, tokenId).First(&model).Error; err != nil {
		return nil, err
	}

	return &model, nil
}

func (h *BalanceHandler) Update(db *gorm.DB, id uint64, data map[string]interface{}) error {
	data["update_at"] = time.Now().Unix()
	return db.Table(h.TableName()).Where("id = ?", id).UpdateColumns(data).Error
}
