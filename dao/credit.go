package dao

import (
	"time"

	"github.com/thisislithium/zora-protocol/pkg/utils"
	"gorm.io/gorm"
)

type ICredit interface {
	TableName() string
	Create(db *gorm.DB, model *CreditModel) error
	Select(db *gorm.DB, account string) (*CreditModel, error)
	Update(db *gorm.DB, id uint64, data map[string]interface{}) error
}

// CreditModel is the withdrawable ETH of an account, in wei.
type CreditModel struct {
	Id       uint64 `json:"id,string" gorm:"primaryKey"`
	Account  string `json:"account" gorm:"size:42;uniqueIndex"`
	Amount   string `json:"amount"`
	CreateAt int64  `json:"create_at"`
	UpdateAt int64  `json:"update_at"`
	DeleteAt int64  `json:"delete_at"`
}

type CreditHandler struct {
}

func (h *CreditHandler) TableName() string {
	return "premint_credit"
}

func (h *CreditHandler) Create(db *gorm.DB, model *CreditModel) error {
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

func (h *CreditHandler) Select(db *gorm.DB, account string) (*CreditModel, error) {
	var (
		model CreditModel
		err   error
	)

	if err = db.Table(h.TableName()).Where("account = ?", account).First(&model).Error; err != nil {
		return nil, err
	}

	return &model, nil
}

func (h *CreditHandler) Update(db *gorm.DB, id uint64, data map[string]interface{}) error {
	data["update_at"] = time.Now().Unix()
	return db.Table(h.TableName()).Where("id = ?", id).UpdateColumns(data).Error
}
