package dao

import (
	"time"

	"github.com/thisislithium/zora-protocol/pkg/utils"
	"gorm.io/gorm"
)

type IPremintRecord interface {
	TableName() string
	Create(db *gorm.DB, model *PremintRecordModel) error
	Find(db *gorm.DB, collection string) ([]PremintRecordModel, error)
}

// PremintRecordModel is one Preminted event.
type PremintRecordModel struct {
	Id                 uint64 `json:"id,string" gorm:"primaryKey"`
	Collection         string `json:"collection" gorm:"size:42;index"`
	ContractHash       string `json:"contract_hash" gorm:"size:66"`
	TokenId            uint64 `json:"token_id"`
	Uid                string `json:"uid"`
	CreatedNewContract bool   `json:"created_new_contract"`
	CreatedNewToken    bool   `json:"created_new_token"`
	Minter             string `json:"minter" gorm:"size:42"`
	Quantity           string `json:"quantity"`
	Value              string `json:"value"`
	Comment            string `json:"comment"`
	BlockAt            int64  `json:"block_at"`
	CreateAt           int64  `json:"create_at"`
	UpdateAt           int64  `json:"update_at"`
	DeleteAt           int64  `json:"delete_at"`
}

type PremintRecordHandler struct {
}

func (h *PremintRecordHandler) TableName() string {
	return "premint_record"
}

func (h *PremintRecordHandler) Create(db *gorm.DB, model *PremintRecordModel) error {
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

// Find lists the records of a collection in insertion order. Sonyflake ids
// grow monotonically so ordering by id is ordering by time.
func (h *PremintRecordHandler) Find(db *gorm.DB, collection string) ([]PremintRecordModel, error) {
	var datas []PremintRecordModel

	tx := db.Table(h.TableName()).Where("collection = ? and delete_at = 0", collection).Order("id asc").Find(&datas)

	return datas, tx.Error
}

// Migrate creates or updates every table the ledger needs.
func Migrate(db *gorm.DB) error {
	tables := []struct {
		name  string
		model interface{}
	}{
		{(&CollectionHandler{}).TableName(), &CollectionModel{}},
		{(&TokenHandler{}).TableName(), &TokenModel{}},
		{(&BalanceHandler{}).TableName(), &BalanceModel{}},
		{(&CreatorHandler{}).TableName(), &CreatorModel{}},
		{(&CreditHandler{}).TableName(), &CreditModel{}},
		{(&PremintRecordHandler{}).TableName(), &PremintRecordModel{}},
	}
	for _, t := range tables {
		if err := db.Table(t.name).AutoMigrate(t.model); err != nil {
			return err
		}
	}
	return nil
}
