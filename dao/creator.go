package dao

import (
	"time"

	"github.com/thisislithium/zora-protocol/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ICreator interface {
	TableName() string
	Create(db *gorm.DB, model *CreatorModel) error
	Exists(db *gorm.DB, collection, account string) (bool, error)
}

// CreatorModel grants account permission to sign premints for collection.
type CreatorModel struct {
	Id         uint64 `json:"id,string" gorm:"primaryKey"`
	Collection string `json:"collection" gorm:"size:42;uniqueIndex:idx_creator"`
	Account    string `json:"account" gorm:"size:42;uniqueIndex:idx_creator"`
	CreateAt   int64  `json:"create_at"`
	UpdateAt   int64  `json:"update_at"`
	DeleteAt   int64  `json:"delete_at"`
}

type CreatorHandler struct {
}

func (h *CreatorHandler) TableName() string {
	return "premint_creator"
}

func (h *CreatorHandler) Create(db *gorm.DB, model *CreatorModel) error {
	var err error

	// init
	if model.Id == 0 {
		if model.Id, err = utils.GenSnowflakeID(); err != nil {
			return err
		}
	}

	model.CreateAt = time.Now().Unix()
	model.UpdateAt = model.CreateAt

	return db.Table(h.TableName()).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
}

func (h *CreatorHandler) Exists(db *gorm.DB, collection, account string) (bool, error) {
	var count int64

	err := db.Table(h.TableName()).Where("collection = ? and account = ? and delete_at = 0", collection, account).Count(&count).Error

	return count > 0, err
}
