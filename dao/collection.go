package dao

import (
	"time"

	"github.com/thisislithium/zora-protocol/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ICollection interface {
	TableName() string
	Create(db *gorm.DB, model *CollectionModel) (bool, error)
	SelectByHash(db *gorm.DB, contractHash string) (*CollectionModel, error)
	SelectByAddress(db *gorm.DB, address string) (*CollectionModel, error)
	Update(db *gorm.DB, id uint64, data map[string]interface{}) error
}

type CollectionModel struct {
	Id           uint64 `json:"id,string" gorm:"primaryKey"`
	Address      string `json:"address" gorm:"size:42;uniqueIndex"`
	ContractHash string `json:"contract_hash" gorm:"size:66;uniqueIndex"`
	Admin        string `json:"admin" gorm:"size:42"`
	Uri          string `json:"uri"`
	Name         string `json:"name"`
	NextTokenId  uint64 `json:"next_token_id"`
	CreateAt     int64  `json:"create_at"`
	UpdateAt     int64  `json:"update_at"`
	DeleteAt     int64  `json:"delete_at"`
}

type CollectionHandler struct {
}

func (h *CollectionHandler) TableName() string {
	return "premint_collection"
}

// Create inserts model unless the contract hash is already taken. The bool
// reports whether this call inserted the row.
func (h *CollectionHandler) Create(db *gorm.DB, model *CollectionModel) (bool, error) {
	var err error

	// init
	if model.Id == 0 {
		if model.Id, err = utils.GenSnowflakeID(); err != nil {
			return false, err
		}
	}

	if model.CreateAt == 0 {
		model.CreateAt = time.Now().Unix()
	}
	model.UpdateAt = model.CreateAt

	tx := db.Table(h.TableName()).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	return tx.RowsAffected == 1, tx.Error
}

func (h *CollectionHandler) SelectByHash(db *gorm.DB, contractHash string) (*CollectionModel, error) {
	var (
		model CollectionModel
		err   error
	)

	if err = db.Table(h.TableName()).Where("contract_hash = ? and delete_at = 0", contractHash).First(&model).Error; err != nil {
		return nil, err
	}

	return &model, nil
}

func (h *CollectionHandler) SelectByAddress(db *gorm.DB, address string) (*CollectionModel, error) {
	var (
		model CollectionModel
		err   error
	)

	if err = db.Table(h.TableName()).Where("address = ? and delete_at = 0", address).First(&model).Error; err != nil {
		return nil, err
	}

	return &model, nil
}

func (h *CollectionHandler) Update(db *gorm.DB, id uint64, data map[string]interface{}) error {
	data["update_at"] = time.Now().Unix()
	return db.Table(h.TableName()).Where("id = ?", id).UpdateColumns(data).Error
}
