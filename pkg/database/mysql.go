package database

import (
	"strings"
	"time"

	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/dao"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var db *gorm.DB

type gormLogger struct{}

func (*gormLogger) Printf(format string, v ...interface{}) {
	format = strings.Replace(format, "\n", " ", 1)
	log.Sugar.Infof(format, v...)
}

// Open connects to the mysql ledger and migrates its tables when
// auto_migrate is set.
func Open(conf config.MysqlConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		&gormLogger{},
		logger.Config{
			SlowThreshold:             time.Second * time.Duration(conf.SlowThreshold),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormConfig := gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   conf.Prefix,
			SingularTable: true,
		},
		Logger: newLogger,
	}
	conn, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       conf.Url,
		DefaultStringSize:         255,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(conf.ConnMaxLifetime))

	if conf.AutoMigrate {
		if err := dao.Migrate(conn); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

// NewMysql opens the configured database as the process wide connection.
func NewMysql() {
	conn, err := Open(config.GetConfig().Mysql)
	if err != nil {
		panic(err)
	}
	db = conn
}

func Mysql() *gorm.DB {
	return db
}

func DisconnectMysql() {
	if db == nil {
		return
	}
	if sqlDB, _ := db.DB(); sqlDB != nil {
		_ = sqlDB.Close()
	}
}
