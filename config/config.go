package config

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configBytes []byte

// OverrideEnv names an optional yaml file merged over the embedded defaults.
const OverrideEnv = "PREMINT_CONFIG"

var _config Config

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Level      string `mapstructure:"level"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type MysqlConfig struct {
	Url             string `mapstructure:"url"`
	Prefix          string `mapstructure:"prefix"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	SlowThreshold   int    `mapstructure:"slow_threshold"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

type LedgerConfig struct {
	Driver          string `mapstructure:"driver"`
	Dir             string `mapstructure:"dir"`
	ConflictRetries int    `mapstructure:"conflict_retries"`
}

type PremintConfig struct {
	ChainId          uint64 `mapstructure:"chain_id"`
	DomainName       string `mapstructure:"domain_name"`
	DomainVersion    string `mapstructure:"domain_version"`
	PreminterAddress string `mapstructure:"preminter_address"`
	FeeRecipient     string `mapstructure:"fee_recipient"`
	MintFee          string `mapstructure:"mint_fee"`
}

type ChainConfig struct {
	Id               uint64 `mapstructure:"id"`
	Name             string `mapstructure:"name"`
	MintFee          string `mapstructure:"mint_fee"`
	PreminterAddress string `mapstructure:"preminter_address"`
}

type AppConfig struct {
	Name         string `mapstructure:"name"`
	Port         int    `mapstructure:"port"`
	RoutePrefix  string `mapstructure:"route_prefix"`
	CacheSeconds int    `mapstructure:"cache_seconds"`
	MachineId    uint16 `mapstructure:"machine_id"`
}

type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	Mysql   MysqlConfig   `yaml:"mysql"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Premint PremintConfig `yaml:"premint"`
	Chains  []ChainConfig `yaml:"chains"`
}

func GetConfig() Config {
	return _config
}

// Chain returns the chain entry for id, ok is false for unknown chains.
func (c Config) Chain(id uint64) (ChainConfig, bool) {
	for _, chain := range c.Chains {
		if chain.Id == id {
			return chain, true
		}
	}
	return ChainConfig{}, false
}

func init() {
	conf, err := load(os.Getenv(OverrideEnv))
	if err != nil {
		panic(err)
	}

	_config = conf
}

func load(overridePath string) (Config, error) {
	var _conf Config

	conf := viper.New()
	conf.SetConfigType("yaml")

	if err := conf.ReadConfig(bytes.NewBuffer(configBytes)); err != nil {
		return _conf, err
	}

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return _conf, err
		}
		if err := conf.MergeConfig(bytes.NewBuffer(data)); err != nil {
			return _conf, err
		}
	}

	{
		appConf := conf.Sub("app")
		if err := appConf.Unmarshal(&_conf.App); err != nil {
			return _conf, err
		}
	}

	{
		logConf := conf.Sub("log")
		if err := logConf.Unmarshal(&_conf.Log); err != nil {
			return _conf, err
		}
	}

	{
		mysqlConf := conf.Sub("mysql")
		if err := mysqlConf.Unmarshal(&_conf.Mysql); err != nil {
			return _conf, err
		}
	}

	{
		ledgerConf := conf.Sub("ledger")
		if err := ledgerConf.Unmarshal(&_conf.Ledger); err != nil {
			return _conf, err
		}
	}

	{
		premintConf := conf.Sub("premint")
		if err := premintConf.Unmarshal(&_conf.Premint); err != nil {
			return _conf, err
		}
	}

	if err := conf.UnmarshalKey("chains", &_conf.Chains); err != nil {
		return _conf, err
	}

	return _conf, nil
}
