package utils

import (
	"errors"
	"sync"

	"github.com/sony/sonyflake"
	"github.com/thisislithium/zora-protocol/config"
)

const defaultMachineId uint16 = 100

var (
	sf     *sonyflake.Sonyflake
	sfOnce sync.Once
)

func snowflake() (*sonyflake.Sonyflake, error) {
	sfOnce.Do(func() {
		machineId := config.GetConfig().App.MachineId
		if machineId == 0 {
			machineId = defaultMachineId
		}
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			MachineID: func() (uint16, error) {
				return machineId, nil
			},
		})
	})
	if sf == nil {
		return nil, errors.New("sonyflake not created")
	}
	return sf, nil
}

// GenSnowflakeID returns the next row id. Ids from api instances sharing one
// database only stay unique when each runs with its own app.machine_id.
func GenSnowflakeID() (uint64, error) {
	s, err := snowflake()
	if err != nil {
		return 0, err
	}
	return s.NextID()
}
