package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPremintRecordsType(t *testing.T) {
	assert.Equal(t, PremintStatusDeploy, NewPremintRecordsType(true, true))
	assert.Equal(t, PremintStatusCreateToken, NewPremintRecordsType(false, true))
	assert.Equal(t, PremintStatusMint, NewPremintRecordsType(false, false))
	assert.Equal(t, "create_token", PremintStatusCreateToken.String())
	assert.Equal(t, "undefined", PremintStatusUndefined.String())
}
