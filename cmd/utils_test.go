package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatch(t *testing.T) {
	patch, err := parsePatch([]string{"powerSwitch=1", "sleep=true", "name=living room", "targetTemperature=24"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"powerSwitch":       1,
		"sleep":             true,
		"name":              "living room",
		"targetTemperature": 24,
	}, patch)

	_, err = parsePatch([]string{"powerSwitch"})
	assert.Error(t, err)
	_, err = parsePatch([]string{"=1"})
	assert.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****WXYZ", maskKey("ASIAABCDWXYZ"))
	assert.Equal(t, "****", maskKey("abc"))
}

func TestOverride(t *testing.T) {
	v := "from-profile"
	override(&v, "", "  ")
	assert.Equal(t, "from-profile", v)
	override(&v, "from-env", "from-flag")
	assert.Equal(t, "from-flag", v)
}
