package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers_FallBackOnBadValues(t *testing.T) {
	t.Setenv("PFM_TEST_INT", "twelve")
	t.Setenv("PFM_TEST_BOOL", "yes please")
	t.Setenv("PFM_TEST_DURATION", "90")
	t.Setenv("PFM_TEST_FLOAT", "")

	assert.Equal(t, 12, envInt("PFM_TEST_INT", 12))
	assert.True(t, envBool("PFM_TEST_BOOL", true))
	assert.Equal(t, time.Minute, envDuration("PFM_TEST_DURATION", time.Minute))
	assert.Equal(t, 1.5, envFloat("PFM_TEST_FLOAT", 1.5))
	assert.Equal(t, "fallback", envString("PFM_TEST_UNSET_KEY", "fallback"))
}

func TestEnvList(t *testing.T) {
	t.Setenv("PFM_TEST_LIST", " a , ,b,")
	assert.Equal(t, []string{"a", "b"}, envList("PFM_TEST_LIST", nil))

	t.Setenv("PFM_TEST_LIST", " , ")
	assert.Equal(t, []string{"*"}, envList("PFM_TEST_LIST", []string{"*"}))
}
