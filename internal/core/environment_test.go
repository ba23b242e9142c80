package core

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment(" Production "))
	assert.Equal(t, Staging, ParseEnvironment("staging"))
	assert.Equal(t, Testing, ParseEnvironment("TESTING"))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("qa"))
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, Production.GinMode())
	assert.Equal(t, gin.ReleaseMode, Staging.GinMode())
	assert.Equal(t, gin.TestMode, Testing.GinMode())
	assert.Equal(t, gin.DebugMode, Development.GinMode())
	assert.True(t, Production.IsProduction())
	assert.False(t, Staging.IsProduction())
}
