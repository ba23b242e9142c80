package core

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// GinMode maps the environment to the gin engine mode used by the HTTP servers.
func (e Environment) GinMode() string {
	switch e {
	case Production, Staging:
		return gin.ReleaseMode
	case Testing:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// ParseEnvironment normalises the provided value into one of the known environments.
// Unknown values fall back to Development so local runs start with verbose logging.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}
