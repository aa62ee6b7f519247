package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	assert.NoError(t, err)
	assert.Contains(t, doc, `"/auth/login"`)
	assert.Contains(t, doc, `"host": "localhost:8080"`)
}

func TestSwaggerDocHonorsHostOverride(t *testing.T) {
	orig := SwaggerInfo.Host
	defer func() { SwaggerInfo.Host = orig }()

	SwaggerInfo.Host = "api.example.com"
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	assert.NoError(t, err)
	assert.Contains(t, doc, `"host": "api.example.com"`)
}
