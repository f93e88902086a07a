// Package lambda serves the API from AWS Lambda behind API Gateway.
package lambda

import (
	"fmt"

	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

// API Gateway payload formats
const (
	// FormatV1 is the REST API proxy integration payload
	FormatV1 = "v1"
	// FormatV2 is the HTTP API and function URL payload
	FormatV2 = "v2"
)

// NewHandler returns a handler for lambda.Start that serves engine for the
// given payload format.
func NewHandler(engine *gin.Engine, format string) (any, error) {
	switch format {
	case "", FormatV1:
		return ginadapter.New(engine).ProxyWithContext, nil
	case FormatV2:
		return ginadapter.NewV2(engine).ProxyWithContext, nil
	}
	return nil, fmt.Errorf("unsupported lambda event format %q", format)
}
