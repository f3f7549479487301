// Package docs registers the hand-authored swagger spec with swaggo's
// runtime registry, the way `swag init` generates this file from struct
// annotations. No annotations are used here; the spec is maintained
// directly in swagger.json/swagger.yaml.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo holds the Swagger spec metadata swaggo's http-swagger UI
// reads when serving /swagger/doc.json.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Report Engine API",
	Description:      "Projects loan-application envelopes into report documents via a configurable rule set.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
