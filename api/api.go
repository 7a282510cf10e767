// Package api holds the published description of the REST surface.
package api

import _ "embed"

// SwaggerJSON is the OpenAPI 2.0 document served at /swagger/doc.json.
//
//go:embed swagger/users.swagger.json
var SwaggerJSON []byte
