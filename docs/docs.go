// Package docs registers the hand-authored OpenAPI document the Swagger UI
// route in cmd/graphquerycompiler serves. Hand-authored rather than
// swag init-generated: the single translate route is small enough to write
// directly, and doing so avoids a generator step for one endpoint. The
// registration shape (a swag.Spec wrapping a JSON template, registered by
// instance name in an init func) matches what `swag init` itself would
// have produced, so the serving side (httpSwagger.WrapHandler) needs no
// special-casing.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/query/translate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Translate an AASQL query into a Cypher-family query",
                "parameters": [
                    {
                        "description": "AASQL query document",
                        "name": "query",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/main.translateResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/main.errorResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/main.errorResponse"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Report service liveness",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "main.translateResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string"}
            }
        },
        "main.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds the registered spec; clients may override Host/BasePath
// before the server starts serving requests.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Graph Query Compiler API",
	Description:      "AASQL-to-Cypher graph query translation for the Asset Administration Shell metamodel",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
