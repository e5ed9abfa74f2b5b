// Package docs holds the Swagger 2.0 document served under /docs. It is
// written by hand and kept in step with the handler annotations; docs_test
// checks that it renders and lists every API route.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/collections/{dbName}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "List collections",
                "parameters": [
                    {"type": "string", "description": "Database name", "name": "dbName", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CollectionsResponse"}},
                    "400": {"description": "Not connected", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/connect": {
            "post": {
                "description": "Opens a session from a connection string, replacing any current one",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Connection"],
                "summary": "Connect to MongoDB",
                "parameters": [
                    {"description": "Connection string", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ConnectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/databases": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "List databases",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DatabasesResponse"}},
                    "400": {"description": "Not connected", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/disconnect": {
            "post": {
                "description": "Closes the current session; succeeds when none is held",
                "produces": ["application/json"],
                "tags": ["Connection"],
                "summary": "Disconnect from MongoDB",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/documents/{dbName}/{collectionName}": {
            "get": {
                "description": "Returns up to limit documents in natural order and the total count",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "List documents",
                "parameters": [
                    {"type": "string", "description": "Database name", "name": "dbName", "in": "path", "required": true},
                    {"type": "string", "description": "Collection name", "name": "collectionName", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size (default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.DocumentPage"}},
                    "400": {"description": "Not connected", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports whether the gateway holds a MongoDB session",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service healthy", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/live": {
            "get": {
                "description": "Returns 200 if the service is alive",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "Service alive", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Returns 200 if the service is ready to accept traffic",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Service ready", "schema": {"$ref": "#/definitions/dto.ReadyResponse"}},
                    "503": {"description": "Service not ready", "schema": {"$ref": "#/definitions/dto.ReadyResponse"}}
                }
            }
        },
        "/stats/{dbName}/{collectionName}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Collection statistics",
                "parameters": [
                    {"type": "string", "description": "Database name", "name": "dbName", "in": "path", "required": true},
                    {"type": "string", "description": "Collection name", "name": "collectionName", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.CollectionStats"}},
                    "400": {"description": "Not connected", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "catalog.CollectionStats": {
            "type": "object",
            "properties": {
                "averageDocumentSize": {"type": "number"},
                "collectionSize": {"type": "integer"},
                "documentCount": {"type": "integer"},
                "indexCount": {"type": "integer"},
                "storageSize": {"type": "integer"}
            }
        },
        "catalog.DocumentPage": {
            "type": "object",
            "properties": {
                "documents": {"type": "array", "items": {"type": "object"}},
                "returnedCount": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "docdb.CollectionSummary": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "docdb.DatabaseSummary": {
            "type": "object",
            "properties": {
                "empty": {"type": "boolean"},
                "name": {"type": "string"},
                "sizeOnDisk": {"type": "integer"}
            }
        },
        "dto.CollectionsResponse": {
            "type": "object",
            "properties": {
                "collections": {"type": "array", "items": {"$ref": "#/definitions/docdb.CollectionSummary"}}
            }
        },
        "dto.ConnectRequest": {
            "type": "object",
            "properties": {
                "connectionString": {"type": "string"}
            }
        },
        "dto.DatabasesResponse": {
            "type": "object",
            "properties": {
                "databases": {"type": "array", "items": {"$ref": "#/definitions/docdb.DatabaseSummary"}}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "connected": {"type": "boolean"},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.ReadyResponse": {
            "type": "object",
            "properties": {
                "components": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Mongo Viewer API",
	Description:      "REST gateway over a single MongoDB session for browsing databases, collections and documents",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
