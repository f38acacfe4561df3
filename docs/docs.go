// Package docs registers the OpenAPI document served under /swagger.
// Keep it in line with the handler annotations when routes change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/audit/logs": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Audit"
                ],
                "summary": "List audit logs",
                "description": "Page through the retained audit events, newest first",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Items per page (default 10)",
                        "name": "page_size",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Filter by outcome (SUCCESS or FAILURE)",
                        "name": "outcome",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/audit.ListLogsResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/audit/logs/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Audit"
                ],
                "summary": "Get one audit log",
                "description": "Get an audit event by ID",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/audit.Event"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/monitoring/check": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Monitoring"
                ],
                "summary": "Check every service now",
                "description": "Run a health check against every Tata service",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/monitoring.ServiceCheck"
                            }
                        }
                    }
                }
            }
        },
        "/monitoring/services": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Monitoring"
                ],
                "summary": "List service statuses",
                "description": "Latest health check result for every Tata service",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/monitoring.ServiceCheck"
                            }
                        }
                    }
                }
            }
        },
        "/monitoring/services/{name}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Monitoring"
                ],
                "summary": "Get one service status",
                "description": "Latest health check result for one service",
                "parameters": [
                    {
                        "type": "string",
                        "description": "name",
                        "name": "name",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/monitoring.ServiceCheck"
                        }
                    },
                    "404": {
                        "description": "Service not monitored",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/notifications": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Notifications"
                ],
                "summary": "Get notification delivery status",
                "description": "Report which delivery channels are enabled",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.StatusResponse"
                        }
                    }
                }
            }
        },
        "/notifications/test": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Notifications"
                ],
                "summary": "Send a test notification",
                "description": "Send a test email through the configured SMTP server",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.TestResponse"
                        }
                    },
                    "400": {
                        "description": "Email notifications disabled",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Delivery failed",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/snapshots": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Snapshots"
                ],
                "summary": "List snapshots",
                "description": "List stored template snapshots, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/service.SnapshotDTO"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Snapshots"
                ],
                "summary": "Create a snapshot",
                "description": "Write a snapshot of every template now",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/service.SnapshotDTO"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/snapshots/{name}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Snapshots"
                ],
                "summary": "Download a snapshot",
                "description": "Return the stored snapshot document",
                "parameters": [
                    {
                        "type": "string",
                        "description": "name",
                        "name": "name",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid snapshot name",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Snapshot not found",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/snapshots/{name}/restore": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Snapshots"
                ],
                "summary": "Restore a snapshot",
                "description": "Write every template in the snapshot back to the store",
                "parameters": [
                    {
                        "type": "string",
                        "description": "name",
                        "name": "name",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/service.RestoreResult"
                        }
                    },
                    "400": {
                        "description": "Invalid snapshot",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Snapshot not found",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "List all templates",
                "description": "Return the template of every configured node type",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.TemplatesResponse"
                        }
                    },
                    "500": {
                        "description": "Store failure",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Replace a template band",
                "description": "Replace the configuration of one band for one node type",
                "parameters": [
                    {
                        "description": "Band update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.UpdateBandRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.UpdateBandResponse"
                        }
                    },
                    "400": {
                        "description": "Missing fields or invalid node type/band",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Band data is not valid JSON",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Store failure",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/bands": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "List bands",
                "description": "List the configuration bands every template is divided into",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/silo.Band"
                            }
                        }
                    }
                }
            }
        },
        "/template-silos/compare/{bandId}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Compare a band across node types",
                "description": "Render one band's fields side by side for every node type",
                "parameters": [
                    {
                        "type": "string",
                        "description": "bandId",
                        "name": "bandId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi",
                        "description": "Field paths to compare instead of the band presets",
                        "name": "field",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.CompareResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid field path",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Unknown band",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/export": {
            "get": {
                "produces": [
                    "application/json",
                    "application/yaml"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Export templates",
                "description": "Download every template as one JSON or YAML document",
                "parameters": [
                    {
                        "type": "string",
                        "description": "json or yaml",
                        "name": "format",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.TemplatesResponse"
                        }
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/import": {
            "post": {
                "consumes": [
                    "application/json",
                    "application/yaml"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Import templates",
                "description": "Replace templates from a JSON or YAML document",
                "parameters": [
                    {
                        "type": "string",
                        "description": "json or yaml",
                        "name": "format",
                        "in": "query"
                    },
                    {
                        "description": "Templates document",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.TemplatesResponse"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.ImportResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid node type or band",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Malformed document",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/nodes": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "List node types",
                "description": "List node types with their completion percentage",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/http.NodeTypeResponse"
                            }
                        }
                    },
                    "500": {
                        "description": "Store failure",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/summary": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Completion summary",
                "description": "Per-node and per-band completion overview",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/compare.Overview"
                        }
                    },
                    "500": {
                        "description": "Store failure",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/{nodeType}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Get a node's template",
                "description": "Return one node type's template",
                "parameters": [
                    {
                        "type": "string",
                        "description": "nodeType",
                        "name": "nodeType",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Unknown node type",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/{nodeType}/env": {
            "get": {
                "produces": [
                    "text/plain"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Render a node's environment file",
                "description": "Render a node's template as KEY=value lines",
                "parameters": [
                    {
                        "type": "string",
                        "description": "nodeType",
                        "name": "nodeType",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Unknown node type",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/template-silos/{nodeType}/{bandId}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "template-silos"
                ],
                "summary": "Get one band of a node's template",
                "description": "Return one band of one node type's template",
                "parameters": [
                    {
                        "type": "string",
                        "description": "nodeType",
                        "name": "nodeType",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "bandId",
                        "name": "bandId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.BandResponse"
                        }
                    },
                    "404": {
                        "description": "Unknown node type or band",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "audit.Event": {
            "type": "object",
            "properties": {
                "affectedResource": {
                    "type": "string"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": true
                },
                "eventOutcome": {
                    "type": "string",
                    "enum": [
                        "SUCCESS",
                        "FAILURE"
                    ]
                },
                "eventSource": {
                    "type": "string"
                },
                "eventType": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "requestId": {
                    "type": "string"
                },
                "severity": {
                    "type": "string",
                    "enum": [
                        "INFO",
                        "WARNING",
                        "CRITICAL"
                    ]
                },
                "sourceIp": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "audit.ListLogsResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/audit.Event"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "compare.BandSummary": {
            "type": "object",
            "properties": {
                "bandId": {
                    "type": "string"
                },
                "coverage": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "compare.NodeSummary": {
            "type": "object",
            "properties": {
                "bands": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "boolean"
                    }
                },
                "completion": {
                    "type": "integer"
                },
                "configured": {
                    "type": "integer"
                },
                "nodeType": {
                    "type": "string"
                },
                "total": {
                    "type": "integer"
                },
                "version": {
                    "type": "string"
                }
            }
        },
        "compare.Overview": {
            "type": "object",
            "properties": {
                "bands": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/compare.BandSummary"
                    }
                },
                "nodes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/compare.NodeSummary"
                    }
                }
            }
        },
        "compare.Row": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                },
                "values": {
                    "type": "object",
                    "additionalProperties": {}
                }
            }
        },
        "http.BandResponse": {
            "type": "object",
            "properties": {
                "bandId": {
                    "type": "string"
                },
                "configured": {
                    "type": "boolean"
                },
                "data": {
                    "type": "object"
                },
                "nodeType": {
                    "type": "string"
                }
            }
        },
        "http.CompareResponse": {
            "type": "object",
            "properties": {
                "bandId": {
                    "type": "string"
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/compare.Row"
                    }
                }
            }
        },
        "http.ImportResponse": {
            "type": "object",
            "properties": {
                "imported": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "http.NodeTypeResponse": {
            "type": "object",
            "properties": {
                "completion": {
                    "type": "integer"
                },
                "defaultPort": {
                    "type": "integer"
                },
                "icon": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "service": {
                    "type": "string"
                }
            }
        },
        "http.StatusResponse": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "boolean"
                }
            }
        },
        "http.TemplatesResponse": {
            "type": "object",
            "properties": {
                "templates": {
                    "type": "object"
                }
            }
        },
        "http.TestResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "http.UpdateBandRequest": {
            "type": "object",
            "required": [
                "bandId",
                "data",
                "nodeType"
            ],
            "properties": {
                "bandId": {
                    "type": "string"
                },
                "data": {
                    "type": "object"
                },
                "nodeType": {
                    "type": "string"
                }
            }
        },
        "http.UpdateBandResponse": {
            "type": "object",
            "properties": {
                "bandId": {
                    "type": "string"
                },
                "nodeType": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "monitoring.ServiceCheck": {
            "type": "object",
            "properties": {
                "checkedAt": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "failureCount": {
                    "type": "integer"
                },
                "responseTime": {
                    "type": "integer"
                },
                "service": {
                    "type": "string"
                },
                "since": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "unknown",
                        "up",
                        "down"
                    ]
                },
                "statusCode": {
                    "type": "integer"
                },
                "url": {
                    "type": "string"
                }
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {
                    "type": "object",
                    "additionalProperties": true
                },
                "error": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "service.RestoreResult": {
            "type": "object",
            "properties": {
                "restored": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "snapshot": {
                    "type": "string"
                }
            }
        },
        "service.SnapshotDTO": {
            "type": "object",
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "nodes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "size": {
                    "type": "integer"
                }
            }
        },
        "silo.Band": {
            "type": "object",
            "properties": {
                "color": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "icon": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8100",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Tata Template Silo API",
	Description:      "API server for the Tata AI configuration templates, service health and template snapshots",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
