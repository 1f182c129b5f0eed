// Package docs registers the OpenAPI description served at /swagger.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/v1/tracking/{tracking_number}": {
            "get": {
                "description": "Resolves the carrier, fetches the timeline and returns the current status with an ETA.",
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Track a shipment",
                "parameters": [
                    {"type": "string", "description": "Tracking number", "name": "tracking_number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.trackingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/tracking/{tracking_number}/report": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["tracking"],
                "summary": "Plain-text tracking report",
                "parameters": [
                    {"type": "string", "description": "Tracking number", "name": "tracking_number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/tracking/batch": {
            "post": {
                "description": "Tracks every number independently; one failure does not affect the others.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Track several shipments",
                "parameters": [
                    {"description": "Tracking numbers", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.batchTrackingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Queues one carrier scan. Processing is asynchronous; duplicates are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Push a tracking event",
                "parameters": [
                    {"description": "Tracking event", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.trackingEventRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.acceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/events/batch": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Push several tracking events",
                "parameters": [
                    {"description": "Tracking events", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.trackingEventRequest"}}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.acceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores sender, recipient and package data. A tracking number is generated when none is given.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Register a shipment",
                "parameters": [
                    {"type": "string", "description": "Idempotency key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Shipment", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Idempotent replay"},
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{tracking_number}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shipments"],
                "summary": "Get a shipment record",
                "parameters": [
                    {"type": "string", "description": "Tracking number", "name": "tracking_number", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/shipments/{tracking_number}/preferences": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["shipments"],
                "summary": "Replace notification preferences",
                "parameters": [
                    {"type": "string", "description": "Tracking number", "name": "tracking_number", "in": "path", "required": true},
                    {"description": "Preferences", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "kind": {"type": "string", "enum": ["INVALID_FORMAT", "NOT_FOUND", "NETWORK_ERROR", "CARRIER_UNAVAILABLE"]}
            }
        },
        "handler.acceptedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "handler.batchTrackingRequest": {
            "type": "object",
            "required": ["tracking_numbers"],
            "properties": {
                "tracking_numbers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.trackingEventRequest": {
            "type": "object",
            "required": ["tracking_number", "status", "timestamp", "source"],
            "properties": {
                "tracking_number": {"type": "string"},
                "event_id": {"type": "string"},
                "status": {"type": "string"},
                "description": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "location": {"type": "string"},
                "source": {"type": "string"},
                "coordinates": {
                    "type": "object",
                    "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
                }
            }
        },
        "handler.trackingResponse": {
            "type": "object",
            "properties": {
                "tracking_number": {"type": "string"},
                "status": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "description": {"type": "string"},
                        "category": {"type": "string"},
                        "timestamp": {"type": "string", "format": "date-time"},
                        "location": {"type": "string"}
                    }
                },
                "type": {"type": "string", "enum": ["national", "international"]},
                "carrier": {"type": "string"},
                "carrier_id": {"type": "string"},
                "estimated_delivery": {"type": "string", "format": "date-time"},
                "actual_delivery": {"type": "string", "format": "date-time"},
                "timeline": {"type": "array", "items": {"type": "object"}},
                "current_location": {"type": "object"},
                "notifications": {"type": "array", "items": {"type": "object"}},
                "degraded": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tracking API",
	Description:      "Shipment tracking and status resolution across carriers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
