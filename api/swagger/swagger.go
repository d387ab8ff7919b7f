package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Festival CMS API",
        "description": "Backend for the film festival content management system",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Auth", "description": "Admin authentication"},
        {"name": "Plans", "description": "Session plan management"},
        {"name": "Days", "description": "Festival days inside a plan"},
        {"name": "Screens", "description": "Screens inside a day"},
        {"name": "Slots", "description": "Scheduled slots on a screen"},
        {"name": "Categories", "description": "Slot category registry"},
        {"name": "Attachments", "description": "PDF attachments and timetable exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an admin user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans": {
            "get": {
                "tags": ["Plans"],
                "summary": "List session plans",
                "parameters": [
                    {"name": "visible", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Plans"],
                "summary": "Create session plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}": {
            "get": {
                "tags": ["Plans"],
                "summary": "Get session plan",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Plans"],
                "summary": "Update session plan",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Plan modified concurrently", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Plans"],
                "summary": "Delete session plan",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/plans/{planId}/days": {
            "get": {
                "tags": ["Days"],
                "summary": "List days of a plan",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Days"],
                "summary": "Append a day to a plan",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDayRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}/days/{dayId}/screens/{screenId}/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "List slots of a screen",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "dayId", "in": "path", "required": true, "type": "string"},
                    {"name": "screenId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Slots"],
                "summary": "Schedule a slot on a screen",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "dayId", "in": "path", "required": true, "type": "string"},
                    {"name": "screenId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Time range overlaps a sibling slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{planId}/days/{dayId}/export": {
            "get": {
                "tags": ["Attachments"],
                "summary": "Export a day timetable as PDF or CSV",
                "parameters": [
                    {"name": "planId", "in": "path", "required": true, "type": "string"},
                    {"name": "dayId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List slot categories",
                "parameters": [
                    {"name": "visible", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create slot category",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreatePlanRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "festivalName": {"type": "string"},
                "isVisible": {"type": "boolean"}
            },
            "required": ["year", "festivalName"]
        },
        "UpdatePlanRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "festivalName": {"type": "string"},
                "isVisible": {"type": "boolean"}
            }
        },
        "CreateDayRequest": {
            "type": "object",
            "properties": {
                "dayNumber": {"type": "integer"},
                "date": {"type": "string"}
            },
            "required": ["dayNumber", "date"]
        },
        "CreateSlotRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "startTime": {"type": "string", "example": "18:30"},
                "endTime": {"type": "string", "example": "20:15"},
                "director": {"type": "string"},
                "moderator": {"type": "string"},
                "duration": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "order": {"type": "integer"}
            },
            "required": ["title", "startTime"]
        },
        "CreateCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "order": {"type": "integer"},
                "isVisible": {"type": "boolean"}
            },
            "required": ["name"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "suggestion": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
