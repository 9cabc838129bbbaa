// Package docs holds the swagger document for the session API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {
            "get": {
                "description": "Returns what the page would show for the current session. Any pending notice is consumed.",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get session state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SessionView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Discards the current session. The next request is given a new, empty session.",
                "tags": ["session"],
                "summary": "Start over",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/session/upload": {
            "post": {
                "description": "Forwards the file to the MCQ service and records its stored path on the session",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Upload a document",
                "parameters": [
                    {"type": "file", "description": "Document (pdf, txt or docx)", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionUploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/session/generate": {
            "post": {
                "description": "Generates questions from the session's uploaded document and returns root-relative download links",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Generate MCQs",
                "parameters": [
                    {"description": "Question count", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SessionGenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionGenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Notice": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "domain.SessionView": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "file_name": {"type": "string"},
                "file_path": {"type": "string"},
                "mcq_section_visible": {"type": "boolean"},
                "generate_enabled": {"type": "boolean"},
                "results_visible": {"type": "boolean"},
                "num_questions": {"type": "integer"},
                "download_text_url": {"type": "string"},
                "download_pdf_url": {"type": "string"},
                "notice": {"$ref": "#/definitions/domain.Notice"}
            }
        },
        "dto.SessionGenerateRequest": {
            "description": "Request body for generating MCQs",
            "type": "object",
            "properties": {
                "num_questions": {"type": "string", "example": "5"}
            }
        },
        "dto.SessionGenerateResponse": {
            "description": "Generation result with root-prefixed download links",
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "text_file": {"type": "string"},
                "pdf_file": {"type": "string"},
                "num_questions": {"type": "integer"},
                "stale": {"type": "boolean"}
            }
        },
        "dto.SessionUploadResponse": {
            "description": "Upload result",
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "file_name": {"type": "string"},
                "file_path": {"type": "string"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "MCQ Portal API",
	Description:      "Upload a document and generate multiple-choice questions from it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
