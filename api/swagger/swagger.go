package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "OBE Attainment API",
        "description": "Course outcome attainment computation for outcome-based education",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attainment", "description": "Computed attainment reports"},
        {"name": "Thresholds", "description": "Per-course attainment configuration"},
        {"name": "Matrix", "description": "CO/PO correlation matrix editing"},
        {"name": "Tests", "description": "Tests and question schemes"},
        {"name": "Marks", "description": "Bulk mark sheet import"},
        {"name": "Exports", "description": "Downloadable report files"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/courses/{id}/attainment": {
            "get": {
                "tags": ["Attainment"],
                "summary": "Course attainment report",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found"},
                    "412": {"description": "No thresholds configured"}
                }
            }
        },
        "/courses/{id}/thresholds": {
            "get": {
                "tags": ["Thresholds"],
                "summary": "Course attainment thresholds",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Thresholds"],
                "summary": "Replace course attainment thresholds",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveThresholdsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid thresholds"}
                }
            }
        },
        "/courses/{id}/matrix": {
            "get": {
                "tags": ["Matrix"],
                "summary": "Course correlation matrix",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/matrix/cells": {
            "put": {
                "tags": ["Matrix"],
                "summary": "Update one matrix cell",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCellRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/matrix/import": {
            "post": {
                "tags": ["Matrix"],
                "summary": "Import matrix rows from tabular text",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Empty or unrecognisable payload"}
                }
            }
        },
        "/courses/{id}/matrix/commit": {
            "post": {
                "tags": ["Matrix"],
                "summary": "Persist pending matrix edits",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/matrix/draft": {
            "delete": {
                "tags": ["Matrix"],
                "summary": "Discard pending matrix edits",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/courses/{id}/tests": {
            "get": {
                "tags": ["Tests"],
                "summary": "Course tests with question schemes",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Tests"],
                "summary": "Register a test with its question scheme",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Question marks do not sum to full marks"}
                }
            }
        },
        "/courses/{id}/marks/import": {
            "post": {
                "tags": ["Marks"],
                "summary": "Import CO marks from tabular text",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Empty payload"}
                }
            }
        },
        "/courses/{id}/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Generate a downloadable attainment report",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generated report via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "SaveThresholdsRequest": {
            "type": "object",
            "required": ["co_threshold", "passing_threshold", "attainment_thresholds"],
            "properties": {
                "co_threshold": {"type": "number"},
                "passing_threshold": {"type": "number"},
                "attainment_thresholds": {"type": "array", "items": {"type": "number"}}
            }
        },
        "UpdateCellRequest": {
            "type": "object",
            "required": ["co", "po"],
            "properties": {
                "co": {"type": "string"},
                "po": {"type": "string"},
                "value": {"type": "integer"}
            }
        },
        "ImportRequest": {
            "type": "object",
            "required": ["payload"],
            "properties": {
                "payload": {"type": "string"},
                "delimiter": {"type": "string"}
            }
        },
        "CreateTestRequest": {
            "type": "object",
            "required": ["name", "full_marks", "questions"],
            "properties": {
                "name": {"type": "string"},
                "full_marks": {"type": "number"},
                "pass_marks": {"type": "number"},
                "questions": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "number": {"type": "integer"},
                            "sub_question": {"type": "string"},
                            "co": {"type": "integer"},
                            "max_marks": {"type": "number"},
                            "is_optional": {"type": "boolean"}
                        }
                    }
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
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
