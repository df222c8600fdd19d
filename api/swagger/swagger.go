package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Registration Portal API",
        "description": "Applicant registration intake and admin review",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Registrations", "description": "Full-form applicant records and review workflow"},
        {"name": "Simple Registrations", "description": "Reduced-schema intake path"}
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
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/registrations": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List registrations",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a registration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/registrations/stats": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Registration stats",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/registrations/export": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Export registrations",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/registrations/{id}": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Get a registration",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Registrations"],
                "summary": "Update registration status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "400": {"description": "Invalid status"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Registrations"],
                "summary": "Delete a registration",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/simple-registrations": {
            "get": {
                "tags": ["Simple Registrations"],
                "summary": "List simple registrations",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Simple Registrations"],
                "summary": "Submit a simple registration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSimpleRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error or duplicate email"}
                }
            }
        },
        "/simple-registrations/stats": {
            "get": {
                "tags": ["Simple Registrations"],
                "summary": "Simple registration stats",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "CreateRegistrationRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "phone", "dateOfBirth", "gender", "address", "city", "country", "program", "educationLevel", "institution", "graduationYear", "motivation"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "dateOfBirth": {"type": "string", "format": "date"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "program": {"type": "string"},
                "educationLevel": {"type": "string"},
                "institution": {"type": "string"},
                "graduationYear": {"type": "integer"},
                "motivation": {"type": "string", "minLength": 100}
            }
        },
        "CreateSimpleRegistrationRequest": {
            "type": "object",
            "required": ["name", "email", "mobile", "className"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string", "minLength": 8},
                "className": {"type": "string"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
