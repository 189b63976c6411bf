// Package docs registers the OpenAPI document served by the Swagger UI.
// Regenerate with: swag init -g cmd/api/main.go
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
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Registration credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.RegisterResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "409": {"description": "Email or username already in use", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current identity",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.IdentityResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "List tasks",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/task.ListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Create task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Task", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/task.CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/task.TaskResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Update task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/task.UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/task.TaskResponse"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Delete task",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/httputil.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.HealthResponse": {
            "type": "object",
            "properties": {"ok": {"type": "boolean"}}
        },
        "auth.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "auth.LoginUserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "auth.RegisterResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/auth.UserResponse"}
            }
        },
        "auth.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/auth.LoginUserResponse"}
            }
        },
        "auth.IdentityResponse": {
            "type": "object",
            "properties": {
                "user": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "string"},
                        "username": {"type": "string"}
                    }
                }
            }
        },
        "task.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "done": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "task.CreateTaskRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}}
        },
        "task.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "done": {"type": "boolean"}
            }
        },
        "task.ListResponse": {
            "type": "object",
            "properties": {
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/task.Task"}}
            }
        },
        "task.TaskResponse": {
            "type": "object",
            "properties": {"task": {"$ref": "#/definitions/task.Task"}}
        },
        "httputil.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "details": {},
                "suggestions": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Task API",
	Description:      "Task management API with token authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
