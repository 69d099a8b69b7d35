// Package docs registers the OpenAPI description of the blog interaction API.
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
        "/auth/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionResponse"}}}
            }
        },
        "/comments/{id}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Edit comment",
                "parameters": [
                    {"type": "string", "description": "Comment id", "name": "id", "in": "path", "required": true},
                    {"description": "New body", "name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"content": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CommentEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Delete comment",
                "parameters": [{"type": "string", "description": "Comment id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{slug}/comments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "List comments",
                "parameters": [{"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CommentList"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comments"],
                "summary": "Create comment",
                "parameters": [
                    {"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true},
                    {"description": "Comment body", "name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"content": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CommentEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{slug}/likes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["interactions"],
                "summary": "Like state",
                "parameters": [{"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LikeState"}}}
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["interactions"],
                "summary": "Toggle like",
                "parameters": [{"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LikeState"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{slug}/views": {
            "get": {
                "produces": ["application/json"],
                "tags": ["interactions"],
                "summary": "View count",
                "parameters": [{"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ViewCount"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["interactions"],
                "summary": "Record view",
                "parameters": [
                    {"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true},
                    {"description": "Viewer session", "name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"sessionId": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ViewResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.AuthUser": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "display_name": {"type": "string"},
                "id": {"type": "string"},
                "provider": {"type": "string"},
                "user_name": {"type": "string"}
            }
        },
        "models.Comment": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "post_slug": {"type": "string"},
                "updated_at": {"type": "string"},
                "user": {"$ref": "#/definitions/models.CommentUser"},
                "user_id": {"type": "string"}
            }
        },
        "models.CommentEnvelope": {
            "type": "object",
            "properties": {"comment": {"$ref": "#/definitions/models.Comment"}}
        },
        "models.CommentList": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}},
                "total": {"type": "integer"}
            }
        },
        "models.CommentUser": {
            "type": "object",
            "properties": {
                "avatar_url": {"type": "string"},
                "display_name": {"type": "string"},
                "user_name": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.LikeState": {
            "type": "object",
            "properties": {"isLiked": {"type": "boolean"}, "likeCount": {"type": "integer"}}
        },
        "models.SessionResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/models.AuthUser"}}
        },
        "models.SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "models.ViewCount": {
            "type": "object",
            "properties": {"viewCount": {"type": "integer"}}
        },
        "models.ViewResult": {
            "type": "object",
            "properties": {"isNewView": {"type": "boolean"}, "viewCount": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "giho-blog interaction API",
	Description:      "Views, likes and comments for blog posts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
