// Package docs 注册 Swagger 文档，由 swag 生成的结构
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
        "/api/v1/auth/register": {
            "post": {
                "tags": ["认证"],
                "summary": "用户注册",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.RegisterRequest"}}],
                "responses": {"200": {"description": "注册成功", "schema": {"$ref": "#/definitions/api.Response"}}, "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["认证"],
                "summary": "用户登录",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}],
                "responses": {"200": {"description": "登录成功", "schema": {"$ref": "#/definitions/api.Response"}}, "401": {"description": "邮箱或密码错误", "schema": {"$ref": "#/definitions/api.Response"}}, "429": {"description": "登录过于频繁"}}
            }
        },
        "/api/v1/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["认证"],
                "summary": "获取用户信息",
                "responses": {"200": {"description": "用户信息", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/auth/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["认证"],
                "summary": "修改密码",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.ChangePasswordRequest"}}],
                "responses": {"200": {"description": "修改成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/budgets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "预算列表",
                "parameters": [
                    {"type": "string", "name": "label", "in": "query"},
                    {"type": "string", "name": "active_on", "in": "query"}
                ],
                "responses": {"200": {"description": "预算列表", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "创建预算",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CreateBudgetRequest"}}],
                "responses": {"200": {"description": "创建成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/budgets/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "预算详情",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "预算", "schema": {"$ref": "#/definitions/api.Response"}}, "404": {"description": "预算不存在"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "更新预算",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.UpdateBudgetRequest"}}
                ],
                "responses": {"200": {"description": "更新成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "删除预算",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["消费记录"],
                "summary": "消费记录列表",
                "parameters": [
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "string", "name": "start", "in": "query"},
                    {"type": "string", "name": "end", "in": "query"},
                    {"type": "integer", "name": "budget_id", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "消费记录", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["消费记录"],
                "summary": "创建消费记录",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CreateExpenseRequest"}}],
                "responses": {"200": {"description": "创建成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/expenses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["消费记录"],
                "summary": "消费记录详情",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "消费记录", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["消费记录"],
                "summary": "更新消费记录",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.UpdateExpenseRequest"}}
                ],
                "responses": {"200": {"description": "更新成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["消费记录"],
                "summary": "删除消费记录",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/assistant": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["助手"],
                "summary": "助手问答",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.AssistantRequest"}}],
                "responses": {"200": {"description": "回复", "schema": {"$ref": "#/definitions/assistant.Reply"}}, "400": {"description": "请求体不是合法 JSON"}}
            }
        },
        "/api/v1/export/csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["导出"],
                "summary": "导出 CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"type": "string", "name": "start", "in": "query", "required": true},
                    {"type": "string", "name": "end", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "CSV 文件"}}
            }
        },
        "/api/v1/export/excel": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["导出"],
                "summary": "导出 Excel",
                "parameters": [
                    {"type": "string", "name": "start", "in": "query", "required": true},
                    {"type": "string", "name": "end", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "Excel 文件"}}
            }
        },
        "/api/v1/admin/budgets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["管理员"],
                "summary": "所有预算（管理员）",
                "parameters": [{"type": "integer", "name": "user_id", "in": "query"}],
                "responses": {"200": {"description": "预算列表", "schema": {"$ref": "#/definitions/api.Response"}}, "403": {"description": "非管理员"}}
            }
        },
        "/api/v1/admin/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["管理员"],
                "summary": "所有消费记录（管理员）",
                "parameters": [{"type": "integer", "name": "user_id", "in": "query"}],
                "responses": {"200": {"description": "消费记录", "schema": {"$ref": "#/definitions/api.Response"}}, "403": {"description": "非管理员"}}
            }
        },
        "/api/v1/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["管理员"],
                "summary": "用户列表（管理员）",
                "responses": {"200": {"description": "用户列表", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/admin/users/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["管理员"],
                "summary": "删除用户（管理员）",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "api.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "name": {"type": "string", "example": "Ada"},
                "password": {"type": "string", "minLength": 8, "example": "password123"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "api.ChangePasswordRequest": {
            "type": "object",
            "required": ["new_password", "old_password"],
            "properties": {
                "new_password": {"type": "string", "minLength": 8},
                "old_password": {"type": "string"}
            }
        },
        "api.CreateBudgetRequest": {
            "type": "object",
            "required": ["amount", "end_date", "label", "start_date"],
            "properties": {
                "amount": {"type": "string", "example": "150000.00"},
                "end_date": {"type": "string", "example": "2025-10-31"},
                "label": {"type": "string", "example": "Groceries"},
                "start_date": {"type": "string", "example": "2025-10-01"}
            }
        },
        "api.UpdateBudgetRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "end_date": {"type": "string"},
                "label": {"type": "string"},
                "start_date": {"type": "string"}
            }
        },
        "api.CreateExpenseRequest": {
            "type": "object",
            "required": ["amount", "description", "expense_date"],
            "properties": {
                "amount": {"type": "string", "example": "3500.00"},
                "budget_id": {"type": "integer", "example": 1},
                "description": {"type": "string", "example": "Lunch"},
                "expense_date": {"type": "string", "example": "2025-10-15"}
            }
        },
        "api.UpdateExpenseRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "budget_id": {"type": "integer"},
                "clear_budget": {"type": "boolean"},
                "description": {"type": "string"},
                "expense_date": {"type": "string"}
            }
        },
        "api.AssistantRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "total this month"}
            }
        },
        "assistant.Reply": {
            "type": "object",
            "properties": {
                "reply": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "date_depense": {"type": "string"},
                            "objet": {"type": "string"},
                            "montant": {"type": "string"}
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CashLog API",
	Description:      "预算与消费记录 API，附带规则助手",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
