// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/tracker_backend/main.go -o cmd/docs`.
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
        "/accounts": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "List accounts for the logged-in user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListAccountsResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["accounts"], "summary": "Create a new account",
                "parameters": [{"description": "Account details", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAccountRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AccountResponse"}}}}
        },
        "/accounts/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "Get an account by ID",
                "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Delete an account",
                "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/summary": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "Account balances in one currency",
                "parameters": [{"type": "string", "name": "displayCurrency", "in": "query"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/categories": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["categories"], "summary": "Create a category",
                "responses": {"201": {"description": "Created"}}}
        },
        "/transactions": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["transactions"], "summary": "List transactions, newest first",
                "parameters": [
                    {"type": "string", "name": "accountID", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "string", "name": "nextToken", "in": "query"},
                    {"type": "string", "name": "displayCurrency", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["transactions"], "summary": "Record income or an expense",
                "responses": {"201": {"description": "Created"}}}
        },
        "/transactions/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Delete a transaction",
                "parameters": [{"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/transfers": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["transfers"], "summary": "Move money between two accounts",
                "responses": {"201": {"description": "Created"}}}
        },
        "/recurring-rules": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["recurring"], "summary": "List recurring rules", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["recurring"], "summary": "Schedule a recurring transaction", "responses": {"201": {"description": "Created"}}}
        },
        "/recurring-rules/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Deactivate a recurring rule",
                "parameters": [{"type": "string", "description": "Rule ID", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/recurring-rules/process": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["recurring"], "summary": "Materialize due recurring transactions", "responses": {"200": {"description": "OK"}}}
        },
        "/exchange-rates": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["exchange-rates"], "summary": "Current exchange rates", "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["dashboard"], "summary": "Dashboard", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "dto.CreateAccountRequest": {
            "type": "object",
            "required": ["accountType", "currencyCode", "name"],
            "properties": {
                "accountType": {"type": "string", "enum": ["checking", "savings", "credit", "cash"]},
                "currencyCode": {"type": "string"},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "accountID": {"type": "string"},
                "accountType": {"type": "string"},
                "balance": {"type": "number"},
                "balanceMinor": {"type": "integer"},
                "currencyCode": {"type": "string"},
                "formattedBalance": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "dto.ListAccountsResponse": {
            "type": "object",
            "properties": {
                "accounts": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Finance Tracker API",
	Description:      "Personal finance ledger: accounts, transactions, transfers and recurring rules.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
