// Package docs holds the OpenAPI description served at /swagger.
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
            "get": {"tags": ["accounts"], "summary": "List the chart of accounts", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["accounts"], "summary": "Register an account",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "account", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}, "409": {"description": "Account ID already registered"}}
            }
        },
        "/accounts/{accountID}": {
            "get": {"tags": ["accounts"], "summary": "Get an account by ID", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}}
        },
        "/accounts/{accountID}/children": {
            "get": {"tags": ["accounts"], "summary": "List the direct children of an account", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/events": {
            "get": {"tags": ["accounts"], "summary": "List the structural edits of an account", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/eligibility": {
            "get": {"tags": ["accounts"], "summary": "Check whether an account may receive legs", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/type": {
            "patch": {"tags": ["accounts"], "summary": "Change the type of an account", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "body", "name": "edit", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "409": {"description": "Concurrent edit"}}}
        },
        "/accounts/{accountID}/parent": {
            "patch": {"tags": ["accounts"], "summary": "Move an account in the hierarchy", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "body", "name": "edit", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input or cycle"}}}
        },
        "/accounts/{accountID}/role": {
            "patch": {"tags": ["accounts"], "summary": "Switch an account between POSTING and SUMMARY", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "body", "name": "edit", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/deactivate": {
            "post": {"tags": ["accounts"], "summary": "Deactivate an account", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "body", "name": "edit", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/reactivate": {
            "post": {"tags": ["accounts"], "summary": "Reactivate an account", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "body", "name": "edit", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/balance": {
            "get": {"tags": ["balances"], "summary": "Get an account balance", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "query", "name": "asOf", "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}}
        },
        "/accounts/{accountID}/period-balance": {
            "get": {"tags": ["balances"], "summary": "Get an account's activity over a period", "parameters": [{"in": "path", "name": "accountID", "type": "string", "required": true}, {"in": "query", "name": "from", "type": "string", "required": true}, {"in": "query", "name": "to", "type": "string", "required": true}, {"in": "query", "name": "currency", "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}}
        },
        "/reports/trial-balance": {
            "get": {"tags": ["reports"], "summary": "Generate a trial balance", "parameters": [{"in": "query", "name": "asOf", "type": "string"}, {"in": "query", "name": "accountIDs", "type": "string"}, {"in": "query", "name": "currency", "type": "string"}], "responses": {"200": {"description": "OK"}, "500": {"description": "Ledger failed to reconcile"}}}
        },
        "/journals": {
            "get": {"tags": ["journals"], "summary": "List committed entries in sequence order", "parameters": [{"in": "query", "name": "source", "type": "string"}, {"in": "query", "name": "limit", "type": "integer", "default": 50}, {"in": "query", "name": "nextToken", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["journals"], "summary": "Submit a journal entry",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "entry", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid entry"}, "404": {"description": "Unknown account"}, "409": {"description": "Reference already committed"}, "422": {"description": "Entry does not balance"}}
            }
        },
        "/journals/lookup": {
            "get": {"tags": ["journals"], "summary": "Find an entry by its external reference", "parameters": [{"in": "query", "name": "source", "type": "string", "required": true}, {"in": "query", "name": "reference", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "No entry under that reference"}}}
        },
        "/journals/{journalID}": {
            "get": {"tags": ["journals"], "summary": "Get a committed journal entry", "parameters": [{"in": "path", "name": "journalID", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Entry not found"}}}
        },
        "/journals/{journalID}/reverse": {
            "post": {"tags": ["journals"], "summary": "Reverse a committed journal entry", "parameters": [{"in": "path", "name": "journalID", "type": "string", "required": true}, {"in": "body", "name": "reversal", "required": true, "schema": {"type": "object"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Entry already reversed"}}}
        },
        "/currencies": {
            "get": {"tags": ["currencies"], "summary": "List all currencies", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["currencies"], "summary": "Register a currency", "parameters": [{"in": "body", "name": "currency", "required": true, "schema": {"type": "object"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Currency code already exists"}}}
        },
        "/currencies/{currencyCode}": {
            "get": {"tags": ["currencies"], "summary": "Get a currency by code", "parameters": [{"in": "path", "name": "currencyCode", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Currency not found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ledger Engine API",
	Description:      "Double-entry ledger: chart of accounts, journal entries and balances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
