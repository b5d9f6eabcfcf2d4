// Package docs holds the OpenAPI description served under /swagger/.
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
		"/customers": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "List customers",
				"description": "Lists every customer, or the one matching the optional id.",
				"parameters": [
					{
						"type": "string",
						"description": "Customer ID",
						"name": "id",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/customer.Customer"
							}
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Create customer",
				"parameters": [
					{
						"description": "Customer",
						"name": "customer",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/customer.Input"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/customer.Customer"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			}
		},
		"/customers/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Get customer",
				"parameters": [
					{
						"type": "string",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/customer.Customer"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			},
			"put": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"customers"
				],
				"summary": "Update customer",
				"parameters": [
					{
						"type": "string",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "customer",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/customer.Input"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/customer.Customer"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"customers"
				],
				"summary": "Delete customer",
				"parameters": [
					{
						"type": "string",
						"description": "Customer ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			}
		},
		"/orders": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "List orders",
				"description": "Lists every order, or the one matching the optional id.",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/order.Order"
							}
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Create order",
				"parameters": [
					{
						"description": "Order",
						"name": "order",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/order.Input"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/order.Order"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			}
		},
		"/orders/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Get order",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/order.Order"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			},
			"put": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Update order",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "order",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/order.Input"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/order.Order"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"orders"
				],
				"summary": "Delete order",
				"parameters": [
					{
						"type": "string",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/api.errorResponse"
						}
					}
				}
			}
		},
		"/health": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.healthResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/api.healthResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"api.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"fields": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"api.healthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"database": {
					"type": "string"
				}
			}
		},
		"customer.Input": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 100
				},
				"cpf": {
					"type": "string",
					"minLength": 11,
					"maxLength": 11
				},
				"phone": {
					"type": "string",
					"maxLength": 20
				},
				"email": {
					"type": "string",
					"maxLength": 50
				},
				"address": {
					"type": "string",
					"maxLength": 250
				}
			}
		},
		"customer.Customer": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"maxLength": 100
				},
				"cpf": {
					"type": "string",
					"minLength": 11,
					"maxLength": 11
				},
				"phone": {
					"type": "string",
					"maxLength": 20
				},
				"email": {
					"type": "string",
					"maxLength": 50
				},
				"address": {
					"type": "string",
					"maxLength": 250
				}
			}
		},
		"order.Input": {
			"type": "object",
			"properties": {
				"customerId": {
					"type": "string"
				},
				"orderDate": {
					"type": "string",
					"example": "2024-06-01"
				},
				"deliveryType": {
					"type": "string",
					"maxLength": 10
				},
				"distanceKm": {
					"type": "string",
					"example": "12.50"
				},
				"weightKg": {
					"type": "string",
					"example": "12.50"
				},
				"rateDistance": {
					"type": "string",
					"example": "12.50"
				},
				"rateWeight": {
					"type": "string",
					"example": "12.50"
				},
				"deliveryStatus": {
					"type": "string",
					"maxLength": 20
				}
			}
		},
		"order.Order": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"customerName": {
					"type": "string"
				},
				"customerId": {
					"type": "string"
				},
				"orderDate": {
					"type": "string",
					"example": "2024-06-01"
				},
				"deliveryType": {
					"type": "string",
					"maxLength": 10
				},
				"distanceKm": {
					"type": "string",
					"example": "12.50"
				},
				"weightKg": {
					"type": "string",
					"example": "12.50"
				},
				"rateDistance": {
					"type": "string",
					"example": "12.50"
				},
				"rateWeight": {
					"type": "string",
					"example": "12.50"
				},
				"distanceCharge": {
					"type": "string",
					"example": "12.50"
				},
				"weightCharge": {
					"type": "string",
					"example": "12.50"
				},
				"surcharge": {
					"type": "string",
					"example": "12.50"
				},
				"discount": {
					"type": "string",
					"example": "12.50"
				},
				"extraFee": {
					"type": "string",
					"example": "12.50"
				},
				"finalTotal": {
					"type": "string",
					"example": "12.50"
				},
				"deliveryStatus": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DeliveryFlow API",
	Description:      "API for managing customers and priced delivery orders",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
