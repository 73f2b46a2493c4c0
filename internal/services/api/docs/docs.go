// Package docs holds the OpenAPI document of the enricher api
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/transactions/enrich": {
            "post": {
                "tags": ["Enrich"],
                "summary": "Enrich a batch of bank transactions",
                "description": "Validates the whole batch, then assigns a category, merchant and keyword to every transaction. One invalid item rejects the batch.",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {
                        "type": "array",
                        "items": {"$ref": "#/components/schemas/TransactionInput"}
                    }}}
                },
                "responses": {
                    "200": {
                        "description": "Enriched transactions in input order plus batch metrics",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/EnrichResponse"}}}
                    },
                    "413": {
                        "description": "Batch or body over the configured limit",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    },
                    "503": {
                        "description": "Knowledge base could not be built",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    }
                }
            }
        },
        "/knowledge/stats": {
            "get": {
                "tags": ["Knowledge"],
                "summary": "Sizes and age of the cached knowledge base",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/knowledge/invalidate": {
            "post": {
                "tags": ["Knowledge"],
                "summary": "Drop the cached knowledge base, the next enrichment rebuilds it",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/catalog/categories": {
            "get": {"tags": ["Catalog"], "summary": "List categories", "responses": {"200": {"description": "ok"}}},
            "post": {
                "tags": ["Catalog"],
                "summary": "Create a category",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CategoryInput"}}}},
                "responses": {"201": {"description": "created"}, "409": {"description": "duplicate name"}}
            }
        },
        "/catalog/categories/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a category",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace a category, omitted optional fields keep their value",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CategoryInput"}}}},
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "duplicate name"}}
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Update some fields of a category",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CategoryPatch"}}}},
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "duplicate name"}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete a category, refused while merchants reference it",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "responses": {"204": {"description": "deleted"}, "404": {"description": "not found"}, "409": {"description": "still referenced"}}
            }
        },
        "/catalog/merchants": {
            "get": {"tags": ["Catalog"], "summary": "List merchants", "responses": {"200": {"description": "ok"}}},
            "post": {
                "tags": ["Catalog"],
                "summary": "Create a merchant",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/MerchantInput"}}}},
                "responses": {"201": {"description": "created"}, "409": {"description": "duplicate name or unknown category"}}
            }
        },
        "/catalog/merchants/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a merchant",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace a merchant, omitted optional fields keep their value",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/MerchantInput"}}}},
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "duplicate name or unknown category"}}
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Update some fields of a merchant",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/MerchantPatch"}}}},
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "duplicate name or unknown category"}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete a merchant and its keywords",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "responses": {"204": {"description": "deleted"}, "404": {"description": "not found"}}
            }
        },
        "/catalog/keywords": {
            "get": {"tags": ["Catalog"], "summary": "List keywords", "responses": {"200": {"description": "ok"}}},
            "post": {
                "tags": ["Catalog"],
                "summary": "Create a keyword",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/KeywordInput"}}}},
                "responses": {"201": {"description": "created"}, "409": {"description": "duplicate phrase or unknown merchant"}}
            }
        },
        "/catalog/keywords/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a keyword",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace a keyword, omitted optional fields keep their value",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/KeywordInput"}}}},
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "duplicate phrase or unknown merchant"}}
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Update some fields of a keyword",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/KeywordPatch"}}}},
                "responses": {"200": {"description": "updated"}, "404": {"description": "not found"}, "409": {"description": "duplicate phrase or unknown merchant"}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete a keyword",
                "parameters": [{"$ref": "#/components/parameters/ID"}],
                "responses": {"204": {"description": "deleted"}, "404": {"description": "not found"}}
            }
        },
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness probe", "description": "postgres, clickhouse and the compiled knowledge base, a disabled backend is skipped", "responses": {"200": {"description": "ok"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
        "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info, uptime and mounted modules", "responses": {"200": {"description": "ok"}}}}
    },
    "components": {
        "parameters": {
            "ID": {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
        },
        "schemas": {
            "TransactionInput": {
                "type": "object",
                "required": ["description", "amount", "date"],
                "properties": {
                    "description": {"type": "string", "example": "UBER EATS PAGO"},
                    "amount": {"type": "number", "example": -12990.5},
                    "date": {"type": "string", "format": "date", "example": "2024-05-01"}
                }
            },
            "EnrichedTransaction": {
                "type": "object",
                "properties": {
                    "description": {"type": "string"},
                    "amount": {"type": "number"},
                    "date": {"type": "string", "format": "date"},
                    "enriched_category": {"$ref": "#/components/schemas/CategoryView"},
                    "enriched_merchant": {"$ref": "#/components/schemas/MerchantView"}
                }
            },
            "CategoryView": {
                "type": "object",
                "nullable": true,
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "name": {"type": "string"},
                    "type": {"type": "string", "enum": ["income", "expense"]},
                    "created_at": {"type": "string", "format": "date-time"},
                    "updated_at": {"type": "string", "format": "date-time"}
                }
            },
            "MerchantView": {
                "type": "object",
                "nullable": true,
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "merchant_name": {"type": "string"},
                    "merchant_logo": {"type": "string", "nullable": true},
                    "category": {"type": "string", "format": "uuid", "nullable": true},
                    "created_at": {"type": "string", "format": "date-time"},
                    "updated_at": {"type": "string", "format": "date-time"}
                }
            },
            "Metrics": {
                "type": "object",
                "properties": {
                    "total_transactions": {"type": "integer"},
                    "categorization_rate": {"type": "number", "example": 66.67},
                    "merchant_identification_rate": {"type": "number", "example": 33.33}
                }
            },
            "EnrichResponse": {
                "type": "object",
                "properties": {
                    "transactions": {"type": "array", "items": {"$ref": "#/components/schemas/EnrichedTransaction"}},
                    "metrics": {"$ref": "#/components/schemas/Metrics"}
                }
            },
            "CategoryInput": {
                "type": "object",
                "required": ["name", "type"],
                "properties": {
                    "name": {"type": "string", "maxLength": 100},
                    "type": {"type": "string", "enum": ["income", "expense"]}
                }
            },
            "MerchantInput": {
                "type": "object",
                "required": ["merchant_name"],
                "properties": {
                    "merchant_name": {"type": "string", "maxLength": 100},
                    "merchant_logo": {"type": "string", "format": "uri", "maxLength": 500},
                    "category": {"type": "string", "format": "uuid"}
                }
            },
            "KeywordInput": {
                "type": "object",
                "required": ["keyword"],
                "properties": {
                    "keyword": {"type": "string", "maxLength": 100},
                    "merchant": {"type": "string", "format": "uuid"}
                }
            },
            "CategoryPatch": {
                "type": "object",
                "properties": {
                    "name": {"type": "string", "maxLength": 100},
                    "type": {"type": "string", "enum": ["income", "expense"]}
                }
            },
            "MerchantPatch": {
                "type": "object",
                "description": "An empty merchant_logo or category clears it",
                "properties": {
                    "merchant_name": {"type": "string", "maxLength": 100},
                    "merchant_logo": {"type": "string", "format": "uri", "maxLength": 500},
                    "category": {"type": "string", "format": "uuid"}
                }
            },
            "KeywordPatch": {
                "type": "object",
                "description": "An empty merchant unassigns the keyword",
                "properties": {
                    "keyword": {"type": "string", "maxLength": 100},
                    "merchant": {"type": "string", "format": "uuid"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported spec info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Enricher API",
	Description:      "Categorizes bank transactions and identifies merchants from their free text descriptions.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
