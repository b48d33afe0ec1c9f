package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Momentum API Documentation",
        "title": "Momentum API",
        "version": "1.0"
    },
    "host": "localhost:5000",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/workspace": {
            "get": {
                "tags": ["Workspace"],
                "summary": "Workspace snapshot",
                "description": "Full workspace: tabs, sections, tasks and the event calendar",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Workspace snapshot"
                    }
                }
            }
        },
        "/tabs": {
            "post": {
                "tags": ["Tabs"],
                "summary": "Create tab",
                "description": "Create a new tab and make it active",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "tab",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "title": {
                                    "type": "string",
                                    "example": "Work"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Tab created"
                    }
                }
            }
        },
        "/tabs/{id}": {
            "patch": {
                "tags": ["Tabs"],
                "summary": "Update tab",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Tab updated"
                    },
                    "404": {
                        "description": "Tab not found"
                    }
                }
            },
            "delete": {
                "tags": ["Tabs"],
                "summary": "Delete tab",
                "description": "Deleting the last remaining tab is refused",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Tab deleted"
                    },
                    "404": {
                        "description": "Tab not found"
                    },
                    "409": {
                        "description": "Cannot delete the last tab"
                    }
                }
            }
        },
        "/tabs/import": {
            "post": {
                "tags": ["Tabs"],
                "summary": "Import tab",
                "description": "Create a tab from an exported document; all ids are regenerated",
                "consumes": ["application/json"],
                "responses": {
                    "201": {
                        "description": "Tab imported"
                    },
                    "400": {
                        "description": "Invalid document"
                    }
                }
            }
        },
        "/tabs/{id}/export": {
            "get": {
                "tags": ["Tabs"],
                "summary": "Export tab",
                "description": "Download the tab as an id-stripped JSON document",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Exported document"
                    },
                    "404": {
                        "description": "Tab not found"
                    }
                }
            }
        },
        "/tasks": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Create task",
                "consumes": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "task",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "sectionId": {
                                    "type": "string"
                                },
                                "text": {
                                    "type": "string",
                                    "example": "Review pull request"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Task created"
                    },
                    "404": {
                        "description": "Section not found"
                    }
                }
            }
        },
        "/events": {
            "put": {
                "tags": ["Events"],
                "summary": "Save event",
                "description": "Create or update a calendar event; task-linked events set the task deadline",
                "consumes": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Event saved"
                    },
                    "400": {
                        "description": "Invalid event payload"
                    }
                }
            }
        },
        "/events/{date}": {
            "get": {
                "tags": ["Events"],
                "summary": "Events on a date",
                "parameters": [
                    {
                        "in": "path",
                        "name": "date",
                        "type": "string",
                        "required": true,
                        "description": "Date key, YYYY-MM-DD"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Events on the date"
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User Login",
                "description": "Login with username and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "description": "Login credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "username": {
                                    "type": "string",
                                    "example": "demo"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "demo1234"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Momentum API",
	Description:      "Momentum API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
