package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pb33f/libopenapi"

	"github.com/ebspulse/ebspulse/core/domain"
	"github.com/ebspulse/ebspulse/core/domain/interfaces"
)

// ReportPath returns the HTTP path serving a report
func ReportPath(name string) string {
	return "/api/" + name
}

// GenerateOpenAPISpec builds the OpenAPI 3 document for every catalog report and
// validates it with libopenapi.
func GenerateOpenAPISpec(catalog interfaces.Catalog, baseURL, version string) ([]byte, error) {
	paths := make(map[string]any)

	for _, stmt := range catalog.All() {
		paths[ReportPath(stmt.Name)] = map[string]any{
			"get": map[string]any{
				"summary":     stmt.Description,
				"operationId": "get" + toPascalCase(stmt.Name),
				"parameters":  openAPIParameters(stmt),
				"responses": map[string]any{
					"200": map[string]any{
						"description": "Report rows in database order",
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": rowsSchema(stmt),
							},
						},
					},
					"400": errorResponse("Invalid parameter"),
					"500": errorResponse("Report execution failed"),
					"503": errorResponse("Database unreachable"),
				},
			},
		}
	}

	paths["/api/test-connection"] = map[string]any{
		"get": map[string]any{
			"summary":     "Check database connectivity",
			"operationId": "testConnection",
			"responses": map[string]any{
				"200": map[string]any{"description": "Database reachable"},
				"503": errorResponse("Database unreachable"),
			},
		},
	}
	paths["/heartbeat"] = map[string]any{
		"get": map[string]any{
			"summary":     "Liveness check",
			"operationId": "heartbeat",
			"responses": map[string]any{
				"200": map[string]any{"description": "Server is running"},
			},
		},
	}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "EBS Pulse API",
			"version":     version,
			"description": "Read-only monitoring reports over Oracle E-Business Suite concurrent requests.",
		},
		"servers": []map[string]any{
			{"url": baseURL},
		},
		"paths": paths,
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"success": map[string]any{"type": "boolean", "example": false},
						"error":   map[string]any{"type": "string"},
						"code":    map[string]any{"type": "string"},
						"results": map[string]any{"type": "array", "items": map[string]any{}},
					},
				},
			},
		},
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}

	document, err := libopenapi.NewDocument(specJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create libopenapi document: %w", err)
	}
	if _, err := document.BuildV3Model(); err != nil {
		return nil, fmt.Errorf("failed to build v3 model (validation error): %w", err)
	}

	return specJSON, nil
}

// OpenAPIHandler serves the document built once at registration
func OpenAPIHandler(catalog interfaces.Catalog, baseURL, version string) (http.HandlerFunc, error) {
	specJSON, err := GenerateOpenAPISpec(catalog, baseURL, version)
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(specJSON)
	}, nil
}

func openAPIParameters(stmt domain.Statement) []map[string]any {
	params := make([]map[string]any, 0, len(stmt.Params))
	for _, p := range stmt.Params {
		params = append(params, map[string]any{
			"name":        p.Name,
			"in":          "query",
			"required":    false,
			"description": p.Description,
			"schema": map[string]any{
				"type":    "integer",
				"default": p.Default,
				"minimum": p.Min,
				"maximum": p.Max,
			},
		})
	}
	return params
}

func rowsSchema(stmt domain.Statement) map[string]any {
	properties := make(map[string]any, len(stmt.Columns))
	for _, col := range stmt.Columns {
		properties[col] = map[string]any{"nullable": true}
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":       "object",
			"properties": properties,
		},
	}
}

func errorResponse(description string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}
}

func toPascalCase(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' }) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}
