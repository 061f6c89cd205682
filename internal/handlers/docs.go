package handlers

import (
	"encoding/json"
	"net/http"
)

type object = map[string]interface{}

func jsonContent(schema object) object {
	return object{"application/json": object{"schema": schema}}
}

func ref(name string) object {
	return object{"$ref": "#/components/schemas/" + name}
}

func okResponse(description string, schema object) object {
	return object{"200": object{"description": description, "content": jsonContent(schema)}}
}

func queryParam(name, description, typ string, extra object) object {
	schema := object{"type": typ}
	for k, v := range extra {
		schema[k] = v
	}
	return object{"name": name, "in": "query", "description": description, "required": false, "schema": schema}
}

func nullable(typ string) object {
	return object{"type": typ, "nullable": true}
}

func dataList(item object) object {
	return object{
		"type":       "object",
		"properties": object{"data": object{"type": "array", "items": item}},
	}
}

var errorResponses = object{
	"400": object{"description": "Invalid input", "content": jsonContent(ref("Error"))},
	"404": object{"description": "Movie not found", "content": jsonContent(ref("Error"))},
	"500": object{"description": "Internal error", "content": jsonContent(ref("Error"))},
}

func withErrors(ok object) object {
	out := object{}
	for k, v := range ok {
		out[k] = v
	}
	for k, v := range errorResponses {
		out[k] = v
	}
	return out
}

func movieAPISpec() object {
	schemas := object{
		"MovieRecord": object{
			"type": "object",
			"properties": object{
				"title":       object{"type": "string"},
				"year":        nullable("integer"),
				"decade":      nullable("integer"),
				"month_num":   nullable("integer"),
				"runtime_min": nullable("number"),
				"votes_num":   nullable("number"),
				"gross_usd":   nullable("number"),
				"rating":      nullable("number"),
				"budget_num":  nullable("number"),
				"income_num":  nullable("number"),
				"genre_main":  nullable("string"),
				"profit":      nullable("number"),
				"roi":         nullable("number"),
				"hit":         object{"type": "boolean", "description": "Rating and ROI both at or above the dataset 75th percentile"},
			},
		},
		"Movie": object{
			"type": "object",
			"properties": object{
				"title":  object{"type": "string"},
				"budget": object{"type": "number"},
				"income": object{"type": "number"},
				"rating": object{"type": "number"},
				"profit": object{"type": "number"},
				"roi":    nullable("number"),
			},
		},
		"MovieReport": object{
			"type": "object",
			"properties": object{
				"movie":   ref("Movie"),
				"is_hit":  object{"type": "boolean", "description": "ROI > 1 and rating > 7"},
				"badge":   object{"type": "string", "example": "HIT!"},
				"rule":    object{"type": "string", "example": "fixed_threshold"},
				"roi_cap": object{"type": "number", "description": "Display ceiling for the ROI bar"},
			},
		},
		"CustomMovie": object{
			"type":     "object",
			"required": []string{"budget", "income", "rating"},
			"properties": object{
				"title":  object{"type": "string", "default": "My Movie"},
				"budget": object{"type": "number", "minimum": 0},
				"income": object{"type": "number", "minimum": 0},
				"rating": object{"type": "number", "minimum": 0, "maximum": 10},
			},
		},
		"DatasetSummary": object{
			"type": "object",
			"properties": object{
				"rows":                      object{"type": "integer"},
				"columns":                   object{"type": "integer", "description": "Source table width; omitted for a served snapshot"},
				"mean_rating":               nullable("number"),
				"median_roi":                nullable("number"),
				"mean_profit_millions":      nullable("number"),
				"hit_share_percent":         object{"type": "number"},
				"rating_threshold":          nullable("number"),
				"roi_threshold":             nullable("number"),
				"profit_threshold_millions": nullable("number"),
				"genre_counts":              object{"type": "array", "items": ref("GenreCount")},
				"generated_at":              object{"type": "string", "format": "date-time"},
			},
		},
		"GenreCount": object{
			"type":       "object",
			"properties": object{"genre": object{"type": "string"}, "count": object{"type": "integer"}},
		},
		"HitShare": object{
			"type": "object",
			"properties": object{
				"group":         object{"type": "string"},
				"movies":        object{"type": "integer"},
				"hits":          object{"type": "integer"},
				"share_percent": object{"type": "number"},
			},
		},
		"YearSeries": object{
			"type": "object",
			"properties": object{
				"metric":    object{"type": "string", "enum": []string{"roi", "rating", "profit"}},
				"aggregate": object{"type": "string", "enum": []string{"median", "mean"}},
				"points": object{
					"type": "array",
					"items": object{
						"type": "object",
						"properties": object{
							"year":   object{"type": "integer"},
							"value":  object{"type": "number"},
							"movies": object{"type": "integer"},
						},
					},
				},
			},
		},
		"CorrelationMatrix": object{
			"type": "object",
			"properties": object{
				"columns": object{"type": "array", "items": object{"type": "string"}},
				"rows":    object{"type": "integer", "description": "Rows with every column present"},
				"values": object{
					"type":  "array",
					"items": object{"type": "array", "items": nullable("number")},
				},
			},
		},
		"Error": object{
			"type": "object",
			"properties": object{
				"error":   object{"type": "string"},
				"message": object{"type": "string"},
				"code":    object{"type": "integer"},
			},
		},
	}

	paths := object{
		"/api/movies": object{
			"get": object{
				"summary":     "List movies",
				"description": "Filtered, paginated view of the annotated snapshot. The hit flag is the stored one.",
				"parameters": []object{
					queryParam("genre", "Main genre, e.g. Drama", "string", nil),
					queryParam("hits_only", "Only movies flagged as hits", "boolean", object{"default": false}),
					queryParam("page", "Page number (default: 1)", "integer", object{"default": 1}),
					queryParam("limit", "Records per page (default: 100)", "integer", object{"default": 100}),
				},
				"responses": withErrors(okResponse("Successful response", object{
					"type": "object",
					"properties": object{
						"data":        object{"type": "array", "items": ref("MovieRecord")},
						"total":       object{"type": "integer"},
						"page":        object{"type": "integer"},
						"limit":       object{"type": "integer"},
						"total_pages": object{"type": "integer"},
					},
				})),
			},
		},
		"/api/movies/lookup": object{
			"get": object{
				"summary":     "Check a dataset movie",
				"description": "Case-insensitive exact title match; the first match wins",
				"parameters":  []object{queryParam("title", "Movie title", "string", nil)},
				"responses":   withErrors(okResponse("Movie report", ref("MovieReport"))),
			},
		},
		"/api/movies/check": object{
			"post": object{
				"summary":     "Check a custom movie",
				"requestBody": object{"required": true, "content": jsonContent(ref("CustomMovie"))},
				"responses":   withErrors(okResponse("Movie report", ref("MovieReport"))),
			},
		},
		"/api/stats/summary": object{
			"get": object{
				"summary":   "Dataset summary",
				"responses": okResponse("Summary statistics", ref("DatasetSummary")),
			},
		},
		"/api/stats/hits-by-year": object{
			"get": object{
				"summary":   "Share of hits per release year",
				"responses": okResponse("Hit shares", dataList(ref("HitShare"))),
			},
		},
		"/api/stats/hits-by-runtime": object{
			"get": object{
				"summary":   "Share of hits per runtime bucket",
				"responses": okResponse("Hit shares", dataList(ref("HitShare"))),
			},
		},
		"/api/stats/metric-by-year": object{
			"get": object{
				"summary":     "Metric aggregated per release year",
				"description": "Median ROI, mean rating or median profit per year",
				"parameters": []object{
					queryParam("metric", "roi, rating or profit", "string", object{"default": "roi"}),
				},
				"responses": withErrors(okResponse("Year series", ref("YearSeries"))),
			},
		},
		"/api/stats/correlations": object{
			"get": object{
				"summary":   "Correlation matrix of budget, income, profit, ROI, rating and runtime",
				"responses": okResponse("Pearson coefficients", ref("CorrelationMatrix")),
			},
		},
		"/api/stats/genres": object{
			"get": object{
				"summary":   "Movies per main genre",
				"responses": okResponse("Genre counts", dataList(ref("GenreCount"))),
			},
		},
		"/api/admin/reload": object{
			"post": object{
				"summary":   "Reload the snapshot from the annotated CSV",
				"responses": okResponse("Snapshot published", object{"type": "object"}),
			},
		},
		"/health": object{
			"get": object{
				"summary":   "Health check",
				"responses": okResponse("API is healthy", object{"type": "object"}),
			},
		},
		"/metrics": object{
			"get": object{
				"summary": "Prometheus metrics",
				"responses": object{
					"200": object{
						"description": "Prometheus metrics in text format",
						"content":     object{"text/plain": object{"schema": object{"type": "string"}}},
					},
				},
			},
		},
	}

	return object{
		"openapi": "3.0.0",
		"info": object{
			"title":       "Movie Hit Analyzer API",
			"description": "Cleaned IMDb-style movie snapshot with hit classification and dashboard aggregates",
			"version":     "1.0.0",
		},
		"servers": []object{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths":      paths,
		"components": object{"schemas": schemas},
	}
}

// OpenAPISpec returns the OpenAPI 3.0 document for the movie API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(movieAPISpec())
}
