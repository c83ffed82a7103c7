package openapi

import "maps"

func errorBody() map[string]*MediaType {
	return map[string]*MediaType{
		"application/json": {Schema: SchemaRef("Error")},
	}
}

// NewComponents creates Components with the shared error schema and the
// error responses every handler can produce.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
					"kind":  {Type: "string", Description: "Failure kind for errors meant for a person"},
				},
				Required: []string{"error"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         {Description: "Invalid request", Content: errorBody()},
			"NotFound":           {Description: "Resource not found", Content: errorBody()},
			"Unprocessable":      {Description: "Stored data could not be decoded", Content: errorBody()},
			"ServiceUnavailable": {Description: "Capability not available", Content: errorBody()},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
