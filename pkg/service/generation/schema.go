package generation

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

func intPtr(v int) *int { return &v }

func nonEmptyString(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: description,
		MinLength:   intPtr(1),
	}
}

func nonEmptyStrings(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: description,
		MinItems:    intPtr(1),
		Items:       nonEmptyString(""),
	}
}

// profileSchema describes the synthesized profile payload. comments are never generated.
func profileSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":           {Type: "string", Description: "Unique id in kebab-case based on the name"},
			"name":         nonEmptyString("Full display name"),
			"dates":        nonEmptyString("Birth – Death"),
			"school":       nonEmptyString("School of thought or tradition"),
			"shortBio":     nonEmptyString("Summary of at most 20 words"),
			"fullBio":      nonEmptyString("Overview of about 100 words"),
			"keyIdeas":     nonEmptyStrings("3 to 6 short key ideas"),
			"famousQuotes": nonEmptyStrings("2 to 5 famous quotations"),
			"imageUrl":     {Type: "string", Description: "Portrait URL if one is known"},
		},
		Required: []string{"name", "dates", "school", "shortBio", "fullBio", "keyIdeas", "famousQuotes"},
	}
}

// convertSchema converts JSON Schema to Gemini genai.Schema
func convertSchema(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	out := &genai.Schema{
		Description: schema.Description,
		Required:    schema.Required,
	}

	switch schema.Type {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
	default:
		return nil, goerr.New("unsupported schema type", goerr.V("type", schema.Type))
	}

	if schema.MinLength != nil {
		v := int64(*schema.MinLength)
		out.MinLength = &v
	}
	if schema.MinItems != nil {
		v := int64(*schema.MinItems)
		out.MinItems = &v
	}

	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for name, prop := range schema.Properties {
			converted, err := convertSchema(prop)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema", goerr.V("property", name))
			}
			out.Properties[name] = converted
		}
	}

	if schema.Items != nil {
		converted, err := convertSchema(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		out.Items = converted
	}

	return out, nil
}
