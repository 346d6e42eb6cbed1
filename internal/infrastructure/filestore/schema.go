package filestore

import (
	"github.com/invopop/jsonschema"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
)

// Schema describes the on-disk document so hand edits can be checked by editors.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&provider.StoreFile{})
	schema.Title = "Provider store"
	schema.Description = "Custom providers and per-provider model allow-lists"
	return schema
}
