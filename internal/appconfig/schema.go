// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema rejects malformed config files before unmarshalling so typos
// surface as load errors rather than silently applied defaults.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "outputDir": {"type": "string"},
    "accumulationFile": {"type": "string"},
    "logFile": {"type": "string"},
    "suiteName": {"type": "string"},
    "fastMode": {"type": "boolean"},
    "totalFrames": {"type": "integer", "minimum": 1},
    "warmupFrames": {"type": "integer", "minimum": 0},
    "captureEveryN": {"type": "integer", "minimum": 1},
    "frameRingSize": {"type": "integer", "minimum": 2},
    "captureWidth": {"type": "integer", "minimum": 1},
    "captureHeight": {"type": "integer", "minimum": 1}
  }
}`

// validateSchema checks raw config bytes against configSchema.
func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
