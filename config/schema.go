package config

import (
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/schema"
)

// durationPattern matches strings accepted by time.ParseDuration.
const durationPattern = `^(0|-?([0-9]+(\.[0-9]*)?(ns|us|µs|ms|s|m|h))+)$`

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		Anonymous:                  true,
		AllowAdditionalProperties:  true,
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{Type: "string", Pattern: durationPattern}
			}
			return nil
		},
	}
}

// GenerateSchema reflects the JSON Schema of the configuration file.
// extensions adds a property per key, reflected from the given value.
func GenerateSchema(extensions map[string]interface{}) *jsonschema.Schema {
	r := newReflector()
	s := r.Reflect(&Config{})
	s.Title = "steam-shortcut-sync configuration"
	s.Description = "Schema for config.yml / config.toml."

	for key, value := range extensions {
		ext := r.Reflect(value)
		ext.Version = ""
		s.Properties.Set(key, ext)
	}
	return s
}

// validateRaw checks a decoded document against the generated schema.
func validateRaw(raw map[string]interface{}) error {
	validatorOnce.Do(func() {
		data, err := json.Marshal(GenerateSchema(nil))
		if err != nil {
			validatorErr = err
			return
		}
		validator, validatorErr = schema.NewValidator("config.schema.json", data)
	})
	if validatorErr != nil {
		return errors.Wrap(validatorErr, errors.ErrCodeInternal, "failed to build configuration schema")
	}

	if err := validator.Validate(raw); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}
