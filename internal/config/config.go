package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/bbled/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every `env` struct tag when reading overrides.
const EnvPrefix = "BBLED_"

// LoadConfig loads configuration with proper precedence: CLI args > env vars > config file.
// opts must be a pointer to a struct whose fields carry `toml:"section.key"`
// and `env:"KEY"` tags; a string field named Config holds the file path.
// If cmd is provided, flags explicitly set via CLI will not be overwritten.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: options must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	changedFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changedFlags[f.Name] = true
			}
		})
	}

	// eachField visits every settable field not pinned by a CLI flag.
	eachField := func(fn func(field reflect.Value, fieldType reflect.StructField)) {
		for i := range v.NumField() {
			fieldType := t.Field(i)
			if changedFlags[fieldNameToFlag(fieldType.Name)] {
				continue
			}
			fn(v.Field(i), fieldType)
		}
	}

	var configPath string
	if f := v.FieldByName("Config"); f.IsValid() && f.Kind() == reflect.String {
		configPath = f.String()
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// A missing file leaves defaults in place
		case err != nil:
			return fmt.Errorf("read config %s: %w", configPath, err)
		default:
			var doc map[string]any
			if err := toml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}
			eachField(func(field reflect.Value, fieldType reflect.StructField) {
				if tomlPath := fieldType.Tag.Get("toml"); tomlPath != "" {
					if value := getNestedValue(doc, tomlPath); value != nil {
						setFieldValue(field, value)
					}
				}
			})
		}
	}

	eachField(func(field reflect.Value, fieldType reflect.StructField) {
		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv(EnvPrefix + envKey); envValue != "" {
				setFieldValue(field, envValue)
			}
		}
	})

	return nil
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LedsBasePath" -> "leds-base-path", "Port" -> "port".
func fieldNameToFlag(fieldName string) string {
	var result []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '-')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	current := data
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current[parts[len(parts)-1]]
}

// setFieldValue assigns a decoded TOML value or an env string to field.
// Strings are parsed into the field's kind; values that do not fit are ignored.
func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}
	kind := field.Kind()

	switch {
	case kind == reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case kind == reflect.Bool:
		if b, ok := asBool(value); ok {
			field.SetBool(b)
		}
	case field.CanInt():
		if i, ok := asInt(value, field.Type().Bits()); ok && !field.OverflowInt(i) {
			field.SetInt(i)
		}
	case field.CanUint():
		if i, ok := asInt(value, 64); ok && i >= 0 && !field.OverflowUint(uint64(i)) {
			field.SetUint(uint64(i))
		}
	case kind == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		if items, ok := asStrings(value); ok {
			field.Set(reflect.ValueOf(items))
		}
	}
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	}
	return false, false
}

// asInt accepts TOML integers and decimal env strings.
func asInt(value any, bits int) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(v, 10, bits)
		return i, err == nil
	}
	return 0, false
}

// asStrings accepts TOML string arrays and comma separated env strings.
func asStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return items, true
	case string:
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, true
	}
	return nil, false
}

// ReadLoggingConfig loads the [logging] table of a TOML config file. Keys
// other than level and format are per-module levels. The returned config
// holds the defaults when err is non-nil.
func ReadLoggingConfig(configPath string) (logging.Config, error) {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	var rawConfig struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &rawConfig); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", configPath, err)
	}

	for key, value := range rawConfig.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}

	return cfg, nil
}
