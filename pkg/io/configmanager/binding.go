package configmanager

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConfigFileName is the name of the slipway config file (without extension).
const ConfigFileName = "slipway"

// EnvPrefix is the prefix for slipway environment variables.
const EnvPrefix = "SLIPWAY"

// acronymReplacer normalizes acronyms in field names so flag generation
// produces "gitops-engine" and "repo-url" instead of "git-ops-engine" and
// "repo-u-r-l".
//
//nolint:gochecknoglobals // static replacement table
var acronymReplacer = strings.NewReplacer(
	"GitOps", "Gitops",
	"URL", "Url",
	"OCI", "Oci",
	"API", "Api",
)

// ambiguousFlagNames lists field names that are too generic on their own and
// get prefixed with their parent section name (e.g. "cluster-name").
//
//nolint:gochecknoglobals // static lookup table
var ambiguousFlagNames = map[string]bool{
	"name":       true,
	"namespace":  true,
	"host":       true,
	"port":       true,
	"path":       true,
	"username":   true,
	"password":   true,
	"replicas":   true,
	"repository": true,
}

// InitializeViper creates a Viper instance configured for slipway: it searches
// for slipway.yaml from the working directory up to the filesystem root and
// binds SLIPWAY_* environment variables.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()
	viperInstance.SetConfigName(ConfigFileName)
	viperInstance.SetConfigType("yaml")

	addConfigSearchPaths(viperInstance)

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	// Short env aliases for registry credentials so CI secrets don't need the
	// full spec path.
	_ = viperInstance.BindEnv("spec.registry.username", "SLIPWAY_REGISTRY_USERNAME")
	_ = viperInstance.BindEnv("spec.registry.password", "SLIPWAY_REGISTRY_PASSWORD")

	return viperInstance
}

// addConfigSearchPaths registers the working directory and every parent
// directory as config search paths, closest first.
func addConfigSearchPaths(viperInstance *viper.Viper) {
	dir, err := os.Getwd()
	if err != nil {
		viperInstance.AddConfigPath(".")

		return
	}

	for {
		viperInstance.AddConfigPath(dir)

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}
}

// AddFlagsFromFields registers a CLI flag for every field selector on the
// provided command. Flag names are generated from the field names, so the
// same selector always produces the same flag regardless of the command.
func (m *ConfigManager) AddFlagsFromFields(cmd *cobra.Command) {
	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		flagName := m.GenerateFlagName(fieldPtr)
		if flagName == "" || cmd.Flags().Lookup(flagName) != nil {
			continue
		}

		if selector.DefaultValue != nil {
			setFieldValue(fieldPtr, selector.DefaultValue)
		}

		registerFlag(cmd, fieldPtr, flagName, selector.Description)
	}
}

// registerFlag registers a typed flag for the field pointer.
func registerFlag(cmd *cobra.Command, fieldPtr any, name, description string) {
	if value, ok := fieldPtr.(pflag.Value); ok {
		cmd.Flags().Var(value, name, description)

		return
	}

	switch ptr := fieldPtr.(type) {
	case *string:
		cmd.Flags().String(name, *ptr, description)
	case *bool:
		cmd.Flags().Bool(name, *ptr, description)
	case *int32:
		cmd.Flags().Int32(name, *ptr, description)
	case *metav1.Duration:
		cmd.Flags().Duration(name, ptr.Duration, description)
	}
}

// GenerateFlagName derives the CLI flag name for a field pointer into the
// managed config. The name is the kebab-cased field name; generic names are
// prefixed with their parent section (e.g. Spec.Cluster.Name → cluster-name).
func (m *ConfigManager) GenerateFlagName(fieldPtr any) string {
	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return ""
	}

	path := findFieldPath(reflect.ValueOf(m.Config).Elem(), target.Pointer(), nil)
	if len(path) == 0 {
		return ""
	}

	name := kebabCase(path[len(path)-1])
	if ambiguousFlagNames[name] && len(path) > 1 {
		name = kebabCase(path[len(path)-2]) + "-" + name
	}

	return name
}

// findFieldPath walks the struct recursively and returns the field-name path
// to the field whose address matches target, or nil when not found.
func findFieldPath(value reflect.Value, target uintptr, path []string) []string {
	if value.Kind() != reflect.Struct {
		return nil
	}

	structType := value.Type()
	for i := range value.NumField() {
		field := value.Field(i)
		if !field.CanAddr() {
			continue
		}

		fieldPath := append(append([]string{}, path...), structType.Field(i).Name)

		// metav1.Duration is addressed as a whole, never by its inner field.
		isLeaf := field.Kind() != reflect.Struct ||
			field.Type() == reflect.TypeOf(metav1.Duration{})

		if isLeaf {
			if field.Addr().Pointer() == target {
				return fieldPath
			}

			continue
		}

		if found := findFieldPath(field, target, fieldPath); found != nil {
			return found
		}
	}

	return nil
}

// kebabCase converts a Go field name to its kebab-cased flag form.
func kebabCase(fieldName string) string {
	normalized := acronymReplacer.Replace(fieldName)

	var builder strings.Builder

	for i, r := range normalized {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				builder.WriteByte('-')
			}

			builder.WriteRune(r + ('a' - 'A'))

			continue
		}

		builder.WriteRune(r)
	}

	return builder.String()
}

// setFieldValue assigns a default value to a field pointer, converting to the
// field's type when necessary.
func setFieldValue(fieldPtr any, value any) {
	field := reflect.ValueOf(fieldPtr)
	if field.Kind() != reflect.Ptr || field.IsNil() {
		return
	}

	elem := field.Elem()

	source := reflect.ValueOf(value)
	if !source.IsValid() || !source.Type().ConvertibleTo(elem.Type()) {
		return
	}

	elem.Set(source.Convert(elem.Type()))
}

// isFieldEmpty checks if a field pointer points to an empty/zero value.
func isFieldEmpty(fieldPtr any) bool {
	if fieldPtr == nil {
		return true
	}

	fieldVal := reflect.ValueOf(fieldPtr)
	if fieldVal.Kind() != reflect.Ptr || fieldVal.IsNil() {
		return true
	}

	return fieldVal.Elem().IsZero()
}
