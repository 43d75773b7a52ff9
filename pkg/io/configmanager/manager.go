package configmanager

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/jinzhu/copier"
	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConfigManager implements configuration management for Slipway v1alpha1.Pipeline configurations.
type ConfigManager struct {
	Viper           *viper.Viper
	fieldSelectors  []FieldSelector[v1alpha1.Pipeline]
	Config          *v1alpha1.Pipeline
	configLoaded    bool           // Track if config has been actually loaded
	configFileFound bool           // Track if a config file was found and read
	Writer          io.Writer      // Writer for output notifications
	command         *cobra.Command // Associated Cobra command for flag introspection
}

// NewConfigManager creates a new configuration manager with the specified field selectors.
// Initializes Viper with all configuration including paths and environment handling.
func NewConfigManager(
	writer io.Writer,
	fieldSelectors ...FieldSelector[v1alpha1.Pipeline],
) *ConfigManager {
	return &ConfigManager{
		Viper:          InitializeViper(),
		fieldSelectors: fieldSelectors,
		Config:         v1alpha1.NewPipeline(),
		configLoaded:   false,
		Writer:         writer,
	}
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided Cobra command.
// It registers the supplied field selectors, binds flags from struct fields, and writes output
// to the command's standard output writer.
func NewCommandConfigManager(
	cmd *cobra.Command,
	selectors []FieldSelector[v1alpha1.Pipeline],
) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout(), selectors...)
	manager.command = cmd
	manager.AddFlagsFromFields(cmd)

	return manager
}

// LoadConfig loads the configuration from files and environment variables.
// Returns the loaded config (either freshly loaded or previously cached) and an error if loading failed.
// Configuration priority: defaults < config files < environment variables < flags.
// If timer is provided, timing information will be included in the success notification.
func (m *ConfigManager) LoadConfig(tmr timer.Timer) (*v1alpha1.Pipeline, error) {
	return m.loadConfigWithOptions(tmr, false)
}

// LoadConfigSilent loads the configuration without outputting notifications.
// Returns the loaded config, either freshly loaded or previously cached.
func (m *ConfigManager) LoadConfigSilent() (*v1alpha1.Pipeline, error) {
	return m.loadConfigWithOptions(nil, true)
}

// loadConfigWithOptions is the internal implementation with silent option.
func (m *ConfigManager) loadConfigWithOptions(
	tmr timer.Timer,
	silent bool,
) (*v1alpha1.Pipeline, error) {
	if !silent {
		m.notifyLoadingStart()
	}

	if m.configLoaded {
		if !silent {
			m.notifyConfigReused()
		}

		return m.Config, nil
	}

	err := m.readConfig(silent)
	if err != nil {
		return nil, err
	}

	flagOverrides := m.captureChangedFlagValues()

	err = m.unmarshalAndApplyDefaults()
	if err != nil {
		return nil, err
	}

	err = m.applyFlagOverrides(flagOverrides)
	if err != nil {
		return nil, err
	}

	err = m.validateConfig()
	if err != nil {
		return nil, err
	}

	if !silent {
		m.notifyLoadingComplete(tmr)
	}

	m.configLoaded = true

	return m.Config, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		// Missing config file is not an error; defaults and env still apply.
		m.configFileFound = false
		if !silent {
			m.notifyUsingDefaults()
		}
	} else {
		m.configFileFound = true
		if !silent {
			m.notifyConfigFound()
		}
	}

	return nil
}

func (m *ConfigManager) unmarshalAndApplyDefaults() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			metav1DurationDecodeHook(),
		)
	}

	// Reset TypeMeta fields only if a config file was found.
	// This allows validation to catch incorrect values from config files
	// while preserving defaults when loading from environment variables only.
	if m.configFileFound {
		m.Config.APIVersion = ""
		m.Config.Kind = ""
	}

	err := m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if m.configFileFound {
		err = m.validateTypeMeta()
		if err != nil {
			return err
		}
	}

	// Merge defaults into fields the config left empty.
	merged := v1alpha1.NewPipeline()
	merged.TypeMeta = m.Config.TypeMeta
	merged.Metadata = m.Config.Metadata

	err = copier.CopyWithOption(&merged.Spec, &m.Config.Spec, copier.Option{IgnoreEmpty: true})
	if err != nil {
		return fmt.Errorf("failed to merge configuration defaults: %w", err)
	}

	*m.Config = *merged

	// Apply field selector defaults for fields still empty.
	for _, fieldSelector := range m.fieldSelectors {
		fieldPtr := fieldSelector.Selector(m.Config)
		if fieldPtr != nil && isFieldEmpty(fieldPtr) && fieldSelector.DefaultValue != nil {
			setFieldValue(fieldPtr, fieldSelector.DefaultValue)
		}
	}

	return nil
}

// ErrUnsupportedAPIVersion is returned when the config file declares an unknown apiVersion.
var ErrUnsupportedAPIVersion = errors.New("unsupported apiVersion in config file")

// ErrUnsupportedKind is returned when the config file declares an unknown kind.
var ErrUnsupportedKind = errors.New("unsupported kind in config file")

func (m *ConfigManager) validateTypeMeta() error {
	if m.Config.APIVersion != "" && m.Config.APIVersion != v1alpha1.APIVersion {
		return fmt.Errorf("%w: %q (expected %q)",
			ErrUnsupportedAPIVersion, m.Config.APIVersion, v1alpha1.APIVersion)
	}

	if m.Config.Kind != "" && m.Config.Kind != v1alpha1.Kind {
		return fmt.Errorf("%w: %q (expected %q)",
			ErrUnsupportedKind, m.Config.Kind, v1alpha1.Kind)
	}

	m.Config.APIVersion = v1alpha1.APIVersion
	m.Config.Kind = v1alpha1.Kind

	return nil
}

func (m *ConfigManager) captureChangedFlagValues() map[string]string {
	if m.command == nil {
		return nil
	}

	overrides := make(map[string]string)

	m.command.Flags().Visit(func(f *pflag.Flag) {
		overrides[f.Name] = f.Value.String()
	})

	return overrides
}

func (m *ConfigManager) applyFlagOverrides(overrides map[string]string) error {
	if overrides == nil {
		return nil
	}

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		flagName := m.GenerateFlagName(fieldPtr)

		value, ok := overrides[flagName]
		if !ok {
			continue
		}

		err := setFieldValueFromFlag(fieldPtr, value)
		if err != nil {
			return fmt.Errorf("failed to apply flag override for %s: %w", flagName, err)
		}
	}

	return nil
}

func (m *ConfigManager) validateConfig() error {
	err := m.Config.Validate()
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.ErrorType,
			Content: "invalid pipeline configuration: %v",
			Args:    []any{err},
			Writer:  m.Writer,
		})

		return fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	return nil
}

// metav1DurationDecodeHook converts duration strings and integers from the
// config file into metav1.Duration values.
func metav1DurationDecodeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(metav1.Duration{}) {
			return data, nil
		}

		switch value := data.(type) {
		case string:
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("parse duration %q: %w", value, err)
			}

			return metav1.Duration{Duration: parsed}, nil
		case int:
			return metav1.Duration{Duration: time.Duration(value)}, nil
		case int64:
			return metav1.Duration{Duration: time.Duration(value)}, nil
		default:
			return data, nil
		}
	}
}

func (m *ConfigManager) notifyLoadingStart() {
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Load config...",
		Emoji:   "⏳",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigReused() {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config already loaded, reusing existing config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyUsingDefaults() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "using default config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigFound() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "'%s' found",
		Args:    []any{m.Viper.ConfigFileUsed()},
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyLoadingComplete(tmr timer.Timer) {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config loaded",
		Timer:   tmr,
		Writer:  m.Writer,
	})
}
