// Library configuration

// The configuration is loaded from a YAML file, with the following structure:
//
//  coopsched_config:
//    instance: coopsched
//    log_config:
//      ...
//    scheduler_config:
//      ...
//  app_config:
//    ...
//
// The "coopsched_config" section maps to the CoopschedConfig structure defined
// in this package. The "app_config" section belongs to the host application
// and is decoded into the structure the latter provides, primed with its
// default values.

package coopsched_internal

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	COOPSCHED_CONFIG_SECTION_NAME = "coopsched_config"
	APP_CONFIG_SECTION_NAME       = "app_config"

	COOPSCHED_CONFIG_INSTANCE_DEFAULT = "coopsched"
)

type CoopschedConfig struct {
	// The instance name, used in logs:
	Instance string `yaml:"instance"`

	// Specific components configuration:
	LoggerConfig    *LoggerConfig    `yaml:"log_config"`
	SchedulerConfig *SchedulerConfig `yaml:"scheduler_config"`
}

func DefaultCoopschedConfig() *CoopschedConfig {
	return &CoopschedConfig{
		Instance:        COOPSCHED_CONFIG_INSTANCE_DEFAULT,
		LoggerConfig:    DefaultLoggerConfig(),
		SchedulerConfig: DefaultSchedulerConfig(),
	}
}

// LoadConfig loads the configuration from the specified YAML file (or buffer,
// for testing) as follows:
//   - the coopsched_config section is returned as a *CoopschedConfig
//     structure, primed with defaults before decoding
//   - the app_config section, if present, is loaded into the provided
//     appConfig structure; pass nil to ignore it
//
// Additionally an error is returned if the configuration could not be loaded
// or parsed.
func LoadConfig(cfgFile string, appConfig any, buf []byte) (*CoopschedConfig, error) {
	if buf == nil {
		// Normal case, buf is pre-populated only for testing.
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	if err := yaml.Unmarshal(buf, &docNode); err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	coopschedConfig := DefaultCoopschedConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		var toCfg any = nil
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				switch n.Value {
				case COOPSCHED_CONFIG_SECTION_NAME:
					toCfg = coopschedConfig
				case APP_CONFIG_SECTION_NAME:
					toCfg = appConfig
				}
				continue
			}
			if n.Kind == yaml.MappingNode && toCfg != nil {
				if err := n.Decode(toCfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
			toCfg = nil
		}
	}

	return coopschedConfig, nil
}
