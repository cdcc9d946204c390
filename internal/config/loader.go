package config

import (
	"fmt"
	"log/slog"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/zeddo123/mlsolid-go/internal/messages"
	"github.com/zeddo123/mlsolid-go/internal/serviceerrors"
	"github.com/zeddo123/mlsolid-go/internal/transfer"
)

type EnvMap struct {
	EnvMappings map[string]string `mapstructure:"env_mappings,omitempty"`
}

// readConfig locates and reads a configuration file using Viper. It searches for
// a file named "{name}.{ext}" in each of the given directories in order; the first
// found file is read. The returned Viper instance contains the parsed config and
// can be used for further unmarshaling or env binding.
//
// Parameters:
//   - logger: Logger for config load messages (success and failure).
//   - name: Config file base name without extension (e.g., "mlsolid").
//   - ext: Config file extension/type (e.g., "yaml"); used by Viper as config type.
//   - dirs: One or more directories to search for the file; first match wins.
//
// Returns:
//   - *viper.Viper: Viper instance with the config loaded.
//   - error: Non-nil if no config file was found in any dir or if reading failed.
func readConfig(logger *slog.Logger, name string, ext string, dirs ...string) (*viper.Viper, error) {
	logger.Info("Reading the configuration file", "file", fmt.Sprintf("%s.%s", name, ext), "dirs", fmt.Sprintf("%v", dirs))

	configValues := viper.New()

	configValues.SetConfigName(name) // name of config file (without extension)
	configValues.SetConfigType(ext)  // REQUIRED if the config file does not have the extension in the name
	for _, dir := range dirs {
		configValues.AddConfigPath(dir)
	}
	err := configValues.ReadInConfig() // Find and read the config file

	if err != nil {
		logger.Error("Failed to read the configuration file", "file", fmt.Sprintf("%s.%s", name, ext), "dirs", fmt.Sprintf("%v", dirs), "error", err.Error())
	} else {
		logger.Info("Read the configuration file", "file", configValues.ConfigFileUsed())
	}

	return configValues, err
}

// LoadClientConfig loads the SDK configuration from mlsolid.yaml using
// Viper, searching "config", the working directory and two parent config
// dirs, in that order.
//
// Configuration loading order (later sources override earlier ones):
//  1. mlsolid.yaml - configuration loaded first
//  2. Environment variables - mapped via env_mappings configuration
//     (e.g. MLSOLID_ADDRESS -> address)
//
// Defaults are applied afterwards (chunk size, workdir) and the result is
// validated; an invalid configuration fails the load.
func LoadClientConfig(logger *slog.Logger) (*ClientConfig, error) {
	configValues, err := readConfig(logger, "mlsolid", "yaml", "config", ".", "./config", "../../config")
	if err != nil {
		return nil, err
	}
	return unmarshalClientConfig(logger, configValues)
}

func unmarshalClientConfig(logger *slog.Logger, configValues *viper.Viper) (*ClientConfig, error) {
	// set up the environment variable mappings
	envMappings := EnvMap{}
	if err := configValues.Unmarshal(&envMappings); err != nil {
		return nil, err
	}
	for envName, field := range envMappings.EnvMappings {
		if err := configValues.BindEnv(field, strings.ToUpper(envName)); err != nil {
			return nil, err
		}
		logger.Info("Mapped environment variable", "field_name", field, "env_name", envName)
	}

	conf := ClientConfig{}
	if err := configValues.Unmarshal(&conf); err != nil {
		return nil, err
	}

	if conf.ChunkSize == 0 {
		conf.ChunkSize = transfer.DefaultChunkSize
	}
	if conf.WorkDir == "" {
		conf.WorkDir = DefaultWorkDir
	}

	if err := validator.New().Struct(&conf); err != nil {
		return nil, serviceerrors.NewServiceError(messages.ConfigurationInvalid, "Error", err.Error()).WithCause(err)
	}
	return &conf, nil
}
