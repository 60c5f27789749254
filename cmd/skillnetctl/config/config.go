// Package config manages skillnetctl's context file: named server endpoints
// plus the pointer to the active one, stored under $HOME/.skillnetctl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName        = "skillnetctl"
	ConfigFileName = "config"
	ConfigFileType = "yaml"
)

// Context is a single CLI target: a SkillNet server endpoint. The session
// itself (token, identity snapshot) lives in the per-context bbolt store,
// never in this file.
type Context struct {
	Name           string `mapstructure:"name"`
	ServerEndpoint string `mapstructure:"server_endpoint"`
}

// CLIConfig is the whole context file.
type CLIConfig struct {
	CurrentContext string              `mapstructure:"current_context"`
	Contexts       map[string]*Context `mapstructure:"contexts"`
}

var (
	GlobalConfig *CLIConfig
	CfgFile      string
)

// InitConfig loads the context file, creating the config directory when
// missing. A missing file is not an error; it is created on first save.
func InitConfig() error {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath := filepath.Join(home, "."+AppName)

		viper.AddConfigPath(configPath)
		viper.SetConfigName(ConfigFileName)
		viper.SetConfigType(ConfigFileType)

		if err := os.MkdirAll(configPath, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", configPath, err)
		}
		CfgFile = filepath.Join(configPath, ConfigFileName+"."+ConfigFileType)
	}

	viper.AutomaticEnv()

	GlobalConfig = &CLIConfig{Contexts: make(map[string]*Context)}

	if err := viper.ReadInConfig(); err == nil {
		CfgFile = viper.ConfigFileUsed()
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(GlobalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if GlobalConfig.Contexts == nil {
		GlobalConfig.Contexts = make(map[string]*Context)
	}
	return nil
}

// SaveConfig writes GlobalConfig back to the context file.
func SaveConfig() error {
	if CfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		CfgFile = filepath.Join(home, "."+AppName, ConfigFileName+"."+ConfigFileType)
	}

	configDir := filepath.Dir(CfgFile)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	settings := map[string]interface{}{
		"current_context": GlobalConfig.CurrentContext,
		"contexts":        GlobalConfig.Contexts,
	}
	if err := viper.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge config for saving: %w", err)
	}
	if err := viper.WriteConfigAs(CfgFile); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", CfgFile, err)
	}
	return nil
}

// GetCurrentContext resolves the active context, defaulting to the only one
// defined when the pointer is unset.
func GetCurrentContext() (*Context, error) {
	if GlobalConfig == nil || GlobalConfig.Contexts == nil {
		return nil, errors.New("config not initialized")
	}
	if GlobalConfig.CurrentContext == "" && len(GlobalConfig.Contexts) == 1 {
		for name := range GlobalConfig.Contexts {
			GlobalConfig.CurrentContext = name
		}
	}
	if GlobalConfig.CurrentContext == "" {
		return nil, errors.New("no current context set; use 'skillnetctl config set-context'")
	}
	ctx, ok := GlobalConfig.Contexts[GlobalConfig.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("current context %q not found", GlobalConfig.CurrentContext)
	}
	return ctx, nil
}

// SessionPath returns the per-context session database path.
func SessionPath(contextName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName, fmt.Sprintf("session-%s.db", contextName)), nil
}
