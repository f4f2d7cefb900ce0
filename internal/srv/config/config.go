package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"

type ServerConfig struct {
	ConfigDir string
	DebugMode bool

	*ServerParam
}

func NewServerConfig(configDir string, debugMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir: configDir,
		DebugMode: debugMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.MkdirAll(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	// Open param file
	if _, err := os.Stat(serverConfig.GetCompleteParamFilename()); err == nil {
		serverConfig.ServerParam, err = LoadParam(serverConfig.GetCompleteParamFilename())
		if err != nil {
			logrus.Fatalf("Unable to interpret param file: %v\n", err)
		}
	} else {
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam, err = ParseParam(ParamDefaultFile)
		if err != nil {
			logrus.Fatalf("Unable to interpret default param file: %v\n", err)
		}
		serverConfig.SaveParam()
	}

	return serverConfig
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) GetCompleteCertFilename() string {
	return filepath.Join(sc.ConfigDir, "cert.pem")
}

func (sc *ServerConfig) GetCompleteKeyFilename() string {
	return filepath.Join(sc.ConfigDir, "key.pem")
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = os.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}

// LoadParam reads and validates a param file.
func LoadParam(filename string) (*ServerParam, error) {
	rawConfig, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseParam(rawConfig)
}

func ParseParam(rawConfig []byte) (*ServerParam, error) {
	serverParam := &ServerParam{}
	if err := yaml.Unmarshal(rawConfig, serverParam); err != nil {
		return nil, err
	}
	if _, err := serverParam.StationTable(); err != nil {
		return nil, fmt.Errorf("invalid stations: %w", err)
	}
	return serverParam, nil
}
