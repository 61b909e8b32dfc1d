package scaffold

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/laia-project/laia/internal/compose"
)

// Environments with a config/<env>.json file
var Environments = []string{"dev", "prod"}

// ProjectConfigFile is written at the project root
const ProjectConfigFile = "laia.json"

type MongoConfig struct {
	URL      string `json:"url"`
	Database string `json:"database"`
}

type JWTConfig struct {
	SecretKey        string `json:"secret_key"`
	RefreshSecretKey string `json:"refresh_secret_key"`
}

type ServerConfig struct {
	Port          int    `json:"port"`
	BaseURIPrefix string `json:"base_uri_prefix"`
}

type FusekiConfig struct {
	BaseURL  string `json:"base_url"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// EnvConfig is the content of config/<env>.json
type EnvConfig struct {
	Mongo   MongoConfig           `json:"mongo"`
	JWT     JWTConfig             `json:"jwt"`
	Server  ServerConfig          `json:"server"`
	Storage compose.StorageConfig `json:"storage"`
	Fuseki  *FusekiConfig         `json:"fuseki,omitempty"`
}

// ProjectConfig is the content of laia.json
type ProjectConfig struct {
	ProjectName     string `json:"project_name"`
	UseOntology     bool   `json:"use_ontology"`
	Database        string `json:"database"`
	Frontend        string `json:"frontend"`
	UseAccessRights bool   `json:"use_access_rights"`
	Storage         bool   `json:"storage"`
}

// newSecret returns a random 32 character hex string
func newSecret() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func defaultEnvConfigs(useOntology bool) map[string]EnvConfig {
	dev := EnvConfig{
		Mongo:  MongoConfig{URL: "mongodb://localhost:27017", Database: "test"},
		JWT:    JWTConfig{SecretKey: "secret1", RefreshSecretKey: "secret2"},
		Server: ServerConfig{Port: 8005, BaseURIPrefix: "http://localhost:8005"},
	}
	prod := EnvConfig{
		Mongo:  MongoConfig{URL: "mongodb://mongo:27017", Database: "prod_db"},
		JWT:    JWTConfig{SecretKey: newSecret(), RefreshSecretKey: newSecret()},
		Server: ServerConfig{Port: 8005, BaseURIPrefix: "https://api.example.com"},
	}
	if useOntology {
		dev.Fuseki = &FusekiConfig{BaseURL: "http://localhost:3030", User: "admin", Password: "admin"}
		prod.Fuseki = &FusekiConfig{BaseURL: "https://fuseki.example.com", User: "admin", Password: newSecret()}
	}
	return map[string]EnvConfig{"dev": dev, "prod": prod}
}

// writeJSON writes v with four space indentation
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return CreateFile(path, append(data, '\n'))
}

// CreateConfigFiles writes config/dev.json and config/prod.json under dir
func CreateConfigFiles(dir string, useOntology bool) error {
	configs := defaultEnvConfigs(useOntology)
	for _, env := range Environments {
		if err := writeJSON(filepath.Join(dir, env+".json"), configs[env]); err != nil {
			return err
		}
	}
	compose.LogSuccess("Config files created in %s", dir)
	return nil
}

// DefaultStorageConfig returns the MinIO settings written by UpdateStorageConfig
func DefaultStorageConfig() compose.StorageConfig {
	return compose.StorageConfig{
		RootUser:     "admin",
		RootPassword: newSecret(),
		DataPath:     "./data",
		APIPort:      9000,
		ConsolePort:  9001,
		EndpointURL:  "http://localhost:9000",
	}
}

// UpdateStorageConfig sets the storage section of every environment file in
// dir. Files that do not exist are skipped with a warning. Other keys are kept.
func UpdateStorageConfig(dir string, storage compose.StorageConfig) error {
	for _, env := range Environments {
		path := filepath.Join(dir, env+".json")

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			compose.LogWarning("Config file %s not found, skipping.", path)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		doc["storage"] = storage

		if err := writeJSON(path, doc); err != nil {
			return err
		}
		compose.LogSuccess("Updated storage config in %s", filepath.Base(path))
	}
	return nil
}

// LoadStorageConfig reads the storage section of a config file. A missing
// file or section yields the zero value, which renders with defaults.
func LoadStorageConfig(path string) (compose.StorageConfig, error) {
	var cfg struct {
		Storage compose.StorageConfig `json:"storage"`
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return compose.StorageConfig{}, nil
	}
	if err != nil {
		return compose.StorageConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return compose.StorageConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.Storage, nil
}

// ReadProjectConfig loads laia.json from dir
func ReadProjectConfig(dir string) (ProjectConfig, error) {
	var cfg ProjectConfig
	path := filepath.Join(dir, ProjectConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// WriteProjectConfig stores cfg as laia.json in dir
func WriteProjectConfig(dir string, cfg ProjectConfig) error {
	return writeJSON(filepath.Join(dir, ProjectConfigFile), cfg)
}
