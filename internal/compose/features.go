package compose

import (
	"errors"
	"fmt"
	"sort"
)

// FusekiBlock is the ontology store service
const FusekiBlock = `  jena-fuseki:
    image: stain/jena-fuseki
    container_name: jena-fuseki
    platform: linux/amd64
    ports:
      - "3030:3030"
    environment:
      - ADMIN_PASSWORD=admin
    volumes:
      - jena_data:/fuseki
`

const minioTemplate = `  minio:
    image: minio/minio:latest
    container_name: minio
    restart: unless-stopped
    ports:
      - "%d:9000"
      - "%d:9001"
    environment:
      MINIO_ROOT_USER: %s
      MINIO_ROOT_PASSWORD: %s
    command: server /data --console-address ":9001"
    volumes:
      - minio_data:/data
`

// Feature names accepted by LookupFeature
const (
	FeatureOntology   = "ontology"
	FeatureStorage    = "storage"
	FeatureReplicaSet = "replicaset"
)

// ErrUnknownFeature is returned by LookupFeature for names it does not know
var ErrUnknownFeature = errors.New("unknown feature")

// MongoReplicaSet turns the mongo service into a single node replica set
var MongoReplicaSet = Directive{
	Service: "mongo",
	Command: `    command: ["--replSet", "rs0", "--bind_ip_all"]`,
	Bind:    `      - ./init-replica.js:/docker-entrypoint-initdb.d/init-replica.js:ro`,
}

// StorageConfig holds the MinIO settings kept in the "storage" section of config/*.json
type StorageConfig struct {
	RootUser     string `json:"MINIO_ROOT_USER,omitempty"`
	RootPassword string `json:"MINIO_ROOT_PASSWORD,omitempty"`
	DataPath     string `json:"MINIO_DATA_PATH,omitempty"`
	APIPort      int    `json:"MINIO_API_PORT,omitempty"`
	ConsolePort  int    `json:"MINIO_CONSOLE_PORT,omitempty"`
	EndpointURL  string `json:"MINIO_ENDPOINT_URL,omitempty"`
}

// WithDefaults fills unset fields with the stock MinIO values
func (c StorageConfig) WithDefaults() StorageConfig {
	if c.APIPort == 0 {
		c.APIPort = 9000
	}
	if c.ConsolePort == 0 {
		c.ConsolePort = 9001
	}
	if c.RootUser == "" {
		c.RootUser = "admin"
	}
	if c.RootPassword == "" {
		c.RootPassword = "password"
	}
	if c.DataPath == "" {
		c.DataPath = "./data"
	}
	return c
}

// OntologyBlock returns the jena-fuseki block
func OntologyBlock() Block {
	return Block{Name: "jena-fuseki", Text: FusekiBlock, Volume: "jena_data"}
}

// MinioBlock renders the minio block. DataPath is not part of the service
// definition; the data lives in the minio_data volume.
func MinioBlock(cfg StorageConfig) Block {
	cfg = cfg.WithDefaults()
	return Block{
		Name:   "minio",
		Text:   fmt.Sprintf(minioTemplate, cfg.APIPort, cfg.ConsolePort, cfg.RootUser, cfg.RootPassword),
		Volume: "minio_data",
	}
}

// Feature toggles one optional piece of infrastructure in a compose file
type Feature interface {
	Name() string
	Enable(path string, config EditorConfig) (bool, error)
	Disable(path string, config EditorConfig) (bool, error)
}

type blockFeature struct {
	name  string
	block Block
}

func (f blockFeature) Name() string { return f.name }

func (f blockFeature) Enable(path string, config EditorConfig) (bool, error) {
	return EnsureBlockInFile(path, f.block, config)
}

func (f blockFeature) Disable(path string, config EditorConfig) (bool, error) {
	return RemoveBlockFromFile(path, f.block.Name, f.block.Volume, config)
}

type directiveFeature struct {
	name      string
	directive Directive
}

func (f directiveFeature) Name() string { return f.name }

func (f directiveFeature) Enable(path string, config EditorConfig) (bool, error) {
	return EnsureDirectiveInFile(path, f.directive, config)
}

func (f directiveFeature) Disable(path string, config EditorConfig) (bool, error) {
	return RemoveDirectiveFromFile(path, f.directive, config)
}

// OntologyFeature toggles the jena-fuseki service
func OntologyFeature() Feature {
	return blockFeature{name: FeatureOntology, block: OntologyBlock()}
}

// StorageFeature toggles the minio service rendered from cfg
func StorageFeature(cfg StorageConfig) Feature {
	return blockFeature{name: FeatureStorage, block: MinioBlock(cfg)}
}

// ReplicaSetFeature toggles the mongo replica set directive
func ReplicaSetFeature() Feature {
	return directiveFeature{name: FeatureReplicaSet, directive: MongoReplicaSet}
}

// LookupFeature resolves a feature by name
func LookupFeature(name string, storage StorageConfig) (Feature, error) {
	switch name {
	case FeatureOntology:
		return OntologyFeature(), nil
	case FeatureStorage:
		return StorageFeature(storage), nil
	case FeatureReplicaSet:
		return ReplicaSetFeature(), nil
	}
	return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownFeature, name, FeatureNames())
}

// FeatureNames lists the names LookupFeature accepts
func FeatureNames() []string {
	names := []string{FeatureOntology, FeatureStorage, FeatureReplicaSet}
	sort.Strings(names)
	return names
}
