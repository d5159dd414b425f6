package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/komkom/toml"
)

type Config struct {
	SequencesFile string   `json:"sequences_file"`
	CommandsFile  string   `json:"commands_file"`
	OutputFile    string   `json:"output_file"`
	FastaExport   string   `json:"fasta_export"`
	LogFile       string   `json:"log_file"`
	LogLevel      string   `json:"log_level"`
	Banner        []string `json:"banner"`
}

// Defaults returns the settings used when no config file is present.
func Defaults() *Config {
	return &Config{
		SequencesFile: "sequences.0.txt",
		CommandsFile:  "commands.0.txt",
		OutputFile:    "genedata.txt",
		LogLevel:      "info",
		Banner:        []string{"Artsiom Lisouski", "Genetic search"},
	}
}

// LoadConfig loads a config file from the given path. If path is empty, looks for ./config.json.
// The format follows the extension: .json, .yaml/.yml or .toml. Keys missing
// from the file keep their Defaults value.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}
	c := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		// not fatal: return defaults
		return c, nil
	}
	jsn, err := toJSON(path, data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := json.NewDecoder(bytes.NewReader(jsn)).Decode(c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.YAMLToJSON(data)
	case ".toml":
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(toml.New(bytes.NewReader(data))); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return data, nil
	}
}
