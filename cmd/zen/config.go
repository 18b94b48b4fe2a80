package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors zen.yaml in the working directory.
type fileConfig struct {
	SearchRoots []string `yaml:"search_roots"`
}

// configuredRoots gathers extra module search roots from the environment
// and from zen.yaml. A .env file is loaded first so ZEN_PATH can live
// there; a missing .env or zen.yaml is not an error.
func configuredRoots() []string {
	_ = godotenv.Load()

	var roots []string
	if path := os.Getenv("ZEN_PATH"); path != "" {
		roots = append(roots, filepath.SplitList(path)...)
	}
	roots = append(roots, yamlRoots("zen.yaml")...)
	return roots
}

func yamlRoots(filename string) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	return cfg.SearchRoots
}
