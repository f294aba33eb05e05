package configparser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and loads its leaves into the environment.
// Nested keys are joined with "_" and upper-cased: auth.token_ttl -> AUTH_TOKEN_TTL.
// Variables already present in the environment win over the file.
// Values of the form ${VAR:-default} are resolved against the environment.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	vars := make(map[string]string)
	flatten("", tree, vars)

	for key, value := range vars {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			// "key:" without a value does not define a variable
		default:
			out[key] = expand(fmt.Sprint(val))
		}
	}
}

// expand resolves ${VAR:-default}.
func expand(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, found := strings.Cut(inner, ":-")
	name = strings.TrimSpace(name)
	if env := os.Getenv(name); env != "" {
		return env
	}
	if found {
		return strings.TrimSpace(def)
	}
	return ""
}
