package loader

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// errInvalidJSON is wrapped by ParseError for malformed JSON.
var errInvalidJSON = errors.New("invalid JSON")

// JSONLoader loads configuration from JSON files.
type JSONLoader struct {
	fileLoader
}

// NewJSONLoader creates a new JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return NewJSONLoaderWithFS(DefaultFS(), path)
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{fileLoader{fs: fs, path: path, parse: parseJSON}}
}

func parseJSON(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: errInvalidJSON.Error(), Err: errInvalidJSON}
	}

	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		err := fmt.Errorf("%w: top level must be an object", errInvalidJSON)
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	config, _ := result.Value().(map[string]any)
	return config, nil
}
