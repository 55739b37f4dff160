package vocab

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/tts-reader/internal/core"
	"github.com/pelletier/go-toml/v2"
)

// Dictionary source kinds.
const (
	SourceBuiltin     = "builtin"
	SourceFile        = "file"
	SourceObjectStore = "objectstore"
)

var (
	// ErrUnknownSource indicates an unsupported dictionary source kind.
	ErrUnknownSource = errors.New("unknown dictionary source")
	// ErrNoObjectStore indicates an objectstore source without a store.
	ErrNoObjectStore = errors.New("object store is required for objectstore dictionaries")
)

// Source selects where the dictionary is read from.
type Source struct {
	Kind      string
	Path      string
	ObjectKey string
}

// dictionaryFile is the TOML layout: an array of tables keeps declaration order.
type dictionaryFile struct {
	Entries []Entry `toml:"entries"`
}

// Load reads the dictionary once from the configured source.
func Load(ctx context.Context, source Source, store core.ObjectStore) (*Dictionary, error) {
	switch source.Kind {
	case "", SourceBuiltin:
		return Builtin(), nil
	case SourceFile:
		return LoadFile(source.Path)
	case SourceObjectStore:
		if store == nil {
			return nil, ErrNoObjectStore
		}

		return LoadObject(ctx, store, source.ObjectKey)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSource, source.Kind)
	}
}

// ParseTOML decodes a dictionary document.
func ParseTOML(data []byte) (*Dictionary, error) {
	var file dictionaryFile

	err := toml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dictionary TOML: %w", err)
	}

	return New(file.Entries)
}

// LoadFile reads a dictionary TOML file from disk.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file '%s': %w", path, err)
	}

	dictionary, parseErr := ParseTOML(data)
	if parseErr != nil {
		return nil, fmt.Errorf("dictionary file '%s': %w", path, parseErr)
	}

	return dictionary, nil
}

// LoadObject reads a dictionary TOML object from the object store.
func LoadObject(ctx context.Context, store core.ObjectStore, key string) (*Dictionary, error) {
	data, err := store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download dictionary '%s': %w", key, err)
	}

	dictionary, parseErr := ParseTOML(data)
	if parseErr != nil {
		return nil, fmt.Errorf("dictionary object '%s': %w", key, parseErr)
	}

	return dictionary, nil
}
