// Package config loads codec options from configuration files.
//
// Two formats are accepted, chosen by file extension:
//
//	.yaml / .yml  decoded with unknown keys rejected
//	.cue          unified with the embedded #Config schema
//
// Both use the same field names (sort_keys, preserve_nan,
// preserve_infinite, error_on_nan, error_on_infinite). Fields that are
// absent keep their default value.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jpack/internal/codec"
)

//go:embed schema.cue
var schemaSource string

// Format identifies a configuration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .cue)", filepath.Ext(path))
}

// Load reads codec options from path.
func Load(path string) (codec.Options, error) {
	format, err := FormatFor(path)
	if err != nil {
		return codec.Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return codec.Options{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, format, path)
}

// Parse decodes options from data. filename is only used in error
// positions and may be empty.
func Parse(data []byte, format Format, filename string) (codec.Options, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatCUE:
		return parseCUE(data, filename)
	}
	return codec.Options{}, fmt.Errorf("unsupported config format %q", format)
}

func parseYAML(data []byte) (codec.Options, error) {
	opts := codec.DefaultOptions()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return opts, nil
		}
		return codec.Options{}, fmt.Errorf("parse YAML config: %w", err)
	}
	return opts, nil
}

func parseCUE(data []byte, filename string) (codec.Options, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return codec.Options{}, fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return codec.Options{}, formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return codec.Options{}, formatCUEError(err)
	}

	opts := codec.DefaultOptions()
	if err := unified.Decode(&opts); err != nil {
		return codec.Options{}, formatCUEError(err)
	}
	return opts, nil
}

// Error is a configuration error with a source position.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	cfgErr := &Error{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}
