// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/plugver/plugver/internal/issue"
	"github.com/plugver/plugver/pkg/pluginver"
	"github.com/plugver/plugver/pkg/types"

	"github.com/spf13/afero"
)

// ErrNoWriter is returned when a Request has neither an output path nor a writer.
var ErrNoWriter = errors.New("request has no output path and no writer")

type (
	// Request describes one generation run.
	Request struct {
		// ModuleDir is the build module directory; the descriptor is read from
		// <ModuleDir>/../../<Plugin>.uplugin.
		ModuleDir types.FilesystemPath
		// Plugin is the descriptor file stem.
		Plugin pluginver.PluginName
		// Prefix overrides the derived macro prefix when non-empty.
		Prefix pluginver.MacroPrefix
		// Format selects the artifact encoding; empty means pluginver.DefaultFormat.
		Format pluginver.Format
		// Output is the destination file. Empty writes to Writer.
		Output types.FilesystemPath
		// Writer receives the artifact when Output is empty.
		Writer io.Writer
	}

	// Resolution is the outcome of locating and parsing a descriptor.
	Resolution struct {
		// DescriptorPath is where the descriptor was looked up.
		DescriptorPath string
		// Found reports whether the descriptor was read.
		Found bool
		// Set holds the emitted definitions.
		Set pluginver.DefinitionSet
	}

	// Result reports what a Run produced.
	Result struct {
		Resolution
		// Format is the format that was rendered.
		Format pluginver.Format
		// OutputPath is the written file, or "" when the artifact went to a writer.
		OutputPath string
		// Written is false when OutputPath already held identical content.
		Written bool
		// Bytes is the rendered artifact size.
		Bytes int
	}

	// Generator runs requests against a filesystem.
	Generator struct {
		fs     afero.Fs
		reader *pluginver.Reader
		logger *slog.Logger
	}

	// Option configures a Generator.
	Option func(*Generator)
)

// WithFs sets the filesystem used for both descriptor reads and output writes.
func WithFs(fs afero.Fs) Option {
	return func(g *Generator) { g.fs = fs }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a Generator backed by the OS filesystem unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		fs:     afero.NewOsFs(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reader = pluginver.NewReader(g.fs)
	return g
}

// effectivePrefix returns the explicit prefix or the one derived from the plugin name.
func (r Request) effectivePrefix() pluginver.MacroPrefix {
	if r.Prefix != "" {
		return r.Prefix
	}
	return pluginver.DefaultPrefix(r.Plugin)
}

// Validate returns the first invalid field of the request.
func (r Request) Validate() error {
	if err := r.Plugin.Validate(); err != nil {
		return err
	}
	if err := r.ModuleDir.Validate(); err != nil {
		return err
	}
	if err := r.effectivePrefix().Validate(); err != nil {
		return err
	}
	if r.Format != "" {
		if err := r.Format.Validate(); err != nil {
			return err
		}
	}
	if r.Output == "" && r.Writer == nil {
		return ErrNoWriter
	}
	return nil
}

// Resolve locates the descriptor and derives the definitions without writing
// anything. A missing descriptor is logged and yields the fallback version.
func (g *Generator) Resolve(ctx context.Context, moduleDir types.FilesystemPath, plugin pluginver.PluginName, prefix pluginver.MacroPrefix) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, fmt.Errorf("resolve canceled: %w", err)
	}

	req := Request{ModuleDir: moduleDir, Plugin: plugin, Prefix: prefix}
	if err := plugin.Validate(); err != nil {
		return Resolution{}, err
	}
	if err := moduleDir.Validate(); err != nil {
		return Resolution{}, err
	}
	if err := req.effectivePrefix().Validate(); err != nil {
		return Resolution{}, err
	}

	return g.resolve(req), nil
}

func (g *Generator) resolve(req Request) Resolution {
	path := pluginver.DescriptorPath(req.ModuleDir.String(), req.Plugin)
	desc, found := g.reader.Read(path)
	if !found {
		g.logger.Warn("plugin descriptor not found, using fallback version",
			"path", path, "version", pluginver.FallbackVersionText)
	}

	version := pluginver.VersionFromDescriptor(desc)
	g.logger.Debug("resolved plugin version",
		"path", path, "found", found, "version", version.String(), "triple", version.Triple())

	return Resolution{
		DescriptorPath: path,
		Found:          found,
		Set:            pluginver.NewDefinitionSet(req.effectivePrefix(), version),
	}
}

// Run validates req, resolves the definitions, renders them and writes the
// artifact. Only validation and output I/O can fail.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate canceled: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generate request: %w", err)
	}

	format := req.Format
	if format == "" {
		format = pluginver.DefaultFormat
	}

	res := &Result{
		Resolution: g.resolve(req),
		Format:     format,
	}

	data, err := pluginver.RenderBytes(res.Set, format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	res.Bytes = len(data)

	if req.Output == "" {
		if _, err := req.Writer.Write(data); err != nil {
			return nil, fmt.Errorf("write definitions: %w", err)
		}
		res.Written = true
		return res, nil
	}

	res.OutputPath = req.Output.String()
	written, err := g.writeIfChanged(res.OutputPath, data)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write definitions").
			WithResource(res.OutputPath).
			WithSuggestion("Check that the output directory is writable").
			WithSuggestion("Omit --output to print the definitions to stdout").
			Wrap(err).
			BuildError()
	}
	res.Written = written

	g.logger.Info("generated plugin definitions",
		"output", res.OutputPath, "format", format.String(), "written", written, "bytes", res.Bytes)

	return res, nil
}

// writeIfChanged replaces path with data unless it already holds exactly
// data. The replacement goes through a temporary file in the same directory
// and a rename, so readers never observe a partial artifact.
func (g *Generator) writeIfChanged(path string, data []byte) (bool, error) {
	existing, err := afero.ReadFile(g.fs, path)
	switch {
	case err == nil && bytes.Equal(existing, data):
		return false, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("read existing output: %w", err)
	}

	dir := filepath.Dir(path)
	if err := g.fs.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := afero.TempFile(g.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = g.fs.Remove(tmpName)
		return false, fmt.Errorf("write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = g.fs.Remove(tmpName)
		return false, fmt.Errorf("close temporary file: %w", err)
	}
	if err := g.fs.Chmod(tmpName, 0o644); err != nil {
		_ = g.fs.Remove(tmpName)
		return false, fmt.Errorf("set output permissions: %w", err)
	}
	if err := g.fs.Rename(tmpName, path); err != nil {
		_ = g.fs.Remove(tmpName)
		return false, fmt.Errorf("replace output: %w", err)
	}

	return true, nil
}
