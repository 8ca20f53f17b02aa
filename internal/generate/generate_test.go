// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/plugver/plugver/internal/issue"
	"github.com/plugver/plugver/internal/testutil"
	"github.com/plugver/plugver/pkg/pluginver"
	"github.com/plugver/plugver/pkg/types"

	"github.com/spf13/afero"
)

const (
	memModuleDir  = "/work/Plugins/Charon/Source/Charon"
	memDescriptor = "/work/Plugins/Charon/Charon.uplugin"
)

func newMemGenerator(t *testing.T, descriptor string) (*Generator, afero.Fs, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(memModuleDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if descriptor != "" {
		if err := afero.WriteFile(fs, memDescriptor, []byte(descriptor), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithFs(fs), WithLogger(logger)), fs, &logs
}

func charonRequest(w io.Writer) Request {
	return Request{
		ModuleDir: memModuleDir,
		Plugin:    "Charon",
		Writer:    w,
	}
}

func TestRun_WritesDefinesToWriter(t *testing.T) {
	t.Parallel()

	gen, _, _ := newMemGenerator(t, string(testutil.DescriptorContent("1.5.3")))
	var out bytes.Buffer

	res, err := gen.Run(context.Background(), charonRequest(&out))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := strings.Join([]string{
		"CHARON_PLUGIN_MAJOR_VERSION=1",
		"CHARON_PLUGIN_MINOR_VERSION=5",
		"CHARON_PLUGIN_PATCH_VERSION=3",
		`CHARON_PLUGIN_VERSION_STRING="1.5.3"`,
		"CHARON_PLUGIN_VERSION_AT_LEAST(Major, Minor) ((CHARON_PLUGIN_MAJOR_VERSION > Major) || (CHARON_PLUGIN_MAJOR_VERSION == Major && CHARON_PLUGIN_MINOR_VERSION >= Minor))",
	}, "\n") + "\n"
	if out.String() != want {
		t.Errorf("output mismatch:\n got: %q\nwant: %q", out.String(), want)
	}

	if !res.Found {
		t.Error("Found = false, want true")
	}
	if res.DescriptorPath != filepath.Join(memModuleDir, "..", "..", "Charon.uplugin") {
		t.Errorf("DescriptorPath = %q", res.DescriptorPath)
	}
	if res.Format != pluginver.FormatDefines {
		t.Errorf("Format = %q, want defines", res.Format)
	}
	if res.OutputPath != "" || !res.Written || res.Bytes != out.Len() {
		t.Errorf("OutputPath/Written/Bytes = %q/%v/%d", res.OutputPath, res.Written, res.Bytes)
	}
}

func TestRun_MissingDescriptorFallsBack(t *testing.T) {
	t.Parallel()

	gen, _, logs := newMemGenerator(t, "")
	var out bytes.Buffer

	res, err := gen.Run(context.Background(), charonRequest(&out))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Found {
		t.Error("Found = true, want false")
	}
	if got := res.Set.Version(); got != pluginver.FallbackVersion() {
		t.Errorf("version = %+v, want fallback", got)
	}
	if !strings.Contains(out.String(), `CHARON_PLUGIN_VERSION_STRING="0.0.0"`) {
		t.Errorf("fallback version string missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "CHARON_PLUGIN_VERSION_AT_LEAST(Major, Minor) ((") {
		t.Errorf("macro missing from fallback output:\n%s", out.String())
	}
	if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "plugin descriptor not found") {
		t.Errorf("expected a warning log, got:\n%s", logs.String())
	}
}

func TestRun_PrefixAndFormat(t *testing.T) {
	t.Parallel()

	gen, _, _ := newMemGenerator(t, `{"VersionName": "2.3.0"}`)
	var out bytes.Buffer
	req := charonRequest(&out)
	req.Prefix = "CHR"
	req.Format = pluginver.FormatHeader

	if _, err := gen.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, want := range []string{
		"#define CHR_MAJOR_VERSION 2",
		"#define CHR_MINOR_VERSION 3",
		`#define CHR_VERSION_STRING "2.3.0"`,
		"#define CHR_VERSION_AT_LEAST(Major, Minor)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("header missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_InvalidRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"empty plugin", func(r *Request) { r.Plugin = "" }, pluginver.ErrInvalidPluginName},
		{"plugin with separator", func(r *Request) { r.Plugin = "a/b" }, pluginver.ErrInvalidPluginName},
		{"empty module dir", func(r *Request) { r.ModuleDir = " " }, types.ErrInvalidFilesystemPath},
		{"bad prefix", func(r *Request) { r.Prefix = "has space" }, pluginver.ErrInvalidMacroPrefix},
		{"bad format", func(r *Request) { r.Format = "xml" }, pluginver.ErrInvalidFormat},
		{"no destination", func(r *Request) { r.Writer = nil }, ErrNoWriter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen, _, _ := newMemGenerator(t, "")
			req := charonRequest(io.Discard)
			tt.mutate(&req)

			_, err := gen.Run(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	gen, _, _ := newMemGenerator(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.Run(ctx, charonRequest(io.Discard)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_WriteIfChanged(t *testing.T) {
	t.Parallel()

	gen, fs, _ := newMemGenerator(t, `{"VersionName": "1.0.0"}`)
	const output = "/work/Intermediate/Generated/CharonVersion.h"
	req := charonRequest(nil)
	req.Output = output
	req.Format = pluginver.FormatHeader

	first, err := gen.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if !first.Written || first.OutputPath != output {
		t.Fatalf("first run Written/OutputPath = %v/%q", first.Written, first.OutputPath)
	}
	content, err := afero.ReadFile(fs, output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if len(content) != first.Bytes {
		t.Errorf("file size %d, Bytes %d", len(content), first.Bytes)
	}

	second, err := gen.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if second.Written {
		t.Error("second run rewrote identical content")
	}

	if err := afero.WriteFile(fs, memDescriptor, []byte(`{"VersionName": "1.1.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := gen.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("third Run() error: %v", err)
	}
	if !third.Written {
		t.Error("changed descriptor did not rewrite output")
	}
	content, _ = afero.ReadFile(fs, output)
	if !strings.Contains(string(content), "#define CHARON_PLUGIN_MINOR_VERSION 1") {
		t.Errorf("output not updated:\n%s", content)
	}

	entries, err := afero.ReadDir(fs, filepath.Dir(output))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries in output dir", len(entries))
	}
}

func TestRun_OutputWriteFailure(t *testing.T) {
	t.Parallel()

	_, fs, _ := newMemGenerator(t, "")
	gen := New(WithFs(afero.NewReadOnlyFs(fs)), WithLogger(slog.New(slog.DiscardHandler)))
	req := charonRequest(nil)
	req.Output = "/work/Intermediate/CharonVersion.h"

	_, err := gen.Run(context.Background(), req)
	if err == nil {
		t.Fatal("Run() should fail on a read-only filesystem")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T", err)
	}
	if ae.Resource != req.Output.String() {
		t.Errorf("resource = %q, want %q", ae.Resource, req.Output)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	gen, _, _ := newMemGenerator(t, `{"VersionName": "x.5.3"}`)

	res, err := gen.Resolve(context.Background(), memModuleDir, "Charon", "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	v := res.Set.Version()
	if v.Major != 0 || v.Minor != 5 || v.Patch != 3 {
		t.Errorf("version = %d.%d.%d, want 0.5.3", v.Major, v.Minor, v.Patch)
	}
	if res.Set.Prefix() != "CHARON_PLUGIN" {
		t.Errorf("prefix = %q", res.Set.Prefix())
	}

	if _, err := gen.Resolve(context.Background(), memModuleDir, "", ""); !errors.Is(err, pluginver.ErrInvalidPluginName) {
		t.Errorf("Resolve() with empty plugin error = %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	gen, _, _ := newMemGenerator(t, string(testutil.DescriptorContent("4.27.1")))

	for _, format := range pluginver.Formats() {
		var first, second bytes.Buffer
		req := charonRequest(&first)
		req.Format = format
		if _, err := gen.Run(context.Background(), req); err != nil {
			t.Fatalf("Run(%s) error: %v", format, err)
		}
		req.Writer = &second
		if _, err := gen.Run(context.Background(), req); err != nil {
			t.Fatalf("Run(%s) error: %v", format, err)
		}
		if !bytes.Equal(first.Bytes(), second.Bytes()) {
			t.Errorf("format %s is not deterministic", format)
		}
	}
}

func TestRun_OSFilesystemPreservesMtime(t *testing.T) {
	t.Parallel()

	tree := testutil.WriteDescriptor(t, "Charon", "1.5.3")
	output := filepath.Join(tree.Root, "Intermediate", "CharonVersion.h")
	gen := New(WithLogger(slog.New(slog.DiscardHandler)))
	req := Request{
		ModuleDir: types.FilesystemPath(tree.ModuleDir),
		Plugin:    "Charon",
		Format:    pluginver.FormatHeader,
		Output:    types.FilesystemPath(output),
	}

	if _, err := gen.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(output, old, old); err != nil {
		t.Fatal(err)
	}

	res, err := gen.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if res.Written {
		t.Error("unchanged output was rewritten")
	}
	info, err := os.Stat(output)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("mtime changed: %v, want %v", info.ModTime(), old)
	}
}
