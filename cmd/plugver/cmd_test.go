// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/plugver/plugver/internal/config"
	"github.com/plugver/plugver/internal/testutil"

	"github.com/spf13/afero"
)

const (
	memModuleDir  = "/work/Plugins/Charon/Source/Charon"
	memDescriptor = "/work/Plugins/Charon/Charon.uplugin"
)

// stubConfig is a ConfigProvider returning a fixed configuration.
type stubConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s *stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (s *stubConfig) Resolve(config.LoadOptions) (string, error) {
	return s.path, nil
}

// cliResult captures one CLI invocation.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// newCharonFs returns an in-memory filesystem holding the Charon build module
// and, unless versionName is empty, its descriptor.
func newCharonFs(t *testing.T, versionName string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(memModuleDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if versionName != "" {
		if err := afero.WriteFile(fs, memDescriptor, testutil.DescriptorContent(versionName), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// runCLI executes the command tree with args. A nil cfg means DefaultConfig.
func runCLI(t *testing.T, fs afero.Fs, cfg *config.Config, args ...string) cliResult {
	t.Helper()

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return runCLIWith(t, Dependencies{Config: &stubConfig{cfg: cfg}, Fs: fs}, args...)
}

func runCLIWith(t *testing.T, deps Dependencies, args ...string) cliResult {
	t.Helper()
	return runCLIContext(t, t.Context(), deps, args...)
}

func runCLIContext(t *testing.T, ctx context.Context, deps Dependencies, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr

	root := newRootCommand(NewApp(deps))
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(ctx)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// exitCode returns the status Execute would exit with for err.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return 1
}
