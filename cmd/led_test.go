package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smazurov/bbled/internal/updater"
	"github.com/spf13/cobra"
)

// run executes c with args and returns stdout, stderr and the exit code.
func run(t *testing.T, c *cobra.Command, args ...string) (string, string, int) {
	t.Helper()
	code := 0
	exit = func(status int) { code = status }
	t.Cleanup(func() { exit = os.Exit })

	var stdout, stderr bytes.Buffer
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs(args)
	if err := c.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return stdout.String(), stderr.String(), code
}

func findCmd(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, c := range CreateLEDCmds() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("no %s command", name)
	return nil
}

// ledDir creates <tmp>/usrN and returns the base path.
func ledDir(t *testing.T, n int) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "usr")
	if err := os.Mkdir(base+string(rune('0'+n)), 0o755); err != nil {
		t.Fatal(err)
	}
	return base
}

func readControl(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLEDCommandsWriteControlFiles(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		files map[string]string
	}{
		{"on", nil, map[string]string{"trigger": "none", "brightness": "1"}},
		{"off", nil, map[string]string{"trigger": "none", "brightness": "0"}},
		{"brightness", []string{"200"}, map[string]string{"trigger": "none", "brightness": "200"}},
		{"blink", nil, map[string]string{"trigger": "timer", "delay_on": "500", "delay_off": "500"}},
		{"blink", []string{"--on-ms", "50", "--off-ms", "950"}, map[string]string{"trigger": "timer", "delay_on": "50", "delay_off": "950"}},
		{"heartbeat", nil, map[string]string{"trigger": "heartbeat"}},
		{"trigger", []string{"timer"}, map[string]string{"trigger": "timer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+strings.Join(tt.args, " "), func(t *testing.T) {
			base := ledDir(t, 2)
			args := append([]string{"--led", "usr2", "--base-path", base}, tt.args...)

			_, stderr, code := run(t, findCmd(t, tt.name), args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			for file, want := range tt.files {
				if got := readControl(t, filepath.Join(base+"2", file)); got != want {
					t.Errorf("%s = %q, want %q", file, got, want)
				}
			}
		})
	}
}

func TestTriggerCommandPrintsActiveMode(t *testing.T) {
	base := ledDir(t, 0)
	if err := os.WriteFile(base+"0/trigger", []byte("none [heartbeat] timer\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, code := run(t, findCmd(t, "trigger"), "--base-path", base)
	if code != 0 || stdout != "heartbeat\n" {
		t.Errorf("trigger = %q (exit %d), want heartbeat", stdout, code)
	}
}

func TestLEDCommandFailures(t *testing.T) {
	base := ledDir(t, 0)
	if err := os.WriteFile(base+"0/trigger", []byte("none timer"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cmd     string
		args    []string
		wantErr string
	}{
		{"protocol violation", "trigger", nil, "protocol violation"},
		{"unknown led", "on", []string{"--led", "7"}, "unknown LED"},
		{"bad brightness", "brightness", []string{"300"}, "invalid brightness"},
		{"bad mode", "trigger", []string{"disco"}, "unknown trigger"},
		{"missing directory", "on", []string{"--led", "3"}, "no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--base-path", base}, tt.args...)
			_, stderr, code := run(t, findCmd(t, tt.cmd), args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

type fakeUpdater struct {
	info    *updater.UpdateInfo
	applied bool
}

func (f *fakeUpdater) CheckForUpdate(context.Context) (*updater.UpdateInfo, error) {
	return f.info, nil
}
func (f *fakeUpdater) ApplyUpdate(context.Context) error {
	f.applied = true
	return nil
}
func (f *fakeUpdater) Rollback(context.Context) error            { return errors.New("unused") }
func (f *fakeUpdater) GetStatus(context.Context) *updater.Status { return &updater.Status{} }
func (f *fakeUpdater) IsEnabled() bool                           { return true }
func (f *fakeUpdater) DisabledReason() string                    { return "" }

func TestUpdateCommand(t *testing.T) {
	fake := &fakeUpdater{info: &updater.UpdateInfo{CurrentVersion: "v0.1.0", LatestVersion: "v0.2.0", UpdateAvailable: true}}
	var gotOpts updater.Options
	newUpdateService = func(opts updater.Options) (updater.Service, error) {
		gotOpts = opts
		return fake, nil
	}
	t.Cleanup(func() { newUpdateService = updater.NewService })

	stdout, _, code := run(t, CreateUpdateCmd("smazurov/bbled"))
	if code != 0 || !strings.Contains(stdout, "v0.1.0 -> v0.2.0") || fake.applied {
		t.Errorf("check: stdout = %q, exit %d, applied %v", stdout, code, fake.applied)
	}
	if gotOpts.Repository != "smazurov/bbled" || gotOpts.Restart == nil {
		t.Errorf("options = %+v", gotOpts)
	}

	stdout, _, code = run(t, CreateUpdateCmd("smazurov/bbled"), "--apply")
	if code != 0 || !fake.applied || !strings.Contains(stdout, "Installed v0.2.0") {
		t.Errorf("apply: stdout = %q, exit %d, applied %v", stdout, code, fake.applied)
	}

	newUpdateService = func(updater.Options) (updater.Service, error) {
		return nil, errors.New("updater: repository is required")
	}
	_, stderr, code := run(t, CreateUpdateCmd(""))
	if code != 1 || !strings.Contains(stderr, "repository is required") {
		t.Errorf("failure: stderr = %q, exit %d", stderr, code)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, _ := run(t, CreateVersionCmd())
	if !strings.HasPrefix(stdout, "bbled ") {
		t.Errorf("version output = %q", stdout)
	}
}
