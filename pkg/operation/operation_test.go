package operation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/nsdep/pkg/backup"
	"github.com/walteh/nsdep/pkg/rules"
)

func testOptions(t *testing.T, root string, out *bytes.Buffer) Options {
	t.Helper()
	return Options{
		Root:  root,
		Glob:  "*.tcl",
		Rules: rules.Default(),
		Out:   out,
	}
}

func TestScanOperation_ReportOnly(t *testing.T) {
	dir := t.TempDir()
	init := filepath.Join(dir, "init.tcl")
	require.NoError(t, os.WriteFile(init, []byte("# startup\nns_share $pool\nns_mkdir $dir\n"), 0644))
	clean := filepath.Join(dir, "clean.tcl")
	require.NoError(t, os.WriteFile(clean, []byte("puts \"hello\"\n"), 0644))

	var out bytes.Buffer
	op := NewScanOperation(testOptions(t, dir, &out), false)
	require.NoError(t, op.Execute(context.Background()))

	want := init + ":\n" +
		"    ns_mkdir is deprecated and can be rewritten automatically (run with --change)\n" +
		"    ns_share is deprecated and has no direct replacement\n"
	assert.Equal(t, want, out.String(), "clean files print nothing, findings are name-sorted, no summary without --change")

	// report-only mode twice over an unmodified tree is byte-identical
	var again bytes.Buffer
	op2 := NewScanOperation(testOptions(t, dir, &again), false)
	require.NoError(t, op2.Execute(context.Background()))
	assert.Equal(t, out.String(), again.String())

	// and it never creates backups
	_, err := os.Stat(backup.PathFor(init))
	assert.True(t, os.IsNotExist(err))
}

func TestScanOperation_Change(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tcl")
	require.NoError(t, os.WriteFile(a, []byte("# a\nns_mkdir $foo\n"), 0644))
	b := filepath.Join(dir, "b.tcl")
	require.NoError(t, os.WriteFile(b, []byte("# b\nputs hi\n"), 0644))

	var out bytes.Buffer
	op := NewScanOperation(testOptions(t, dir, &out), true)
	require.NoError(t, op.Execute(context.Background()))

	assert.Equal(t, Summary{TotalChanges: 1, FilesChanged: 1}, op.Summary())

	want := a + ":\n" +
		"    ns_mkdir is deprecated and can be rewritten automatically (run with --change)\n" +
		"\n1 changes in 1 files\n"
	assert.Equal(t, want, out.String())

	live, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "# a\nfile mkdir $foo\n", string(live))

	bak, err := os.ReadFile(backup.PathFor(a))
	require.NoError(t, err)
	assert.Equal(t, "# a\nns_mkdir $foo\n", string(bak))

	_, err = os.Stat(backup.PathFor(b))
	assert.True(t, os.IsNotExist(err), "unchanged files get no backup")
}

func TestScanOperation_TwoWordRewrite(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "threads.tcl")
	require.NoError(t, os.WriteFile(a, []byte("# threads\nns_thread join $tid\n"), 0644))

	var out bytes.Buffer
	op := NewScanOperation(testOptions(t, dir, &out), true)
	require.NoError(t, op.Execute(context.Background()))

	assert.Contains(t, out.String(), "ns_thread join is deprecated")

	live, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "# threads\nns_thread wait $tid\n", string(live))
}

func TestScanOperation_SkipsBackupFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.tcl"), []byte("puts hi\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.tcl-original"), []byte("# x\nns_mkdir $d\n"), 0644))

	var out bytes.Buffer
	opts := testOptions(t, dir, &out)
	opts.Glob = "*" // wide enough to enumerate the backup
	op := NewScanOperation(opts, true)
	require.NoError(t, op.Execute(context.Background()))

	assert.NotContains(t, out.String(), "-original:")
	assert.Equal(t, Summary{}, op.Summary())

	bak, err := os.ReadFile(filepath.Join(dir, "x.tcl-original"))
	require.NoError(t, err)
	assert.Equal(t, "# x\nns_mkdir $d\n", string(bak), "backups are never scanned or rewritten")
}

func TestScanOperation_MissingRoot(t *testing.T) {
	var out bytes.Buffer
	op := NewScanOperation(testOptions(t, filepath.Join(t.TempDir(), "nope"), &out), false)

	err := op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enumerating")
}

func TestResetOperation(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "a.tcl")
	require.NoError(t, os.WriteFile(live, []byte("file mkdir $d\n"), 0644))
	require.NoError(t, os.WriteFile(backup.PathFor(live), []byte("ns_mkdir $d\n"), 0644))

	var out bytes.Buffer
	op := NewResetOperation(testOptions(t, dir, &out))
	require.NoError(t, op.Execute(context.Background()))

	content, err := os.ReadFile(live)
	require.NoError(t, err)
	assert.Equal(t, "ns_mkdir $d\n", string(content))
}

func TestDiffOperation(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "a.tcl")
	require.NoError(t, os.WriteFile(live, []byte("file mkdir $d\n"), 0644))
	require.NoError(t, os.WriteFile(backup.PathFor(live), []byte("ns_mkdir $d\n"), 0644))

	var out bytes.Buffer
	op := NewDiffOperation(testOptions(t, dir, &out))
	require.NoError(t, op.Execute(context.Background()))

	assert.Contains(t, out.String(), "--- "+backup.PathFor(live))
	assert.Contains(t, out.String(), "+++ "+live)
}

type recordingOp struct {
	name  string
	order *[]string
}

func (o *recordingOp) Name() string { return o.name }
func (o *recordingOp) Execute(ctx context.Context) error {
	*o.order = append(*o.order, o.name)
	return nil
}

func TestRunner_SyncPreservesOrder(t *testing.T) {
	var order []string
	logger := zerolog.Nop()
	runner := NewRunner(&logger, false)

	err := runner.Run(context.Background(),
		&recordingOp{name: "reset", order: &order},
		&recordingOp{name: "scan", order: &order},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"reset", "scan"}, order)
}

func TestRunner_Async(t *testing.T) {
	var order []string
	logger := zerolog.Nop()
	runner := NewRunner(&logger, true)

	err := runner.Run(context.Background(), &recordingOp{name: "scan", order: &order})
	require.NoError(t, err)
	assert.Equal(t, []string{"scan"}, order)
}
