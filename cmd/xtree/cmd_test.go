package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	return executeWithConfig(t, cfgPath, args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--config", cfgPath))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDemoCommand(t *testing.T) {
	out, _, err := execute(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "inorder: 10 20 25 30 35 40 45 50 60 70 80")
	assert.Contains(t, out, "preorder: 50 30 20 10 25 40 35 45 70 60 80")
	assert.Contains(t, out, "search: 40 found=true, 90 found=false")
	assert.Contains(t, out, "min: 10 max: 80")
	assert.Contains(t, out, "height: 3 size: 11")
	assert.Contains(t, out, "inorder: 10 20 25 35 40 45 50 60 70 80")

	assert.Contains(t, out, "RR rotation, new subtree root 20")
	assert.Contains(t, out, "RL rotation, new subtree root 30")
	assert.Contains(t, out, "insert 25 height: 3 balanced: true")
	assert.Contains(t, out, "inorder: 10 20 25 30 40 50")
	assert.Contains(t, out, "rotations: LL=0 RR=2 LR=0 RL=1")

	assert.Contains(t, out, "bst: height 6")
	assert.Contains(t, out, "avl: height 3")
}

func TestBuildCommand(t *testing.T) {
	testcases := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "bst remove root",
			args: []string{"--keys", "10,5,15", "--remove", "10"},
			want: []string{"└── 15\n    └── 5\n", "inorder: 5 15", "height: 1 size: 2", "valid: true"},
		},
		{
			name: "bst remove absent",
			args: []string{"--keys", "5,3,8", "--remove", "42"},
			want: []string{"inorder: 3 5 8", "min: 3 max: 8", "size: 3"},
		},
		{
			name: "avl sequential",
			args: []string{"--variant", "avl", "--keys", "1,2,3,4,5,6,7"},
			want: []string{"preorder: 4 2 1 3 6 5 7", "height: 3 size: 7", "balanced: true", "rotations: LL=0 RR=4 LR=0 RL=0"},
		},
		{
			name: "avl strings descending",
			args: []string{"--variant", "avl", "--type", "string", "--keys", "kiwi,apple,fig", "--desc"},
			want: []string{"inorder: kiwi fig apple", "min: kiwi max: apple"},
		},
		{
			name: "float duplicates",
			args: []string{"--type", "float", "--keys", "2.5,-1,2.5"},
			want: []string{"inorder: -1 2.5", "size: 2"},
		},
		{
			name:    "avl remove",
			args:    []string{"--variant", "avl", "--keys", "1,2", "--remove", "1"},
			wantErr: "the avl tree does not support remove",
		},
		{
			name:    "unknown variant",
			args:    []string{"--variant", "rb", "--keys", "1"},
			wantErr: `unknown variant "rb"`,
		},
		{
			name:    "unknown key type",
			args:    []string{"--type", "rune", "--keys", "1"},
			wantErr: `unknown key type "rune"`,
		},
		{
			name:    "malformed ints",
			args:    []string{"--keys", "1,x,3,y"},
			wantErr: `key #4 "y"`,
		},
		{
			name:    "nan",
			args:    []string{"--type", "float", "--keys", "1,NaN"},
			wantErr: errNaNKey.Error(),
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			out, _, err := execute(tt, append([]string{"build"}, tc.args...)...)
			if tc.wantErr != "" {
				require.Error(tt, err)
				require.ErrorContains(tt, err, tc.wantErr)
				return
			}
			require.NoError(tt, err)
			for _, want := range tc.want {
				assert.Contains(tt, out, want)
			}
		})
	}
}

func TestBuildCommand_KeysRequired(t *testing.T) {
	_, _, err := execute(t, "build")
	require.ErrorContains(t, err, `"keys" not set`)
}

func TestBenchCommand(t *testing.T) {
	out, _, err := execute(t, "bench", "--max-n", "64", "--step", "32", "--trials", "2", "--workers", "2")
	require.NoError(t, err)

	for _, h := range []string{"n", "keys", "variant", "max height", "avl bound", "rotations", "status"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "sequential")
	assert.Contains(t, out, "random")
	assert.NotContains(t, out, "FAIL")
}

func TestBenchCommand_InvalidFlags(t *testing.T) {
	_, _, err := execute(t, "bench", "--trials", "0", "--metrics", "statsd")
	require.Error(t, err)
	assert.ErrorContains(t, err, "bench.trials must be positive")
	assert.ErrorContains(t, err, `metrics.exporter "statsd" is unknown`)
}

func TestBenchCommand_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"bench", "--max-n", "2000", "--step", "1000", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	require.ErrorIs(t, root.ExecuteContext(ctx), context.Canceled)
}

func TestConfigCommand(t *testing.T) {
	out, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: defaults")
	assert.Contains(t, out, "maxN: 10000")
	assert.Contains(t, out, "exporter: none")

	cfgPath := filepath.Join(t.TempDir(), "xtree.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("bench:\n  maxN: 500\n  step: 50\n"), 0o600))
	out, _, err = executeWithConfig(t, cfgPath, "config", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+cfgPath)
	assert.Contains(t, out, "maxN: 500")
	assert.Contains(t, out, "step: 50")
	assert.Contains(t, out, "trials: 3")
	assert.Contains(t, out, "level: DEBUG")
}

func TestConfigCommand_Malformed(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "xtree.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("bench: [1, 2\n"), 0o600))
	_, _, err := executeWithConfig(t, cfgPath, "config")
	require.ErrorContains(t, err, "parse config")
}
