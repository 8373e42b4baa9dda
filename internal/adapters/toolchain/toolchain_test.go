package toolchain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func expectCommand(t *testing.T, want domain.Command) *toolchain.Toolchain {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, got domain.Command) (domain.RunResult, error) {
			assert.Equal(t, want.Executable, got.Executable)
			assert.Equal(t, want.Args, got.Args)
			assert.Equal(t, want.Dir, got.Dir)
			assert.Equal(t, want.ExitOnError, got.ExitOnError)
			return domain.RunResult{}, nil
		})
	return toolchain.New(runner)
}

func TestToolchain_Commands(t *testing.T) {
	noExit := false

	tests := []struct {
		name string
		want domain.Command
		run  func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error)
	}{
		{
			name: "npx",
			want: domain.Command{Executable: "npx", Args: []string{"prettier", "--check", "."}, ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.Npx(ctx, []string{"prettier", "--check", "."}, domain.ShellOptions{})
			},
		},
		{
			name: "npm publish",
			want: domain.Command{Executable: "npm", Args: []string{"publish", "--access", "public"}, Dir: "target", ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.NpmPublish(ctx, toolchain.NpmPublishRequest{Directory: "target"})
			},
		},
		{
			name: "npm publish dry run",
			want: domain.Command{Executable: "npm", Args: []string{"publish", "--access", "public", "--dry-run"}, Dir: "target", ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.NpmPublish(ctx, toolchain.NpmPublishRequest{
					Directory:    "target",
					DryRun:       true,
					ShellOptions: domain.ShellOptions{Dir: "ignored"},
				})
			},
		},
		{
			name: "npm install all",
			want: domain.Command{Executable: "npm", Args: []string{"install"}, ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.NpmInstall(ctx, toolchain.NpmInstallRequest{})
			},
		},
		{
			name: "npm install package",
			want: domain.Command{Executable: "npm", Args: []string{"install", "left-pad"}, ExitOnError: false},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.NpmInstall(ctx, toolchain.NpmInstallRequest{
					Package:      "left-pad",
					ShellOptions: domain.ShellOptions{ExitOnError: &noExit},
				})
			},
		},
		{
			name: "npm link",
			want: domain.Command{Executable: "npm", Args: []string{"link", "../lib-a", "../lib-b"}, ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.NpmLink(ctx, toolchain.NpmLinkRequest{Paths: []string{"../lib-a", "../lib-b"}})
			},
		},
		{
			name: "git pull",
			want: domain.Command{Executable: "git", Args: []string{"pull"}, ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.GitPull(ctx, toolchain.GitPullRequest{})
			},
		},
		{
			name: "git pull branch",
			want: domain.Command{Executable: "git", Args: []string{"pull", "main"}, Dir: "repo", ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.GitPull(ctx, toolchain.GitPullRequest{Branch: "main", ShellOptions: domain.ShellOptions{Dir: "repo"}})
			},
		},
		{
			name: "typecheck",
			want: domain.Command{Executable: "npx", Args: []string{"tsc", "--project", "/p/tsconfig.json", "--noEmit"}, Dir: "/p/src", ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.Typecheck(ctx, toolchain.TypecheckRequest{Directory: "/p/src", TSConfig: "/p/tsconfig.json"})
			},
		},
		{
			name: "dts defaults",
			want: domain.Command{Executable: "npx", Args: []string{
				"dts-bundle-generator", "--out-file", "target/index.d.ts", "--project", "tsconfig.json",
				"--no-banner", "--export-referenced-types=false", "src/main.ts",
			}, ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.GenerateDts(ctx, toolchain.GenerateDtsRequest{
					Input: "src/main.ts", Output: "target/index.d.ts", TSConfig: "tsconfig.json",
				})
			},
		},
		{
			name: "dts with banner and referenced types",
			want: domain.Command{Executable: "npx", Args: []string{
				"dts-bundle-generator", "--out-file", "target/index.d.ts", "--project", "tsconfig.json", "src/main.ts",
			}, ExitOnError: true},
			run: func(ctx context.Context, tc *toolchain.Toolchain) (domain.RunResult, error) {
				return tc.GenerateDts(ctx, toolchain.GenerateDtsRequest{
					Input: "src/main.ts", Output: "target/index.d.ts", TSConfig: "tsconfig.json",
					Banner: true, ExportReferencedTypes: true,
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := expectCommand(t, tt.want)
			_, err := tt.run(context.Background(), tc)
			require.NoError(t, err)
		})
	}
}
