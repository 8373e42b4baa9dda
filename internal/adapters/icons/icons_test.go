package icons_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsbuild/internal/adapters/icons"
	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/tsbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestGenerate(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (domain.RunResult, error) {
			assert.Equal(t, "npx", cmd.Executable)
			assert.Equal(t, []string{
				"icon-font-tool",
				"--svg-dir", "icons",
				"--font-file", "target/icons.woff2",
				"--ts-file", "src/generated/icons.ts",
				"--font-name", "app-icons",
			}, cmd.Args)
			assert.False(t, cmd.ExitOnError)
			return domain.RunResult{}, nil
		})

	g := icons.New(toolchain.New(runner))
	err := g.Generate(context.Background(), domain.IconFontConfig{
		SVGDir:   "icons",
		FontFile: "target/icons.woff2",
		TSFile:   "src/generated/icons.ts",
		FontName: "app-icons",
	})
	require.NoError(t, err)
}

func TestGenerate_Errors(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	g := icons.New(toolchain.New(runner))

	require.ErrorIs(t, g.Generate(context.Background(), domain.IconFontConfig{}), domain.ErrNoSVGDir)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(domain.RunResult{ExitCode: 1}, domain.ErrCommandFailed)
	err := g.Generate(context.Background(), domain.IconFontConfig{SVGDir: "icons"})
	require.ErrorIs(t, err, domain.ErrCommandFailed)
}
