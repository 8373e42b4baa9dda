// Package icons generates icon fonts from SVG directories with an npx-installed font tool.
package icons

import (
	"context"

	"go.trai.ch/tsbuild/internal/adapters/toolchain"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

const tool = "icon-font-tool"

// Generator implements ports.IconGenerator.
type Generator struct {
	toolchain *toolchain.Toolchain
}

// New creates a Generator.
func New(tc *toolchain.Toolchain) *Generator {
	return &Generator{toolchain: tc}
}

// Generate builds the font, stylesheet and TypeScript names for cfg.
// Failures are returned rather than exiting, so a watch loop can keep going.
func (g *Generator) Generate(ctx context.Context, cfg domain.IconFontConfig) error {
	if cfg.SVGDir == "" {
		return domain.ErrNoSVGDir
	}

	args := []string{tool, "--svg-dir", cfg.SVGDir}
	for _, flag := range []struct{ name, value string }{
		{"--font-file", cfg.FontFile},
		{"--css-file", cfg.CSSFile},
		{"--ts-file", cfg.TSFile},
		{"--font-name", cfg.FontName},
		{"--class-prefix", cfg.ClassPrefix},
	} {
		if flag.value != "" {
			args = append(args, flag.name, flag.value)
		}
	}

	noExit := false
	if _, err := g.toolchain.Npx(ctx, args, domain.ShellOptions{ExitOnError: &noExit}); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to generate icon font"), "svg_dir", cfg.SVGDir)
	}
	return nil
}
