package ports

import (
	"context"

	"go.trai.ch/tsbuild/internal/core/domain"
)

// IconGenerator generates an icon font from a directory of SVG files.
//
//go:generate mockgen -source=icons.go -destination=mocks/mock_icons.go -package=mocks
type IconGenerator interface {
	Generate(ctx context.Context, cfg domain.IconFontConfig) error
}
