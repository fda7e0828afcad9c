package upgrade

import (
	"context"
	"time"

	"github.com/omarshaarawi/inup/internal/registry"
	"github.com/omarshaarawi/inup/internal/tui"
	"github.com/omarshaarawi/inup/internal/ui"
	"golang.org/x/sync/errgroup"
)

const metadataTimeout = 10 * time.Second

// MetadataSource provides the package details shown in the modal
type MetadataSource interface {
	Metadata(ctx context.Context, name string) (*registry.Metadata, error)
	WeeklyDownloads(ctx context.Context, name string) (int64, error)
}

// MetadataFetcher adapts source for the selection session. The manifest
// and the download count are fetched together; either may be missing.
func MetadataFetcher(source MetadataSource) tui.FetchFunc {
	return func(ctx context.Context, name string) *tui.Metadata {
		ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
		defer cancel()

		var (
			meta      *registry.Metadata
			downloads int64
			g         errgroup.Group
		)
		g.Go(func() error {
			m, err := source.Metadata(ctx, name)
			if err != nil {
				ui.Debug("metadata for %s: %v", name, err)
				return nil
			}
			meta = m
			return nil
		})
		g.Go(func() error {
			n, err := source.WeeklyDownloads(ctx, name)
			if err != nil {
				ui.Debug("downloads for %s: %v", name, err)
				return nil
			}
			downloads = n
			return nil
		})
		g.Wait()

		if meta == nil && downloads == 0 {
			return nil
		}

		out := &tui.Metadata{WeeklyDownloads: downloads}
		if meta != nil {
			out.Description = meta.Description
			out.Homepage = meta.Homepage
			out.License = meta.License
			out.Author = meta.Author
			out.ReleaseNotesURL = meta.ReleaseNotesURL
		}
		return out
	}
}
