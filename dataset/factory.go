package dataset

import (
	"fmt"

	"github.com/rushteam/recdata/core"
)

// 数据源类型常量。
const (
	SourceMovielens  = "movielens"
	SourcePodcasts   = "podcasts"
	SourceSpotify    = "spotify"
	SourceSpotifyRaw = "spotify-raw"
)

// NewSource 按类型创建数据源，未知类型返回 INVALID_INPUT。
func NewSource(sourceType, path string) (Source, error) {
	switch sourceType {
	case SourceMovielens:
		return NewMovielensSource(path), nil
	case SourcePodcasts:
		return NewPodcastsSource(path), nil
	case SourceSpotify:
		return NewSpotifySource(path), nil
	case SourceSpotifyRaw:
		return NewSpotifyRawSource(path), nil
	default:
		return nil, core.NewDomainError(core.ModuleDataset,
			core.ErrorCodeInvalidInput, fmt.Sprintf("unknown dataset type %q", sourceType))
	}
}
