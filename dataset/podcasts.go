package dataset

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/recdata/core"
)

// PodcastsSource 从 itunes 播客评论导出文件加载交互数据。
//
// CSV 列：author,podcast,rating。author 与 podcast 都是字符串标识，
// 通过 IDGenerator 按首次出现顺序转成稠密整数；rating 直接作为 label
// （带符号质量编码，正值即正样本）。
type PodcastsSource struct {
	BaseSource
	path string
}

func NewPodcastsSource(path string) *PodcastsSource {
	return &PodcastsSource{path: path}
}

// Load 实现 Source。
func (s *PodcastsSource) Load(ctx context.Context, hp *core.HyperParameters) error {
	s.log().Info("loading itunes podcasts data...")

	header, records, err := readCSV(s.path, hp.MaxInteractions)
	if err != nil {
		return fmt.Errorf("podcasts load: %w", err)
	}
	cols, err := columnIndex(header, "author", "podcast", "rating")
	if err != nil {
		return fmt.Errorf("podcasts load: %w", err)
	}

	users := NewIDGenerator[string]()
	items := NewIDGenerator[string]()
	for _, rec := range records {
		users.Add(rec[cols["author"]])
		items.Add(rec[cols["podcast"]])
	}

	rows := make([][]int64, 0, len(records))
	s.itemInfo = make(ItemInfo, items.Len())
	for i, rec := range records {
		user, err := users.Find(rec[cols["author"]])
		if err != nil {
			return fmt.Errorf("podcasts load: %w", err)
		}
		item, err := items.Find(rec[cols["podcast"]])
		if err != nil {
			return fmt.Errorf("podcasts load: %w", err)
		}
		rating, err := strconv.ParseInt(rec[cols["rating"]], 10, 64)
		if err != nil {
			return fmt.Errorf("podcasts load: row %d: rating: %w", i, err)
		}
		rows = append(rows, []int64{user, item, rating})
		if _, ok := s.itemInfo[item]; !ok {
			s.itemInfo[item] = map[string]string{"title": rec[cols["podcast"]]}
		}
	}

	trainset, err := New(rows)
	if err != nil {
		return fmt.Errorf("podcasts load: %w", err)
	}
	s.trainset = trainset

	return s.prepare(nil)
}

var _ Source = (*PodcastsSource)(nil)
