package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/recdata/core"
)

// MovielensSource 从 movielens 导出目录加载交互数据。
//
// 目录结构：
//   - ratings.csv: user_id,item_id,rating,timestamp（交互日志）
//   - movies.csv:  item_id,title,genres（物品侧表）
//
// 交互按 timestamp 升序排列后进入训练表，保证行序承载时间语义，
// 测试集切分即可取到每个用户最近的交互。两个文件并发加载。
type MovielensSource struct {
	BaseSource
	path string
}

func NewMovielensSource(path string) *MovielensSource {
	return &MovielensSource{path: path}
}

type movielensRating struct {
	user, item int64
	timestamp  int64
}

func (s *MovielensSource) loadRatings(maxRows int64) ([]movielensRating, error) {
	header, records, err := readCSV(filepath.Join(s.path, "ratings.csv"), maxRows)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header, "user_id", "item_id", "timestamp")
	if err != nil {
		return nil, err
	}

	ratings := make([]movielensRating, 0, len(records))
	for i, rec := range records {
		user, err := strconv.ParseInt(rec[cols["user_id"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings.csv row %d: user_id: %w", i, err)
		}
		item, err := strconv.ParseInt(rec[cols["item_id"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings.csv row %d: item_id: %w", i, err)
		}
		ts, err := strconv.ParseInt(rec[cols["timestamp"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ratings.csv row %d: timestamp: %w", i, err)
		}
		ratings = append(ratings, movielensRating{user: user, item: item, timestamp: ts})
	}
	sort.SliceStable(ratings, func(a, b int) bool {
		return ratings[a].timestamp < ratings[b].timestamp
	})
	return ratings, nil
}

func (s *MovielensSource) loadItemInfo() (ItemInfo, error) {
	header, records, err := readCSV(filepath.Join(s.path, "movies.csv"), -1)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header, "item_id", "title", "genres")
	if err != nil {
		return nil, err
	}

	info := make(ItemInfo, len(records))
	for i, rec := range records {
		id, err := strconv.ParseInt(rec[cols["item_id"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("movies.csv row %d: item_id: %w", i, err)
		}
		info[id] = map[string]string{
			"title":  rec[cols["title"]],
			"genres": rec[cols["genres"]],
		}
	}
	return info, nil
}

// Load 实现 Source：并发加载交互日志与物品侧表，然后走共享准备流程。
func (s *MovielensSource) Load(ctx context.Context, hp *core.HyperParameters) error {
	s.log().Info("loading movielens data...")

	var ratings []movielensRating
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		ratings, err = s.loadRatings(hp.MaxInteractions)
		return err
	})
	eg.Go(func() error {
		var err error
		s.itemInfo, err = s.loadItemInfo()
		return err
	})
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("movielens load: %w", err)
	}

	rows := make([][]int64, len(ratings))
	for i, r := range ratings {
		rows[i] = []int64{r.user, r.item}
	}
	trainset, err := New(rows)
	if err != nil {
		return fmt.Errorf("movielens load: %w", err)
	}
	s.trainset = trainset

	return s.prepare(nil)
}

var _ Source = (*MovielensSource)(nil)
