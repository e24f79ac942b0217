package dataset

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rushteam/recdata/core"
)

// spotify 会话数据的质量编码阈值。
const (
	// spotifyMinRepeat: (user, item) 对重复达到该次数视为喜欢
	spotifyMinRepeat = 2
	// spotifyMinSkip: skip 计数达到该值视为完整收听
	spotifyMinSkip = 3
)

// SpotifySource 加载已预处理的 spotify 会话数据。
//
// CSV 列：user_id,song_id[,skipped][,previous_song]，全部为整数，
// skipped 与 previous_song 两个上下文列按超参数开关加载。
type SpotifySource struct {
	BaseSource
	path string
}

func NewSpotifySource(path string) *SpotifySource {
	return &SpotifySource{path: path}
}

// Load 实现 Source。
func (s *SpotifySource) Load(ctx context.Context, hp *core.HyperParameters) error {
	s.log().Info("loading data...")

	loadSkip := hp.ShouldHaveInteractionContext("skip")
	loadPrev := hp.ShouldHaveInteractionContext("previous")

	names := []string{"user_id", "song_id"}
	if loadSkip {
		names = append(names, "skipped")
	}
	if loadPrev {
		names = append(names, "previous_song")
	}

	header, records, err := readCSV(s.path, hp.MaxInteractions)
	if err != nil {
		return fmt.Errorf("spotify load: %w", err)
	}
	cols, err := columnIndex(header, names...)
	if err != nil {
		return fmt.Errorf("spotify load: %w", err)
	}

	rows := make([][]int64, 0, len(records))
	for i, rec := range records {
		row := make([]int64, 0, len(names)+1)
		for _, name := range names {
			v, err := strconv.ParseInt(rec[cols[name]], 10, 64)
			if err != nil {
				return fmt.Errorf("spotify load: row %d: %s: %w", i, name, err)
			}
			row = append(row, v)
		}
		row = append(row, 1) // label
		rows = append(rows, row)
	}

	trainset, err := New(rows)
	if err != nil {
		return fmt.Errorf("spotify load: %w", err)
	}
	s.trainset = trainset

	return s.prepare(nil)
}

var _ Source = (*SpotifySource)(nil)

// SpotifyRawSource 加载原始的 spotify 听歌会话导出。
//
// CSV 列：session_id,track_id_clean,session_position,skip_1,skip_2,skip_3,not_skipped。
// 会话与曲目是字符串标识，经 IDGenerator 转稠密整数；记录按 session_position
// 升序排列；skip 上下文取四个跳过标记中前导 false 的个数（0..4，越大听得越完整）。
//
// skip 列随后被编码为带符号物品 ID：
//
//	-1 * item: skip 计数 < spotifyMinSkip 且 (user,item) 重复次数 < spotifyMinRepeat
//	+1 * item: 其余（好物品）
type SpotifyRawSource struct {
	BaseSource
	path string
}

func NewSpotifyRawSource(path string) *SpotifyRawSource {
	return &SpotifyRawSource{path: path}
}

var spotifySkipColumns = []string{"skip_1", "skip_2", "skip_3", "not_skipped"}

type spotifyRecord struct {
	user, item int64
	position   int64
	skip       int64
}

func (s *SpotifyRawSource) loadRecords(maxRows int64, loadSkip bool) ([]spotifyRecord, error) {
	names := []string{"session_id", "track_id_clean", "session_position"}
	if loadSkip {
		names = append(names, spotifySkipColumns...)
	}

	header, records, err := readCSV(s.path, maxRows)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header, names...)
	if err != nil {
		return nil, err
	}

	users := NewIDGenerator[string]()
	items := NewIDGenerator[string]()
	for _, rec := range records {
		users.Add(rec[cols["session_id"]])
		items.Add(rec[cols["track_id_clean"]])
	}

	out := make([]spotifyRecord, 0, len(records))
	for i, rec := range records {
		user, err := users.Find(rec[cols["session_id"]])
		if err != nil {
			return nil, err
		}
		item, err := items.Find(rec[cols["track_id_clean"]])
		if err != nil {
			return nil, err
		}
		pos, err := strconv.ParseInt(rec[cols["session_position"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: session_position: %w", i, err)
		}
		r := spotifyRecord{user: user, item: item, position: pos}
		if loadSkip {
			// 前导 false 的个数：跳得越早计数越小
			for _, name := range spotifySkipColumns {
				v, err := strconv.ParseBool(rec[cols[name]])
				if err != nil {
					return nil, fmt.Errorf("row %d: %s: %w", i, name, err)
				}
				if v {
					break
				}
				r.skip++
			}
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].position < out[b].position
	})
	return out, nil
}

// fixSkip 把 skip 计数列改写成带符号物品 ID 的质量编码。
func (s *SpotifyRawSource) fixSkip() {
	s.log().Info("fixing skip values...")
	counts := s.trainset.PairCounts()
	s.trainset.ForEach(func(i int, it *core.Interaction) {
		factor := int64(-1)
		if counts[i] >= spotifyMinRepeat || it.Context[0] >= spotifyMinSkip {
			factor = 1
		}
		it.Context[0] = factor * it.Item
	})
}

// Load 实现 Source。
func (s *SpotifyRawSource) Load(ctx context.Context, hp *core.HyperParameters) error {
	s.log().Info("loading spotify data...")

	loadSkip := hp.ShouldHaveInteractionContext("skip")
	records, err := s.loadRecords(hp.MaxInteractions, loadSkip)
	if err != nil {
		return fmt.Errorf("spotify raw load: %w", err)
	}

	rows := make([][]int64, len(records))
	for i, r := range records {
		if loadSkip {
			rows[i] = []int64{r.user, r.item, r.skip, 1}
		} else {
			rows[i] = []int64{r.user, r.item, 1}
		}
	}
	trainset, err := New(rows)
	if err != nil {
		return fmt.Errorf("spotify raw load: %w", err)
	}
	s.trainset = trainset

	if loadSkip {
		s.fixSkip()
	}

	var afterFilter func() error
	if hp.ShouldHaveInteractionContext("previous") {
		afterFilter = func() error {
			s.log().Info("adding previous item column...")
			return s.trainset.AddPreviousItemColumn()
		}
	}
	return s.prepare(afterFilter)
}

var _ Source = (*SpotifyRawSource)(nil)
