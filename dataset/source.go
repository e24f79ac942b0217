package dataset

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/recdata/core"
)

// 低活跃过滤阈值：度数严格大于阈值的实体才保留。
const (
	MinItemInteractions = 1 // 物品至少出现在 2 个用户的交互中
	MinUserInteractions = 3 // 用户至少有 4 个不同物品的交互
)

// Source 是数据源的统一接口：Load 完成后训练集、测试集、邻接矩阵和
// 物品侧表全部就绪且一致（训练集与测试集共享同一 idrange，矩阵只反映
// 训练集）。每个 Source 实例独占自己的 Table，不支持并发 Load。
type Source interface {
	Load(ctx context.Context, hp *core.HyperParameters) error

	Trainset() *Table
	Testset() *Table
	Matrix() *Matrix
	ItemInfo() ItemInfo
}

// BaseSource 承载所有具体数据源共享的状态与准备流程。
// 具体数据源负责摄取原始行并构建训练表，然后调用 prepare 走统一流程。
type BaseSource struct {
	trainset *Table
	testset  *Table
	matrix   *Matrix
	itemInfo ItemInfo

	logger *zap.SugaredLogger
}

func (s *BaseSource) Trainset() *Table   { return s.trainset }
func (s *BaseSource) Testset() *Table    { return s.testset }
func (s *BaseSource) Matrix() *Matrix    { return s.matrix }
func (s *BaseSource) ItemInfo() ItemInfo { return s.itemInfo }

// SetLogger 注入日志器；不注入时静默运行。
func (s *BaseSource) SetLogger(logger *zap.SugaredLogger) {
	s.logger = logger
}

func (s *BaseSource) log() *zap.SugaredLogger {
	if s.logger == nil {
		return zap.NewNop().Sugar()
	}
	return s.logger
}

// prepare 执行共享的准备状态机：
//
//	归一化 → 邻接矩阵 → 低活跃物品/用户过滤 →
//	（有删行时）反归一化 + 重新归一化 + 重建矩阵 → 切分测试集
//
// 重新归一化只跑一遍：删行原则上可能再次产生低活跃实体，
// 但这里刻意不迭代到不动点。afterFilter 在重新归一化之后、矩阵重建
// 之前执行（如 spotify 追加上一物品列），可为 nil。
func (s *BaseSource) prepare(afterFilter func() error) error {
	log := s.log()

	log.Info("normalizing ids...")
	mapping, err := s.trainset.NormalizeIDs(nil, true)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	log.Info("calculating adjacency matrix...")
	s.matrix, err = s.trainset.CreateAdjacencyMatrix()
	if err != nil {
		return fmt.Errorf("adjacency matrix: %w", err)
	}

	log.Info("removing low interactions...")
	ci, err := s.trainset.RemoveLowItems(s.matrix, MinItemInteractions)
	if err != nil {
		return fmt.Errorf("remove low items: %w", err)
	}
	cu, err := s.trainset.RemoveLowUsers(s.matrix, MinUserInteractions)
	if err != nil {
		return fmt.Errorf("remove low users: %w", err)
	}

	recalc := cu > 0 || ci > 0
	if recalc {
		log.Infow("removed low interactions", "users", cu, "items", ci)
		log.Info("normalizing ids again...")
		if err := s.trainset.DenormalizeIDs(mapping, true); err != nil {
			return fmt.Errorf("denormalize: %w", err)
		}
		if _, err := s.trainset.NormalizeIDs(nil, true); err != nil {
			return fmt.Errorf("renormalize: %w", err)
		}
	}

	if afterFilter != nil {
		if err := afterFilter(); err != nil {
			return err
		}
		// 追加列会扩大 ID 空间，矩阵必须重建
		recalc = true
	}

	if recalc {
		log.Info("calculating adjacency matrix again...")
		s.matrix, err = s.trainset.CreateAdjacencyMatrix()
		if err != nil {
			return fmt.Errorf("adjacency matrix: %w", err)
		}
	}

	log.Info("extracting test dataset...")
	s.testset, err = s.trainset.ExtractTestDataset(1, 1)
	if err != nil {
		return fmt.Errorf("extract test dataset: %w", err)
	}
	return nil
}
