// Package recdata 为推荐模型训练准备交互数据（Recommendation Data Kit）。
//
// 设计要点：
// - 归一化优先: 任意原始标识映射为稠密连续 ID，各实体列区间不重叠，一个邻接矩阵承载全部关系
// - 无泄漏切分: 按用户取最近交互做测试集，训练/测试共享同一 ID 空间
// - 负采样可控: 随机源可注入、重试有预算，与邻接结构保证零冲突
package recdata

import "github.com/rushteam/recdata/dataset"

// 轻量 facade：便于用户直接 import "recdata" 使用核心抽象。
type Table = dataset.Table
type Matrix = dataset.Matrix
type Source = dataset.Source
type ItemInfo = dataset.ItemInfo

const (
	SourceMovielens  = dataset.SourceMovielens
	SourcePodcasts   = dataset.SourcePodcasts
	SourceSpotify    = dataset.SourceSpotify
	SourceSpotifyRaw = dataset.SourceSpotifyRaw
)
