package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("name", cel.StringType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// ContextGate 是上下文列开关的表达式解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法），变量 name 为待判断的上下文列名称：
//   - 基础：name == "skip"
//   - 逻辑：name == "skip" || name == "previous"
//   - 包含：name in ["skip", "previous"]
//   - 前缀：name.startsWith("prev")
//
// 表达式在构建时编译一次并缓存，之后可以多次调用 Evaluate。
type ContextGate struct {
	expr string
	prg  cel.Program
}

// NewContextGate 编译表达式并返回解释器。
// 空表达式视为恒真（所有上下文列都启用）。
func NewContextGate(expr string) (*ContextGate, error) {
	g := &ContextGate{expr: expr}
	if expr == "" {
		return g, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env error: %v", err)
	}

	// 编译表达式
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	g.prg = prg
	return g, nil
}

// Evaluate 执行表达式，返回布尔结果。
func (g *ContextGate) Evaluate(name string) (bool, error) {
	if g.prg == nil {
		return true, nil
	}

	out, _, err := g.prg.Eval(map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}
