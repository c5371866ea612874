package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"msgstg/backend/internal/storage"
)

// Container 内存容器树，实现 storage.Container。
//
// 用于测试以及归档网关的目录转储：树的形状与外部存储引擎最终
// 写入复合文档的形状一一对应。单个树内部用互斥锁保护，不同消息
// 各用各的树，互不共享。
type Container struct {
	mu       sync.Mutex
	children map[string]*Container
	leaves   map[string][]byte
}

// NewContainer 创建空的根容器。
func NewContainer() *Container {
	return &Container{
		children: make(map[string]*Container),
		leaves:   make(map[string][]byte),
	}
}

// CreateChildContainer 实现 storage.Container。
func (c *Container) CreateChildContainer(name string) (storage.Container, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exists(name) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNodeExists, name)
	}

	child := NewContainer()
	c.children[name] = child
	return child, nil
}

// CreateLeaf 实现 storage.Container。叶子保存 data 的副本。
func (c *Container) CreateLeaf(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.exists(name) {
		return fmt.Errorf("%w: %s", storage.ErrNodeExists, name)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	c.leaves[name] = buf
	return nil
}

// exists 调用方必须持有 c.mu。
func (c *Container) exists(name string) bool {
	if _, ok := c.children[name]; ok {
		return true
	}
	_, ok := c.leaves[name]
	return ok
}

// Child 返回命名子容器，不存在时返回 nil。
func (c *Container) Child(name string) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.children[name]
}

// Leaf 返回命名叶子的内容副本，第二个返回值报告是否存在。
func (c *Container) Leaf(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.leaves[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// ChildNames 返回全部子容器名（排序后）。
func (c *Container) ChildNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.children))
	for name := range c.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LeafNames 返回全部叶子名（排序后）。
func (c *Container) LeafNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.leaves))
	for name := range c.leaves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DumpToDir 将容器树镜像到文件系统：容器对应目录，叶子对应文件。
// 归档网关用它把编码结果落盘，目录结构即外部引擎将收到的树。
func (c *Container) DumpToDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}

	for _, name := range c.LeafNames() {
		data, _ := c.Leaf(name)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("write leaf %s: %w", name, err)
		}
	}

	for _, name := range c.ChildNames() {
		child := c.Child(name)
		if err := child.DumpToDir(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
