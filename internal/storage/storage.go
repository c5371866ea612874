package storage

import "errors"

// 结构化存储引擎的最小契约。
//
// 引擎（扇区分配、FAT、目录红黑树等）由外部实现维护；本系统只
// 依赖两个原语：建命名子容器、建持有字节的命名叶子。名字对引擎
// 是不透明标识，MAPI 命名约定的正确性完全由调用方负责。
var (
	// ErrNodeExists 父容器下已存在同名节点
	ErrNodeExists = errors.New("node already exists")
)

// Container 表示文档中一个可持有子节点的容器。
type Container interface {
	// CreateChildContainer 在当前容器下创建命名子容器。
	// 同名节点已存在时返回 ErrNodeExists。
	CreateChildContainer(name string) (Container, error)

	// CreateLeaf 在当前容器下创建持有 data 副本的命名叶子。
	// 同名节点已存在时返回 ErrNodeExists。
	CreateLeaf(name string, data []byte) error
}
