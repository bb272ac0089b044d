package tree_test

import (
	"slabtree/pkg/slabtree"
	"slabtree/pkg/tree"
)

func init() {
	var _ tree.TreeWithStats[int, string] = (*slabtree.Tree[int, string])(nil)
}
