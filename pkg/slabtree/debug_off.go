//go:build !slabtree_debug

package slabtree

const debugEnabled = false

func debugAssert(cond bool, msg string) {}
