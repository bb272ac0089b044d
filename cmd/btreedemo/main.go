// cmd/btreedemo/main.go
//
// btreedemo builds a slabtree.Tree from a single in-process chunk, inserts a
// handful of keys, looks a few up, removes one, and prints the resulting
// structure. It is a fixed demonstration, not a shell: an interactive
// command surface is out of scope for this module.
package main

import (
	"fmt"
	"os"

	"slabtree/pkg/slabtree"
)

func main() {
	tr, err := slabtree.New[int, string](make([]byte, 1<<16))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error constructing tree: %v\n", err)
		os.Exit(1)
	}
	defer tr.Close()

	names := []string{"zero", "one", "two", "three", "four", "five", "six", "seven"}
	for i, name := range names {
		if _, _, _, err := tr.Insert(i, name); err != nil {
			fmt.Fprintf(os.Stderr, "Error inserting %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	if v, ok := tr.Get(3); ok {
		fmt.Printf("Get(3) = %q\n", v)
	}

	if k, v, found, err := tr.Remove(3); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing 3: %v\n", err)
		os.Exit(1)
	} else if found {
		fmt.Printf("Remove(3) = (%d, %q)\n", k, v)
	}

	fmt.Printf("Len() = %d\n", tr.Len())
	fmt.Print(tr.DebugString())
}
