// Package examples ships sample study notes that compile into complete
// decks, used for the "random example" feature.
package examples

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"path"
	"sort"
	"strings"
)

//go:embed notes/*.txt
var notesFS embed.FS

// Example is a named set of study notes.
type Example struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

var all = mustLoad()

func mustLoad() []Example {
	entries, err := notesFS.ReadDir("notes")
	if err != nil {
		panic(fmt.Sprintf("read embedded examples: %v", err))
	}
	out := make([]Example, 0, len(entries))
	for _, e := range entries {
		data, err := notesFS.ReadFile(path.Join("notes", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("read embedded example %s: %v", e.Name(), err))
		}
		out = append(out, Example{
			Name:  strings.TrimSuffix(e.Name(), path.Ext(e.Name())),
			Notes: string(data),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// All returns every example sorted by name.
func All() []Example {
	return append([]Example(nil), all...)
}

// Get returns the example with the given name.
func Get(name string) (Example, bool) {
	for _, e := range all {
		if e.Name == name {
			return e, true
		}
	}
	return Example{}, false
}

// Random picks an example using r, or the global source when r is nil.
func Random(r *rand.Rand) Example {
	if r == nil {
		return all[rand.IntN(len(all))]
	}
	return all[r.IntN(len(all))]
}
