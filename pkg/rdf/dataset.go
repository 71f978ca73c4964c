package rdf

import (
	"encoding/binary"
	"sort"

	"github.com/zeebo/xxh3"
)

// Dataset is an in-memory quad set. Duplicate quads collapse, insertion
// order is preserved for iteration, and Canonical gives the total order
// used for serialization. A Dataset is not safe for concurrent mutation;
// callers sharing one across goroutines must synchronize externally.
type Dataset struct {
	quads []*Quad
	index map[[16]byte]struct{}
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		index: make(map[[16]byte]struct{}),
	}
}

// hashQuad computes the 128-bit xxhash3 dedup key of a quad's canonical form.
func hashQuad(q *Quad) [16]byte {
	hash := xxh3.Hash128([]byte(quadKey(q)))
	var key [16]byte
	binary.BigEndian.PutUint64(key[0:8], hash.Hi)
	binary.BigEndian.PutUint64(key[8:16], hash.Lo)
	return key
}

// Add inserts a quad. It reports whether the quad was newly inserted;
// inserting a duplicate is a no-op, never an error.
func (d *Dataset) Add(q *Quad) bool {
	key := hashQuad(q)
	if _, ok := d.index[key]; ok {
		return false
	}
	d.index[key] = struct{}{}
	d.quads = append(d.quads, q)
	return true
}

// Contains reports whether the quad is in the dataset.
func (d *Dataset) Contains(q *Quad) bool {
	_, ok := d.index[hashQuad(q)]
	return ok
}

// Remove deletes a quad. It reports whether the quad was present.
func (d *Dataset) Remove(q *Quad) bool {
	key := hashQuad(q)
	if _, ok := d.index[key]; !ok {
		return false
	}
	delete(d.index, key)
	for i, other := range d.quads {
		if hashQuad(other) == key {
			d.quads = append(d.quads[:i], d.quads[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of quads.
func (d *Dataset) Len() int {
	return len(d.quads)
}

// All returns every quad in insertion order.
func (d *Dataset) All() []*Quad {
	out := make([]*Quad, len(d.quads))
	copy(out, d.quads)
	return out
}

// Graphs returns the distinct graph names in order of first appearance.
// The default graph is represented by the DefaultGraph sentinel.
func (d *Dataset) Graphs() []Term {
	var graphs []Term
	seen := make(map[string]struct{})
	for _, q := range d.quads {
		k := termKey(q.Graph)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		graphs = append(graphs, q.Graph)
	}
	return graphs
}

// Quads returns the quads of one graph in insertion order. A nil graph
// selects the default graph.
func (d *Dataset) Quads(graph Term) []*Quad {
	if graph == nil {
		graph = NewDefaultGraph()
	}
	var out []*Quad
	for _, q := range d.quads {
		if q.Graph.Equals(graph) {
			out = append(out, q)
		}
	}
	return out
}

// Canonical returns the quads sorted lexicographically by their
// (graph, subject, predicate, object) canonical string forms. The default
// graph orders before all named graphs.
func (d *Dataset) Canonical() []*Quad {
	out := d.All()
	keys := make([]string, len(out))
	for i, q := range out {
		keys[i] = quadKey(q)
	}
	sort.Sort(&byKey{quads: out, keys: keys})
	return out
}

type byKey struct {
	quads []*Quad
	keys  []string
}

func (s *byKey) Len() int           { return len(s.quads) }
func (s *byKey) Less(i, j int) bool { return s.keys[i] < s.keys[j] }
func (s *byKey) Swap(i, j int) {
	s.quads[i], s.quads[j] = s.quads[j], s.quads[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}
