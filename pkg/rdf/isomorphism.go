package rdf

import "sort"

// Isomorphic reports whether two datasets describe the same graph up to
// blank node relabeling: there must be a bijection between their blank
// nodes under which the quad sets are identical.
func Isomorphic(a, b *Dataset) bool {
	return IsomorphicQuads(a.All(), b.All())
}

// IsomorphicQuads is Isomorphic over raw quad slices. Duplicate quads in
// either slice are collapsed before comparison.
func IsomorphicQuads(expected, actual []*Quad) bool {
	expected = dedupe(expected)
	actual = dedupe(actual)

	if len(expected) != len(actual) {
		return false
	}

	expectedBlanks := blankNodeIDs(expected)
	actualBlanks := blankNodeIDs(actual)
	if len(expectedBlanks) != len(actualBlanks) {
		return false
	}

	if len(expectedBlanks) == 0 {
		return sameQuadSet(expected, actual, nil)
	}

	// Match high-degree blank nodes first to prune the search early.
	sortByDegree(expectedBlanks, expected)
	sortByDegree(actualBlanks, actual)

	mapping := make(map[string]string)
	used := make(map[string]bool)
	return backtrack(expected, actual, expectedBlanks, actualBlanks, mapping, used, 0)
}

func dedupe(quads []*Quad) []*Quad {
	seen := make(map[string]struct{}, len(quads))
	out := make([]*Quad, 0, len(quads))
	for _, q := range quads {
		k := quadKey(q)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, q)
	}
	return out
}

// blankNodeIDs extracts the distinct blank node IDs of a quad set, sorted
// for deterministic search order.
func blankNodeIDs(quads []*Quad) []string {
	blanks := make(map[string]bool)
	for _, q := range quads {
		for _, t := range []Term{q.Subject, q.Object, q.Graph} {
			if b, ok := t.(*BlankNode); ok {
				blanks[b.ID] = true
			}
		}
	}

	result := make([]string, 0, len(blanks))
	for id := range blanks {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

func sortByDegree(blanks []string, quads []*Quad) {
	degrees := make(map[string]int)
	for _, q := range quads {
		for _, t := range []Term{q.Subject, q.Object, q.Graph} {
			if b, ok := t.(*BlankNode); ok {
				degrees[b.ID]++
			}
		}
	}
	sort.SliceStable(blanks, func(i, j int) bool {
		return degrees[blanks[i]] > degrees[blanks[j]]
	})
}

// mappedKey renders a quad's canonical key with expected-side blank node
// IDs rewritten through the mapping. A nil mapping renders IDs verbatim.
func mappedKey(q *Quad, mapping map[string]string) string {
	rewrite := func(t Term) Term {
		if b, ok := t.(*BlankNode); ok && mapping != nil {
			if target, ok := mapping[b.ID]; ok {
				return NewBlankNode(target)
			}
		}
		return t
	}
	return quadKey(&Quad{
		Subject:   rewrite(q.Subject),
		Predicate: q.Predicate,
		Object:    rewrite(q.Object),
		Graph:     rewrite(q.Graph),
	})
}

func sameQuadSet(expected, actual []*Quad, mapping map[string]string) bool {
	actualSet := make(map[string]bool, len(actual))
	for _, q := range actual {
		actualSet[mappedKey(q, nil)] = true
	}
	for _, q := range expected {
		if !actualSet[mappedKey(q, mapping)] {
			return false
		}
	}
	return true
}

func backtrack(expected, actual []*Quad, expectedBlanks, actualBlanks []string,
	mapping map[string]string, used map[string]bool, index int) bool {

	if index == len(expectedBlanks) {
		return sameQuadSet(expected, actual, mapping)
	}

	current := expectedBlanks[index]
	for _, candidate := range actualBlanks {
		if used[candidate] {
			continue
		}

		mapping[current] = candidate
		used[candidate] = true

		if consistentSoFar(expected, actual, mapping) &&
			backtrack(expected, actual, expectedBlanks, actualBlanks, mapping, used, index+1) {
			return true
		}

		delete(mapping, current)
		delete(used, candidate)
	}

	return false
}

// consistentSoFar prunes the search: every expected quad whose blank nodes
// are all mapped must already have a counterpart in actual.
func consistentSoFar(expected, actual []*Quad, mapping map[string]string) bool {
	fullyMapped := func(t Term) bool {
		if b, ok := t.(*BlankNode); ok {
			_, mapped := mapping[b.ID]
			return mapped
		}
		return true
	}

	actualSet := make(map[string]bool, len(actual))
	for _, q := range actual {
		actualSet[mappedKey(q, nil)] = true
	}

	for _, q := range expected {
		if fullyMapped(q.Subject) && fullyMapped(q.Object) && fullyMapped(q.Graph) {
			if !actualSet[mappedKey(q, mapping)] {
				return false
			}
		}
	}
	return true
}
