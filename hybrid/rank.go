package hybrid

import (
	"sort"
)

// dedupEntities keeps one candidate per name. A later duplicate replaces
// the kept one only when its confidence is strictly higher.
func dedupEntities(candidates []EntityCandidate) []EntityCandidate {
	index := make(map[string]int, len(candidates))
	out := make([]EntityCandidate, 0, len(candidates))
	for _, c := range candidates {
		if i, ok := index[c.Name]; ok {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		index[c.Name] = len(out)
		out = append(out, c)
	}
	return out
}

func dedupRelationships(candidates []RelationshipCandidate) []RelationshipCandidate {
	index := make(map[string]int, len(candidates))
	out := make([]RelationshipCandidate, 0, len(candidates))
	for _, c := range candidates {
		key := c.key()
		if i, ok := index[key]; ok {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}

func provenanceRank(p Provenance) int {
	if p == ProvenanceSemantic {
		return 0
	}
	return 1
}

// less orders by provenance, then descending confidence, then ascending
// distance with missing distances last.
func less(pa, pb Provenance, ca, cb float64, da, db *float64) bool {
	if ra, rb := provenanceRank(pa), provenanceRank(pb); ra != rb {
		return ra < rb
	}
	if ca != cb {
		return ca > cb
	}
	switch {
	case da == nil && db == nil:
		return false
	case da == nil:
		return false
	case db == nil:
		return true
	}
	return *da < *db
}

func rankEntities(candidates []EntityCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		return less(a.Provenance, b.Provenance, a.Confidence, b.Confidence, a.Distance, b.Distance)
	})
}

func rankRelationships(candidates []RelationshipCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		return less(a.Provenance, b.Provenance, a.Confidence, b.Confidence, a.Distance, b.Distance)
	})
}
