package repeat

import (
	"fmt"
	"sort"

	"github.com/MrDavidRios/sheet-music-repetition-highlighter/model"
	"github.com/MrDavidRios/sheet-music-repetition-highlighter/util"
)

// PatternKey builds a canonical string key for a signature tuple so
// variable-length tuples with equal content land on the same map entry.
func PatternKey(sigs []model.Signature) string {
	var res string
	for i, s := range sigs {
		res += fmt.Sprintf("%v:%v/%v", s.Pitch, s.Duration.Num, s.Duration.Den)
		if i < len(sigs)-1 {
			res += "-"
		}
	}
	return res
}

// group is one candidate pattern: its signature tuple and the set of
// starting positions where the tuple occurs.
type group struct {
	pattern   []model.Signature
	positions map[int]bool
}

func (g *group) addPositions(positions map[int]bool) {
	for p := range positions {
		g.positions[p] = true
	}
}

// sortGroups orders groups by descending pattern length, then by key, so
// every pass over candidates is deterministic.
func sortGroups(groups []*group) {
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].pattern) != len(groups[j].pattern) {
			return len(groups[i].pattern) > len(groups[j].pattern)
		}
		return PatternKey(groups[i].pattern) < PatternKey(groups[j].pattern)
	})
}

func groupsToSorted(m map[string]*group) []*group {
	res := make([]*group, 0, len(m))
	for _, g := range m {
		res = append(res, g)
	}
	sortGroups(res)
	return res
}

// FindRepeats finds every maximal repeated signature run of at least
// minLength events in one voice. Results are sorted by significance
// (length * count) descending; order among ties is stable but not part
// of the contract.
func FindRepeats(events []model.Event, minLength int) ([]model.Repeat, error) {
	if minLength < 1 {
		return nil, fmt.Errorf("min length must be >= 1, got %v", minLength)
	}

	sigs := make([]model.Signature, len(events))
	for i, ev := range events {
		sigs[i] = ev.Sig
	}
	n := len(sigs)
	if n == 0 {
		return nil, nil
	}

	// index: signature -> ascending positions
	sigPositions := make(map[model.Signature][]int)
	for i, sig := range sigs {
		sigPositions[sig] = append(sigPositions[sig], i)
	}

	// For each pair of positions sharing a signature, extend the match as
	// far as equality holds and group the resulting runs by content.
	groups := make(map[string]*group)
	for i := 0; i < n; i++ {
		for _, j := range sigPositions[sigs[i]] {
			if j <= i {
				continue
			}
			length := 1
			for i+length < n && j+length < n && sigs[i+length] == sigs[j+length] {
				length++
			}
			if length < minLength {
				continue
			}

			pattern := sigs[i : i+length]
			key := PatternKey(pattern)
			g, ok := groups[key]
			if !ok {
				g = &group{pattern: pattern, positions: make(map[int]bool)}
				groups[key] = g
			}
			g.positions[i] = true
			g.positions[j] = true
		}
	}

	maximal := filterMaximal(groupsToSorted(groups))
	merged := extractCommonPrefixes(maximal, minLength)
	return assemble(events, merged), nil
}

// isSubstring reports whether short occurs contiguously anywhere in long.
func isSubstring(short, long []model.Signature) bool {
	for i := 0; i+len(short) <= len(long); i++ {
		match := true
		for k := range short {
			if long[i+k] != short[k] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// hasPrefix reports whether sigs starts with prefix.
func hasPrefix(sigs, prefix []model.Signature) bool {
	if len(prefix) > len(sigs) {
		return false
	}
	for i := range prefix {
		if sigs[i] != prefix[i] {
			return false
		}
	}
	return true
}

// filterMaximal drops every pattern whose content appears as a substring
// of a longer surviving pattern, regardless of where the longer pattern
// actually occurs. Input must already be sorted longest-first.
func filterMaximal(candidates []*group) []*group {
	var maximal []*group
	for _, c := range candidates {
		dominated := false
		for _, longer := range maximal {
			if len(longer.pattern) > len(c.pattern) && isSubstring(c.pattern, longer.pattern) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, c)
		}
	}
	return maximal
}

// lcpLength returns the longest common prefix length of two tuples.
func lcpLength(a, b []model.Signature) int {
	max := util.Min(len(a), len(b))
	l := 0
	for l < max && a[l] == b[l] {
		l++
	}
	return l
}

// extractCommonPrefixes merges maximal patterns that diverge only after a
// shared opening of at least minLength events: the shared prefix becomes
// one pattern holding the union of its parents' positions, and parents
// starting with a surviving prefix are dropped. Afterwards no result is a
// prefix of another.
func extractCommonPrefixes(patterns []*group, minLength int) []*group {
	if len(patterns) == 0 {
		return patterns
	}

	prefixes := make(map[string]*group)
	for i := 0; i < len(patterns); i++ {
		for j := i + 1; j < len(patterns); j++ {
			l := lcpLength(patterns[i].pattern, patterns[j].pattern)
			if l < minLength {
				continue
			}
			prefix := patterns[i].pattern[:l]
			key := PatternKey(prefix)
			g, ok := prefixes[key]
			if !ok {
				g = &group{pattern: prefix, positions: make(map[int]bool)}
				prefixes[key] = g
			}
			g.addPositions(patterns[i].positions)
			g.addPositions(patterns[j].positions)
		}
	}
	if len(prefixes) == 0 {
		return patterns
	}

	// keep only the longest shared opening per cluster
	var maximalPrefixes []*group
	for _, c := range groupsToSorted(prefixes) {
		subsumed := false
		for _, longer := range maximalPrefixes {
			if len(longer.pattern) > len(c.pattern) && hasPrefix(longer.pattern, c.pattern) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			maximalPrefixes = append(maximalPrefixes, c)
		}
	}

	result := append([]*group{}, maximalPrefixes...)
	for _, p := range patterns {
		subsumed := false
		for _, prefix := range maximalPrefixes {
			if hasPrefix(p.pattern, prefix.pattern) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			result = append(result, p)
		}
	}
	return result
}

func assemble(events []model.Event, groups []*group) []model.Repeat {
	var repeats []model.Repeat
	for _, g := range groups {
		positions := util.GetKeys(g.positions)
		sort.Ints(positions)
		first := positions[0]
		material := make([]model.Event, len(g.pattern))
		copy(material, events[first:first+len(g.pattern)])
		repeats = append(repeats, model.Repeat{
			Length:    len(g.pattern),
			Count:     len(positions),
			Positions: positions,
			Material:  material,
		})
	}
	sort.SliceStable(repeats, func(i, j int) bool {
		return repeats[i].Significance() > repeats[j].Significance()
	})
	return repeats
}
