package session

import (
	"slices"
	"strings"

	"github.com/sandevgo/dailyfacts/internal/core"
)

// Fingerprint summarises the settings that influence selection. Topic order does not matter.
func Fingerprint(st core.SessionState) string {
	topics := make([]string, 0, len(st.SelectedTopics))
	for _, t := range st.SelectedTopics {
		topics = append(topics, string(t))
	}
	slices.Sort(topics)
	topics = slices.Compact(topics)

	mode := "0"
	if st.OnePerTopic {
		mode = "1"
	}
	return mode + "|" + string(st.Language.OrDefault()) + "|" + strings.Join(topics, ",")
}

// shape trims facts to what the mode allows: the lead fact in single mode, the first fact
// of each topic otherwise.
func shape(facts []core.Fact, onePerTopic bool) []core.Fact {
	if !onePerTopic {
		if len(facts) > 1 {
			return facts[:1]
		}
		return facts
	}

	seen := make(map[core.TopicKey]struct{}, len(facts))
	out := make([]core.Fact, 0, len(facts))
	for _, f := range facts {
		if _, dup := seen[f.Topic]; dup {
			continue
		}
		seen[f.Topic] = struct{}{}
		out = append(out, f)
	}
	return out
}

// carryOver picks the displayed facts that survive a settings change.
func carryOver(displayed []core.Fact, st core.SessionState) []core.Fact {
	active := st.ActiveTopics()
	kept := make([]core.Fact, 0, len(displayed))
	for _, f := range displayed {
		if slices.Contains(active, f.Topic) {
			kept = append(kept, f)
		}
	}
	return shape(kept, st.OnePerTopic)
}

func factIDs(facts []core.Fact) []string {
	ids := make([]string, len(facts))
	for i, f := range facts {
		ids[i] = f.ID
	}
	return ids
}

func without(ids, drop []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(drop, id) {
			out = append(out, id)
		}
	}
	return out
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, id := range b {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// emptyTag explains why a selection came back empty.
func emptyTag(st core.SessionState, candidates int) core.ErrorTag {
	switch {
	case candidates > 0:
		return core.ErrorAllSeenForToday
	case st.AllTopicsEnabled():
		return core.ErrorEmptyForAllTopics
	default:
		return core.ErrorEmptyForSelectedTopics
	}
}
