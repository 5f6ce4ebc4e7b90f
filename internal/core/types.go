package core

import (
	"slices"
	"strings"
)

const (
	AppName       = "DailyFacts"
	AppUserAgent  = "DailyFacts/0.1"
	RepositoryURL = "https://github.com/sandevgo/dailyfacts"
	AppVersion    = "0.1.0"
)

type TopicKey string

const (
	TopicHistory     TopicKey = "history"
	TopicScience     TopicKey = "science"
	TopicWorldEvents TopicKey = "world-events"
	TopicTechnology  TopicKey = "technology"
	TopicMusic       TopicKey = "music"
	TopicMovies      TopicKey = "movies"
	TopicSports      TopicKey = "sports"
	TopicFunFacts    TopicKey = "fun-facts"
	TopicLiterature  TopicKey = "literature"
	TopicPsychology  TopicKey = "psychology"
)

// AllTopics is the topic universe in its stable display order.
var AllTopics = []TopicKey{
	TopicHistory,
	TopicScience,
	TopicWorldEvents,
	TopicTechnology,
	TopicMusic,
	TopicMovies,
	TopicSports,
	TopicFunFacts,
	TopicLiterature,
	TopicPsychology,
}

func (t TopicKey) Valid() bool {
	return slices.Contains(AllTopics, t)
}

// TopicFromID returns the topic encoded as an id prefix ("world-events-0314-2").
// The longest matching topic wins so hyphenated topics are recognised.
func TopicFromID(id string) (TopicKey, bool) {
	var best TopicKey
	for _, t := range AllTopics {
		prefix := string(t) + "-"
		if strings.HasPrefix(id, prefix) && len(t) > len(best) {
			best = t
		}
	}
	return best, best != ""
}

type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageGerman    Language = "de"
	LanguageUkrainian Language = "uk"
	LanguageHungarian Language = "hu"

	DefaultLanguage = LanguageEnglish
)

var AllLanguages = []Language{LanguageEnglish, LanguageGerman, LanguageUkrainian, LanguageHungarian}

func (l Language) Valid() bool {
	return slices.Contains(AllLanguages, l)
}

// OrDefault maps the unset language to DefaultLanguage.
func (l Language) OrDefault() Language {
	if l == "" {
		return DefaultLanguage
	}
	return l
}

// Fact is one unit of displayable content. Values handed out by the catalog are shared
// and must not be mutated.
type Fact struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Topic       TopicKey `json:"topic"`
}

type FactEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContentFile holds one topic's facts for one language keyed by "MM-DD".
type ContentFile struct {
	Topic TopicKey               `json:"topic"`
	Facts map[string][]FactEntry `json:"facts"`
}

func EmptyContentFile(topic TopicKey) *ContentFile {
	return &ContentFile{Topic: topic, Facts: map[string][]FactEntry{}}
}

// ErrorTag is an opaque no-content condition surfaced to transports.
type ErrorTag string

const (
	ErrorNone                   ErrorTag = ""
	ErrorLoad                   ErrorTag = "load_error"
	ErrorAllSeenForToday        ErrorTag = "all_seen_for_today"
	ErrorEmptyForAllTopics      ErrorTag = "empty_for_all_topics"
	ErrorEmptyForSelectedTopics ErrorTag = "empty_for_selected_topics"
)

func (e ErrorTag) Message() string {
	switch e {
	case ErrorLoad:
		return "Could not load today's facts. Please try again."
	case ErrorAllSeenForToday:
		return "You have seen every fact for today. Come back tomorrow!"
	case ErrorEmptyForAllTopics:
		return "There are no facts for today yet."
	case ErrorEmptyForSelectedTopics:
		return "There are no facts for today in your selected topics. Try enabling more topics."
	default:
		return ""
	}
}
