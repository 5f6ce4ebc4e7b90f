package core

import (
	"slices"
	"time"
)

// SessionState is the persisted settings object together with the derived daily session.
type SessionState struct {
	SelectedTopics []TopicKey `json:"selectedTopics"`
	OnePerTopic    bool       `json:"onePerTopic"`
	Language       Language   `json:"language,omitempty"`

	NotificationsEnabled bool           `json:"notificationsEnabled"`
	NotificationTime     string         `json:"notificationTime"`
	NotificationWeekdays []time.Weekday `json:"notificationWeekdays"`

	LastShownDate           string   `json:"lastShownDate,omitempty"`
	ShownFactIDs            []string `json:"shownFactIds"`
	CurrentFactIDs          []string `json:"currentFactIds"`
	CurrentErrorKey         ErrorTag `json:"currentErrorKey,omitempty"`
	CurrentFactsSettingsKey string   `json:"currentFactsSettingsKey,omitempty"`
}

var AllWeekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

func DefaultSessionState() SessionState {
	return SessionState{
		SelectedTopics:       slices.Clone(AllTopics),
		Language:             DefaultLanguage,
		NotificationsEnabled: true,
		NotificationTime:     "09:00",
		NotificationWeekdays: slices.Clone(AllWeekdays),
		ShownFactIDs:         []string{},
		CurrentFactIDs:       []string{},
	}
}

// Clone returns a deep copy so callers never share slices with the store.
func (s SessionState) Clone() SessionState {
	c := s
	c.SelectedTopics = slices.Clone(s.SelectedTopics)
	c.NotificationWeekdays = slices.Clone(s.NotificationWeekdays)
	c.ShownFactIDs = slices.Clone(s.ShownFactIDs)
	c.CurrentFactIDs = slices.Clone(s.CurrentFactIDs)
	return c
}

// ActiveTopics returns the selected topics in AllTopics order, or the whole universe when
// none are selected. Unknown topics are ignored.
func (s SessionState) ActiveTopics() []TopicKey {
	if len(s.SelectedTopics) == 0 {
		return slices.Clone(AllTopics)
	}
	active := make([]TopicKey, 0, len(s.SelectedTopics))
	for _, t := range AllTopics {
		if slices.Contains(s.SelectedTopics, t) {
			active = append(active, t)
		}
	}
	return active
}

// AllTopicsEnabled reports whether the user has no effective topic filter.
func (s SessionState) AllTopicsEnabled() bool {
	if len(s.SelectedTopics) == 0 {
		return true
	}
	for _, t := range AllTopics {
		if !slices.Contains(s.SelectedTopics, t) {
			return false
		}
	}
	return true
}

// ShownIDsFor returns the exclusion set for date. Ids recorded for another day are ignored.
func (s SessionState) ShownIDsFor(date string) []string {
	if s.LastShownDate != date {
		return []string{}
	}
	return slices.Clone(s.ShownFactIDs)
}

// MarkShown appends ids to the exclusion set of date, resetting it on a day change.
func (s *SessionState) MarkShown(date string, ids ...string) {
	shown := s.ShownIDsFor(date)
	for _, id := range ids {
		if !slices.Contains(shown, id) {
			shown = append(shown, id)
		}
	}
	s.LastShownDate = date
	s.ShownFactIDs = shown
}

func (s SessionState) HasHistory() bool {
	return s.LastShownDate != "" || len(s.ShownFactIDs) > 0 || len(s.CurrentFactIDs) > 0
}

// ResetHistory clears every shown/current field and keeps user preferences.
func (s *SessionState) ResetHistory() {
	s.LastShownDate = ""
	s.ShownFactIDs = []string{}
	s.CurrentFactIDs = []string{}
	s.CurrentErrorKey = ErrorNone
	s.CurrentFactsSettingsKey = ""
}

// Normalize fills defaults for fields missing from an older persisted object.
func (s *SessionState) Normalize() {
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.NotificationTime == "" {
		s.NotificationTime = "09:00"
	}
	if s.SelectedTopics == nil {
		s.SelectedTopics = slices.Clone(AllTopics)
	}
	if s.NotificationWeekdays == nil {
		s.NotificationWeekdays = slices.Clone(AllWeekdays)
	}
	if s.ShownFactIDs == nil {
		s.ShownFactIDs = []string{}
	}
	if s.CurrentFactIDs == nil {
		s.CurrentFactIDs = []string{}
	}
}
