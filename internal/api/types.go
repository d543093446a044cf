package api

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FlexID is an entity identifier. The backend sends ids both as JSON numbers
// and as strings; FlexID accepts either and writes numeric ids back as numbers.
// Numbers are normalised to plain decimal integers on the way in, so 1e3
// reads as "1000". Fractions and integers beyond what a JSON number holds
// exactly are rejected.
type FlexID string

// maxSafeID is the largest integer a JSON number round-trips exactly.
const maxSafeID = 1<<53 - 1

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("invalid id %s", b)
		}
		if f != math.Trunc(f) || math.Abs(f) > maxSafeID {
			return fmt.Errorf("id %s is not an exact integer", b)
		}
		*id = FlexID(strconv.FormatInt(int64(f), 10))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (id FlexID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsNumeric reports whether the id is a plain decimal integer that survives
// a round trip through a JSON number.
func (id FlexID) IsNumeric() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return false
	}
	return n >= -maxSafeID && n <= maxSafeID
}

func (id FlexID) String() string { return string(id) }

// FlexInt accepts a JSON number or a numeric string. Form pages post
// minSelections and friends as strings, so both shapes come back.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	*n = FlexInt(f)
	return nil
}

// StringList accepts either a JSON array of strings or a single string.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
		} else {
			*l = StringList{s}
		}
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Conference statuses accepted by the backend.
const (
	ConferenceStatusPublished = "Published All"
	ConferenceStatusArchived  = "Archived"
	ConferenceStatusDraft     = "Draft"
)

// Conference is a scheduled conference.
type Conference struct {
	ID                  FlexID  `json:"conferenceId"`
	Title               string  `json:"title"`
	Acronym             string  `json:"acronym"`
	Status              string  `json:"status"`
	FullName            string  `json:"fullName,omitempty"`
	ShortName           string  `json:"shortName,omitempty"`
	OverviewDescription string  `json:"overviewDescription,omitempty"`
	InsertDate          FlexInt `json:"insertDate,omitempty"`
}

// UnmarshalJSON falls back to the generic "id" key.
func (c *Conference) UnmarshalJSON(b []byte) error {
	type plain Conference
	aux := struct {
		*plain
		AltID FlexID `json:"id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.AltID
	}
	return nil
}

// Journal is a published journal.
type Journal struct {
	ID                  FlexID `json:"journalId"`
	Title               string `json:"title"`
	Acronym             string `json:"acronym"`
	FullName            string `json:"fullName,omitempty"`
	ShortName           string `json:"shortName,omitempty"`
	OverviewDescription string `json:"overviewDescription,omitempty"`
	Status              string `json:"status,omitempty"`
}

// UnmarshalJSON falls back to the generic "id" key.
func (j *Journal) UnmarshalJSON(b []byte) error {
	type plain Journal
	aux := struct {
		*plain
		AltID FlexID `json:"id"`
	}{plain: (*plain)(j)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if j.ID == "" {
		j.ID = aux.AltID
	}
	return nil
}

// Topic is a top-level submission topic. Topics are ordered by SortOrder.
type Topic struct {
	ID                  FlexID  `json:"topicId"`
	Name                string  `json:"name"`
	OverviewDescription string  `json:"overviewDescription,omitempty"`
	MinSelections       FlexInt `json:"minSelections"`
	MaxSelections       FlexInt `json:"maxSelections"`
	SortOrder           int     `json:"sortOrder"`
}

// SubTopic belongs to a Topic and is ordered within it.
type SubTopic struct {
	ID                  FlexID  `json:"subTopicId"`
	TopicID             FlexID  `json:"topicId"`
	Name                string  `json:"name"`
	OverviewDescription string  `json:"overviewDescription,omitempty"`
	MinSelections       FlexInt `json:"minSelections"`
	MaxSelections       FlexInt `json:"maxSelections"`
	SortOrder           int     `json:"sortOrder"`
}

// UnmarshalJSON uses topicId as the row id when subTopicId is absent,
// matching older list responses.
func (s *SubTopic) UnmarshalJSON(b []byte) error {
	type plain SubTopic
	if err := json.Unmarshal(b, (*plain)(s)); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = s.TopicID
	}
	return nil
}

// Track is a conference track.
type Track struct {
	ID          FlexID `json:"trackId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ArticleType is a submission type ("Type" in the admin menus).
type ArticleType struct {
	ID   FlexID `json:"articleId"`
	Name string `json:"name"`
}

// User is a platform account.
type User struct {
	ID           FlexID     `json:"userId"`
	PersonalName string     `json:"personalName"`
	Email        string     `json:"email"`
	Role         StringList `json:"role"`
	Status       string     `json:"status,omitempty"`
	IsiPositions StringList `json:"isiPositions"`
	IsDuplicate  bool       `json:"isDuplicate"`
	InsertDate   FlexInt    `json:"insertDate"`
	Department   string     `json:"department,omitempty"`
}

// FAQ is a frequently asked question shown on the public site.
type FAQ struct {
	ID       FlexID `json:"faqId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Content is a static page body such as "About us".
type Content struct {
	ID          FlexID `json:"contentId"`
	PageType    string `json:"pageType"`
	Description string `json:"description"`
}

// UnmarshalJSON falls back to the generic "id" key.
func (c *Content) UnmarshalJSON(b []byte) error {
	type plain Content
	aux := struct {
		*plain
		AltID FlexID `json:"id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.AltID
	}
	return nil
}

// ListParams are the query parameters for a list request.
type ListParams struct {
	Offset int
	Limit  int
	Text   string
	Scope  string
	Types  []string
	Role   string
}

// Page is one page of a list response.
type Page[T any] struct {
	Items      []T
	TotalCount int
}

// ReorderItem assigns a sortOrder to one entity.
type ReorderItem struct {
	ID        FlexID `json:"_id"`
	SortOrder int    `json:"sortOrder"`
}

// Dashboard periods.
const (
	PeriodAll     = "all"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Periods lists the dashboard periods in display order.
var Periods = []string{PeriodAll, PeriodWeekly, PeriodMonthly, PeriodYearly}

// DashboardStats are the platform totals shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers      FlexInt `json:"totalUsers"`
	ActiveUsers     FlexInt `json:"activeUsers"`
	InactiveUsers   FlexInt `json:"inactiveUsers"`
	DeletedUsers    FlexInt `json:"deletedUsers"`
	TotalJournal    FlexInt `json:"totalJournal"`
	TotalConference FlexInt `json:"totalConference"`
}
