package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/form"
	"github.com/osteele/pubadmin/internal/liststate"
	"github.com/osteele/pubadmin/internal/ui"
)

// UserTabs are the role tabs of the user screen.
var UserTabs = []string{"User", "Eic", "Admin", liststate.DuplicateTab}

// options turns raw values into picker options with readable labels.
func options(values []string) []liststate.Option {
	out := make([]liststate.Option, len(values))
	for i, v := range values {
		out[i] = liststate.Option{Value: v, Label: optionLabel(v)}
	}
	return out
}

// optionLabel turns "honorary_fellow" into "Honorary Fellow".
func optionLabel(v string) string {
	words := strings.Fields(strings.ReplaceAll(v, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func itoa(n api.FlexInt) string {
	return strconv.FormatInt(int64(n), 10)
}

func conferenceBinding() *Binding[api.Conference] {
	return &Binding[api.Conference]{
		Resource: api.Conferences,
		Schema:   form.Conference,
		Columns:  []ui.Column{{Title: "Title", Width: 40}, {Title: "Acronym", Width: 12}, {Title: "Status", Width: 14}},
		ID:       func(c api.Conference) string { return c.ID.String() },
		Name:     func(c api.Conference) string { return c.Title },
		Cells: func(c api.Conference) []string {
			return []string{c.Title, c.Acronym, c.Status}
		},
		Values: func(c api.Conference) map[string]any {
			return map[string]any{
				"title": c.Title, "acronym": c.Acronym, "status": c.Status,
				"fullName": c.FullName, "shortName": c.ShortName,
				"overviewDescription": c.OverviewDescription,
			}
		},
		Detail: func(c api.Conference) []DetailField {
			return []DetailField{
				{Label: "Acronym", Value: c.Acronym},
				{Label: "Status", Value: c.Status},
				{Label: "Full name", Value: c.FullName},
				{Label: "Short name", Value: c.ShortName},
				{Label: "Created", Value: formatDate(int64(c.InsertDate))},
				{Label: "Overview", Value: c.OverviewDescription, HTML: true},
			}
		},
		NewValues: func(liststate.Filters) map[string]any {
			return map[string]any{"status": api.ConferenceStatusDraft}
		},
		TypeOptions: options(form.ConferenceStatuses),
	}
}

func journalBinding() *Binding[api.Journal] {
	return &Binding[api.Journal]{
		Resource: api.Journals,
		Schema:   form.Journal,
		Columns:  []ui.Column{{Title: "Title", Width: 40}, {Title: "Acronym", Width: 12}, {Title: "Status", Width: 14}},
		ID:       func(j api.Journal) string { return j.ID.String() },
		Name:     func(j api.Journal) string { return j.Title },
		Cells: func(j api.Journal) []string {
			return []string{j.Title, j.Acronym, j.Status}
		},
		Values: func(j api.Journal) map[string]any {
			return map[string]any{
				"title": j.Title, "acronym": j.Acronym, "status": j.Status,
				"fullName": j.FullName, "shortName": j.ShortName,
				"overviewDescription": j.OverviewDescription,
			}
		},
		Detail: func(j api.Journal) []DetailField {
			return []DetailField{
				{Label: "Acronym", Value: j.Acronym},
				{Label: "Status", Value: j.Status},
				{Label: "Full name", Value: j.FullName},
				{Label: "Short name", Value: j.ShortName},
				{Label: "Overview", Value: j.OverviewDescription, HTML: true},
			}
		},
		TypeOptions: options(form.ConferenceStatuses),
	}
}

func topicBinding() *Binding[api.Topic] {
	return &Binding[api.Topic]{
		Resource: api.Topics,
		Schema:   form.Topic,
		Columns:  []ui.Column{{Title: "#", Width: 4}, {Title: "Name", Width: 40}, {Title: "Min", Width: 5}, {Title: "Max", Width: 5}},
		ID:       func(t api.Topic) string { return t.ID.String() },
		Name:     func(t api.Topic) string { return t.Name },
		Cells: func(t api.Topic) []string {
			return []string{strconv.Itoa(t.SortOrder), t.Name, itoa(t.MinSelections), itoa(t.MaxSelections)}
		},
		Values: func(t api.Topic) map[string]any {
			return map[string]any{
				"name": t.Name, "overviewDescription": t.OverviewDescription,
				"minSelections": t.MinSelections, "maxSelections": t.MaxSelections,
			}
		},
		Detail: func(t api.Topic) []DetailField {
			return []DetailField{
				{Label: "Position", Value: strconv.Itoa(t.SortOrder)},
				{Label: "Selections", Value: itoa(t.MinSelections) + " to " + itoa(t.MaxSelections)},
				{Label: "Overview", Value: t.OverviewDescription, HTML: true},
			}
		},
		SetOrder: func(t api.Topic, n int) api.Topic {
			t.SortOrder = n
			return t
		},
		DrillDown: api.SubTopics.Name,
	}
}

func subTopicBinding() *Binding[api.SubTopic] {
	return &Binding[api.SubTopic]{
		Resource: api.SubTopics,
		Schema:   form.SubTopic,
		Columns:  []ui.Column{{Title: "#", Width: 4}, {Title: "Name", Width: 40}, {Title: "Min", Width: 5}, {Title: "Max", Width: 5}},
		ID:       func(s api.SubTopic) string { return s.ID.String() },
		Name:     func(s api.SubTopic) string { return s.Name },
		Cells: func(s api.SubTopic) []string {
			return []string{strconv.Itoa(s.SortOrder), s.Name, itoa(s.MinSelections), itoa(s.MaxSelections)}
		},
		Values: func(s api.SubTopic) map[string]any {
			return map[string]any{
				"topicId": s.TopicID.String(), "name": s.Name,
				"overviewDescription": s.OverviewDescription,
				"minSelections":       s.MinSelections, "maxSelections": s.MaxSelections,
			}
		},
		Detail: func(s api.SubTopic) []DetailField {
			return []DetailField{
				{Label: "Topic", Value: s.TopicID.String()},
				{Label: "Position", Value: strconv.Itoa(s.SortOrder)},
				{Label: "Selections", Value: itoa(s.MinSelections) + " to " + itoa(s.MaxSelections)},
				{Label: "Overview", Value: s.OverviewDescription, HTML: true},
			}
		},
		SetOrder: func(s api.SubTopic, n int) api.SubTopic {
			s.SortOrder = n
			return s
		},
		NewValues: func(f liststate.Filters) map[string]any {
			return map[string]any{"topicId": f.Scope}
		},
	}
}

func trackBinding() *Binding[api.Track] {
	return &Binding[api.Track]{
		Resource: api.Tracks,
		Schema:   form.Track,
		Columns:  []ui.Column{{Title: "Name", Width: 32}, {Title: "Description", Width: 60}},
		ID:       func(t api.Track) string { return t.ID.String() },
		Name:     func(t api.Track) string { return t.Name },
		Cells: func(t api.Track) []string {
			return []string{t.Name, cellText(t.Description)}
		},
		Values: func(t api.Track) map[string]any {
			return map[string]any{"name": t.Name, "description": t.Description}
		},
		Detail: func(t api.Track) []DetailField {
			return []DetailField{{Label: "Description", Value: t.Description, HTML: true}}
		},
	}
}

func articleTypeBinding() *Binding[api.ArticleType] {
	return &Binding[api.ArticleType]{
		Resource: api.ArticleTypes,
		Schema:   form.ArticleType,
		Columns:  []ui.Column{{Title: "Name", Width: 48}},
		ID:       func(t api.ArticleType) string { return t.ID.String() },
		Name:     func(t api.ArticleType) string { return t.Name },
		Cells:    func(t api.ArticleType) []string { return []string{t.Name} },
		Values: func(t api.ArticleType) map[string]any {
			return map[string]any{"name": t.Name}
		},
		Detail: func(t api.ArticleType) []DetailField {
			return []DetailField{{Label: "Id", Value: t.ID.String()}}
		},
	}
}

func userBinding(pageSize int) *Binding[api.User] {
	return &Binding[api.User]{
		Resource: api.Users,
		Schema:   form.User,
		PageSize: pageSize,
		Columns: []ui.Column{
			{Title: "Name", Width: 24}, {Title: "Email", Width: 30}, {Title: "Roles", Width: 12},
			{Title: "Positions", Width: 28}, {Title: "Registered", Width: 10}, {Title: "Dup", Width: 3},
		},
		ID:   func(u api.User) string { return u.ID.String() },
		Name: func(u api.User) string { return u.PersonalName },
		Cells: func(u api.User) []string {
			dup := ""
			if u.IsDuplicate {
				dup = "●"
			}
			return []string{
				u.PersonalName, u.Email, strings.Join(u.Role, ", "),
				strings.Join(u.IsiPositions, ", "), formatDate(int64(u.InsertDate)), dup,
			}
		},
		Values: func(u api.User) map[string]any {
			return map[string]any{
				"personalName": u.PersonalName, "email": u.Email,
				"role": u.Role, "isiPositions": u.IsiPositions, "department": u.Department,
			}
		},
		Detail: func(u api.User) []DetailField {
			return []DetailField{
				{Label: "Email", Value: u.Email},
				{Label: "Roles", Value: strings.Join(u.Role, ", ")},
				{Label: "Positions", Value: strings.Join(u.IsiPositions, ", ")},
				{Label: "Status", Value: u.Status},
				{Label: "Department", Value: u.Department},
				{Label: "Registered", Value: formatDate(int64(u.InsertDate))},
				{Label: "Duplicate", Value: strconv.FormatBool(u.IsDuplicate)},
			}
		},
		NewValues: func(f liststate.Filters) map[string]any {
			role := liststate.RoleForTab(f.Tab)
			if role == "" || f.Tab == liststate.DuplicateTab {
				role = "user"
			}
			return map[string]any{"role": []string{role}}
		},
		Tabs:        UserTabs,
		TypeOptions: options(form.UserPositions),
		ToggleLabel: "duplicate",
		Toggle: func(ctx context.Context, c *api.Client, u api.User) (string, error) {
			if err := c.SetDuplicate(ctx, u.ID.String(), !u.IsDuplicate); err != nil {
				return "", err
			}
			if u.IsDuplicate {
				return fmt.Sprintf("Cleared duplicate flag on %q", u.PersonalName), nil
			}
			return fmt.Sprintf("Marked %q as duplicate", u.PersonalName), nil
		},
		ExportHeader: []string{"User Name", "Email", "Details", "Registration Date"},
		ExportRow: func(u api.User) []string {
			return []string{
				u.PersonalName, u.Email,
				"Submissions (" + u.Department + ")",
				formatDate(int64(u.InsertDate)),
			}
		},
	}
}

func faqBinding() *Binding[api.FAQ] {
	return &Binding[api.FAQ]{
		Resource: api.FAQs,
		Schema:   form.FAQ,
		Columns:  []ui.Column{{Title: "Question", Width: 44}, {Title: "Answer", Width: 60}},
		ID:       func(f api.FAQ) string { return f.ID.String() },
		Name:     func(f api.FAQ) string { return f.Question },
		Cells: func(f api.FAQ) []string {
			return []string{f.Question, cellText(f.Answer)}
		},
		Values: func(f api.FAQ) map[string]any {
			return map[string]any{"question": f.Question, "answer": f.Answer}
		},
		Detail: func(f api.FAQ) []DetailField {
			return []DetailField{{Label: "Answer", Value: f.Answer, HTML: true}}
		},
	}
}

func contentBinding() *Binding[api.Content] {
	return &Binding[api.Content]{
		Resource: api.Contents,
		Schema:   form.Content,
		Columns:  []ui.Column{{Title: "Page", Width: 24}, {Title: "Body", Width: 70}},
		ID:       func(c api.Content) string { return c.ID.String() },
		Name:     func(c api.Content) string { return c.PageType },
		Cells: func(c api.Content) []string {
			return []string{c.PageType, cellText(c.Description)}
		},
		Values: func(c api.Content) map[string]any {
			return map[string]any{"pageType": c.PageType, "description": c.Description}
		},
		Detail: func(c api.Content) []DetailField {
			return []DetailField{{Label: "Body", Value: c.Description, HTML: true}}
		},
	}
}
