package form

import "strings"

// Conference statuses, in the order the status picker lists them.
var ConferenceStatuses = []string{"Published All", "Archived", "Draft"}

// UserRoles are the values accepted in a user's role list.
var UserRoles = []string{"user", "eic", "admin"}

// UserPositions are the ISI positions a user can hold.
var UserPositions = []string{
	"reviewer", "editor", "Publisher", "Author", "UnverifiedAuthor",
	"NoActiveEmails", "gackowski_award_winner", "second_act", "ambassador",
	"director", "honorary_fellow", "fellow", "governor", "executive_director",
	"isi_founder", "alumni", "Member",
}

// selectionBounds rejects a maximum below the minimum. A maximum of 0
// means no limit.
func selectionBounds(values map[string]any) (string, string) {
	lo, _ := values["minSelections"].(int)
	hi, _ := values["maxSelections"].(int)
	if hi > 0 && hi < lo {
		return "maxSelections", "must not be less than minSelections"
	}
	return "", ""
}

// emailCheck requires something that looks like an address.
func emailCheck(values map[string]any) (string, string) {
	email, _ := values["email"].(string)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "email", "must be an email address"
	}
	return "", ""
}

// Entity form schemas.
var (
	Conference = Schema{
		Name: "Conference",
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: Text, Required: true},
			{Key: "acronym", Label: "Acronym", Kind: Text, Required: true},
			{Key: "status", Label: "Status", Kind: Enum, Required: true, Options: ConferenceStatuses},
			{Key: "fullName", Label: "Full name", Kind: Text},
			{Key: "shortName", Label: "Short name", Kind: Text},
			{Key: "overviewDescription", Label: "Overview", Kind: LongText},
		},
	}

	Journal = Schema{
		Name: "Journal",
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: Text, Required: true},
			{Key: "acronym", Label: "Acronym", Kind: Text, Required: true},
			{Key: "fullName", Label: "Full name", Kind: Text},
			{Key: "shortName", Label: "Short name", Kind: Text},
			{Key: "overviewDescription", Label: "Overview", Kind: LongText},
			{Key: "status", Label: "Status", Kind: Enum, Options: ConferenceStatuses},
		},
	}

	Topic = Schema{
		Name: "Topic",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "overviewDescription", Label: "Overview", Kind: LongText},
			{Key: "minSelections", Label: "Minimum selections", Kind: Int},
			{Key: "maxSelections", Label: "Maximum selections", Kind: Int},
		},
		Checks: []Check{selectionBounds},
	}

	SubTopic = Schema{
		Name: "Sub topic",
		Fields: []Field{
			{Key: "topicId", Label: "Parent topic id", Kind: Text, Required: true},
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "overviewDescription", Label: "Overview", Kind: LongText},
			{Key: "minSelections", Label: "Minimum selections", Kind: Int},
			{Key: "maxSelections", Label: "Maximum selections", Kind: Int},
		},
		Checks: []Check{selectionBounds},
	}

	Track = Schema{
		Name: "Track",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "description", Label: "Description", Kind: LongText},
		},
	}

	ArticleType = Schema{
		Name: "Type",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: Text, Required: true},
		},
	}

	User = Schema{
		Name: "User",
		Fields: []Field{
			{Key: "personalName", Label: "Name", Kind: Text, Required: true},
			{Key: "email", Label: "Email", Kind: Text, Required: true},
			{Key: "role", Label: "Roles", Kind: List, Required: true, Options: UserRoles},
			{Key: "isiPositions", Label: "ISI positions", Kind: List, Options: UserPositions},
			{Key: "department", Label: "Department", Kind: Text},
		},
		Checks: []Check{emailCheck},
	}

	FAQ = Schema{
		Name: "FAQ",
		Fields: []Field{
			{Key: "question", Label: "Question", Kind: Text, Required: true},
			{Key: "answer", Label: "Answer", Kind: LongText, Required: true},
		},
	}

	Content = Schema{
		Name: "Content",
		Fields: []Field{
			{Key: "pageType", Label: "Page", Kind: Text, Required: true},
			{Key: "description", Label: "Body (HTML)", Kind: LongText, Required: true},
		},
	}
)
