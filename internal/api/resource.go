package api

import "strings"

// Resource describes how one entity type maps onto backend routes.
type Resource struct {
	Name     string // stable key, e.g. "subtopics"
	Label    string // display name, e.g. "Sub Topics"
	Singular string

	ListPath     string
	CreatePath   string
	UpdatePath   string
	DeletePrefix string // empty when the backend offers no delete route

	// IDField is the body key carrying the id on update.
	IDField string
	// ScopeParam and TypeParam name the list query keys for the parent
	// scope and the type-tag filter. Empty disables the filter.
	ScopeParam string
	TypeParam  string
	// ReorderType is sent as "type" to /topic/reorder. Empty means the
	// entity cannot be reordered.
	ReorderType string
}

// Deletable reports whether the backend exposes a delete route.
func (r Resource) Deletable() bool { return r.DeletePrefix != "" }

// Reorderable reports whether rows carry a user-defined sortOrder.
func (r Resource) Reorderable() bool { return r.ReorderType != "" }

// RanksPerParent reports whether sortOrder is counted within each parent
// rather than across the whole collection.
func (r Resource) RanksPerParent() bool { return r.ReorderType == "subtopic" }

// LoadFailure is the message shown when a list fetch fails without one.
func (r Resource) LoadFailure() string {
	return "Failed to load " + strings.ToLower(r.Label)
}

func (r Resource) failure(action string) string {
	return "Failed to " + action + " " + r.Singular
}

// The entities managed by the console.
var (
	Conferences = Resource{
		Name: "conferences", Label: "Conferences", Singular: "conference",
		ListPath: "/conference/list", CreatePath: "/conference/", UpdatePath: "/conference/",
		DeletePrefix: "/conference/", IDField: "conferenceId",
		ScopeParam: "journalId", TypeParam: "type",
	}
	Journals = Resource{
		Name: "journals", Label: "Journals", Singular: "journal",
		ListPath: "/journal/list", CreatePath: "/journal/", UpdatePath: "/journal/",
		IDField: "journalId", TypeParam: "type",
	}
	Topics = Resource{
		Name: "topics", Label: "Topics", Singular: "topic",
		ListPath: "/topic/list", CreatePath: "/topic", UpdatePath: "/topic/",
		DeletePrefix: "/topic/", IDField: "topicId",
		ScopeParam: "journalId", ReorderType: "topic",
	}
	SubTopics = Resource{
		Name: "subtopics", Label: "Sub Topics", Singular: "sub topic",
		ListPath: "/topic/sub/list", CreatePath: "/topic/sub", UpdatePath: "/topic/sub/",
		DeletePrefix: "/topic/sub/", IDField: "subTopicId",
		ScopeParam: "journalId", ReorderType: "subtopic",
	}
	Tracks = Resource{
		Name: "tracks", Label: "Tracks", Singular: "track",
		ListPath: "/topic/track/list", CreatePath: "/topic/track", UpdatePath: "/topic/track/",
		DeletePrefix: "/topic/track/", IDField: "trackId",
		ScopeParam: "journalId",
	}
	ArticleTypes = Resource{
		Name: "types", Label: "Types", Singular: "type",
		ListPath: "/topic/article/list", CreatePath: "/topic/article", UpdatePath: "/topic/article/",
		DeletePrefix: "/topic/article/", IDField: "articleId",
	}
	Users = Resource{
		Name: "users", Label: "Users", Singular: "user",
		ListPath: "/user/list", CreatePath: "/user/", UpdatePath: "/user/update",
		DeletePrefix: "/user/", IDField: "userId",
		TypeParam: "isiPosition[]",
	}
	FAQs = Resource{
		Name: "faqs", Label: "FAQs", Singular: "FAQ",
		ListPath: "/faq/list", CreatePath: "/faq", UpdatePath: "/faq",
		DeletePrefix: "/faq/delete/", IDField: "faqId",
	}
	Contents = Resource{
		Name: "contents", Label: "Contents", Singular: "content",
		ListPath: "/content/list", CreatePath: "/content", UpdatePath: "/content",
		DeletePrefix: "/content/", IDField: "id",
		TypeParam: "type",
	}
)

// Resources lists every managed entity in menu order.
var Resources = []Resource{
	Conferences, Journals, Topics, SubTopics, Tracks, ArticleTypes, Users, FAQs, Contents,
}

// ResourceByName finds a resource by its Name.
func ResourceByName(name string) (Resource, bool) {
	for _, r := range Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
