package comicvine

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref is the minimal pointer Comic Vine uses for related entities.
type Ref struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	APIDetailURL string `json:"api_detail_url,omitempty"`
}

// IssueRef is a Ref to an issue, carrying its number within the volume.
type IssueRef struct {
	Ref
	IssueNumber   string `json:"issue_number"`
	SiteDetailURL string `json:"site_detail_url,omitempty"`
}

// Credit is a Ref with the role a person played (writer, penciler, ...).
type Credit struct {
	Ref
	Role string `json:"role,omitempty"`
}

type Image struct {
	IconURL     string `json:"icon_url"`
	MediumURL   string `json:"medium_url"`
	ScreenURL   string `json:"screen_url"`
	SmallURL    string `json:"small_url"`
	SuperURL    string `json:"super_url"`
	ThumbURL    string `json:"thumb_url"`
	TinyURL     string `json:"tiny_url"`
	OriginalURL string `json:"original_url"`
}

// Aliases decodes either a JSON list or the newline separated string the
// live API actually returns.
type Aliases []string

func (a *Aliases) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		*a = out
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*a = list
	return nil
}

// Presence is true when the remote sent anything other than false or null.
// has_staff_review is either false or an object describing the review.
type Presence bool

func (p *Presence) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Presence(!(len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte("false"))))
	return nil
}

// Gender follows the Comic Vine encoding: 0 other, 1 male, 2 female.
type Gender int

const (
	GenderOther  Gender = 0
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Other"
	}
}

// Entity holds the fields shared by every detailed resource.
type Entity struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Aliases         Aliases `json:"aliases,omitempty"`
	DateAdded       string  `json:"date_added,omitempty"`
	DateLastUpdated string  `json:"date_last_updated,omitempty"`
	Deck            string  `json:"deck,omitempty"`
	Description     string  `json:"description,omitempty"`
	Image           *Image  `json:"image,omitempty"`
	APIDetailURL    string  `json:"api_detail_url,omitempty"`
	SiteDetailURL   string  `json:"site_detail_url,omitempty"`
}

type Character struct {
	Entity
	Birth                   string     `json:"birth,omitempty"`
	CharacterEnemies        []Ref      `json:"character_enemies,omitempty"`
	CharacterFriends        []Ref      `json:"character_friends,omitempty"`
	CountOfIssueAppearances int        `json:"count_of_issue_appearances,omitempty"`
	Creators                []Ref      `json:"creators,omitempty"`
	FirstAppearedInIssue    *IssueRef  `json:"first_appeared_in_issue,omitempty"`
	Gender                  Gender     `json:"gender,omitempty"`
	IssueCredits            []IssueRef `json:"issue_credits,omitempty"`
	IssuesDiedIn            []IssueRef `json:"issues_died_in,omitempty"`
	Movies                  []Ref      `json:"movies,omitempty"`
	Origin                  *Ref       `json:"origin,omitempty"`
	Powers                  []Ref      `json:"powers,omitempty"`
	Publisher               *Ref       `json:"publisher,omitempty"`
	RealName                string     `json:"real_name,omitempty"`
	TeamEnemies             []Ref      `json:"team_enemies,omitempty"`
	TeamFriends             []Ref      `json:"team_friends,omitempty"`
	Teams                   []Ref      `json:"teams,omitempty"`
	VolumeCredits           []Ref      `json:"volume_credits,omitempty"`
}

type Issue struct {
	Entity
	IssueNumber               string   `json:"issue_number"`
	CoverDate                 string   `json:"cover_date,omitempty"`
	StoreDate                 string   `json:"store_date,omitempty"`
	CharacterCredits          []Ref    `json:"character_credits,omitempty"`
	ConceptCredits            []Ref    `json:"concept_credits,omitempty"`
	LocationCredits           []Ref    `json:"location_credits,omitempty"`
	ObjectCredits             []Ref    `json:"object_credits,omitempty"`
	StoryArcCredits           []Ref    `json:"story_arc_credits,omitempty"`
	TeamCredits               []Ref    `json:"team_credits,omitempty"`
	PersonCredits             []Credit `json:"person_credits,omitempty"`
	FirstAppearanceCharacters []Ref    `json:"first_appearance_characters,omitempty"`
	FirstAppearanceConcepts   []Ref    `json:"first_appearance_concepts,omitempty"`
	FirstAppearanceLocations  []Ref    `json:"first_appearance_locations,omitempty"`
	FirstAppearanceObjects    []Ref    `json:"first_appearance_objects,omitempty"`
	FirstAppearanceStoryArcs  []Ref    `json:"first_appearance_storyarcs,omitempty"`
	FirstAppearanceTeams      []Ref    `json:"first_appearance_teams,omitempty"`
	Volume                    *Ref     `json:"volume,omitempty"`
	HasStaffReview            Presence `json:"has_staff_review,omitempty"`
	TeamDisbandedIn           []Ref    `json:"team_disbanded_in,omitempty"`
}

// Title is the issue name, or "Issue #<number>" for unnamed issues.
func (i Issue) Title() string {
	if i.Name != "" {
		return i.Name
	}
	return "Issue #" + i.IssueNumber
}

type Publisher struct {
	Entity
	LocationAddress string `json:"location_address,omitempty"`
	LocationCity    string `json:"location_city,omitempty"`
	LocationState   string `json:"location_state,omitempty"`
	LocationCountry string `json:"location_country,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Characters      []Ref  `json:"characters,omitempty"`
	StoryArcs       []Ref  `json:"story_arcs,omitempty"`
	Teams           []Ref  `json:"teams,omitempty"`
	Volumes         []Ref  `json:"volumes,omitempty"`
}

type StoryArc struct {
	Entity
	CountOfIssueAppearances int        `json:"count_of_issue_appearances,omitempty"`
	FirstAppearedInIssue    *IssueRef  `json:"first_appeared_in_issue,omitempty"`
	Issues                  []IssueRef `json:"issues,omitempty"`
	Movies                  []Ref      `json:"movies,omitempty"`
	Publisher               *Ref       `json:"publisher,omitempty"`
}

type Volume struct {
	Entity
	CountOfIssues   int       `json:"count_of_issues,omitempty"`
	StartYear       string    `json:"start_year,omitempty"`
	Publisher       *Ref      `json:"publisher,omitempty"`
	FirstIssue      *IssueRef `json:"first_issue,omitempty"`
	LastIssue       *IssueRef `json:"last_issue,omitempty"`
	Characters      []Ref     `json:"characters,omitempty"`
	Concepts        []Ref     `json:"concepts,omitempty"`
	LocationCredits []Ref     `json:"location_credits,omitempty"`
	Objects         []Ref     `json:"objects,omitempty"`
	People          []Credit  `json:"people,omitempty"`
	StoryArcs       []Ref     `json:"story_arcs,omitempty"`
	Teams           []Ref     `json:"teams,omitempty"`
}

// SearchResult is the union of fields the search endpoint returns across
// resource types; ResourceType tells which ones apply.
type SearchResult struct {
	Entity
	ResourceType         string    `json:"resource_type"`
	Publisher            *Ref      `json:"publisher,omitempty"`
	Volume               *Ref      `json:"volume,omitempty"`
	StartYear            string    `json:"start_year,omitempty"`
	CountOfIssues        int       `json:"count_of_issues,omitempty"`
	IssueNumber          string    `json:"issue_number,omitempty"`
	CoverDate            string    `json:"cover_date,omitempty"`
	RealName             string    `json:"real_name,omitempty"`
	Role                 string    `json:"role,omitempty"`
	LocationCity         string    `json:"location_city,omitempty"`
	LocationState        string    `json:"location_state,omitempty"`
	FirstAppearedInIssue *IssueRef `json:"first_appeared_in_issue,omitempty"`
}

// Title mirrors Issue.Title for issue search hits.
func (r SearchResult) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return "Issue #" + r.IssueNumber
}

// Envelope is the pagination wrapper every response shares.
type Envelope struct {
	Error                string `json:"error"`
	Limit                int    `json:"limit"`
	Offset               int    `json:"offset"`
	NumberOfPageResults  int    `json:"number_of_page_results"`
	NumberOfTotalResults int    `json:"number_of_total_results"`
	StatusCode           int    `json:"status_code"`
}

// Page is a list response.
type Page[T any] struct {
	Envelope
	Results []T `json:"results"`
}

// Single is a detail response; Results holds the one entity.
type Single[T any] struct {
	Envelope
	Results T `json:"results"`
}

// SearchPage is a search response together with the query that produced it.
type SearchPage struct {
	Page[SearchResult]
	Query     string   `json:"-"`
	Resources []string `json:"-"`
}
