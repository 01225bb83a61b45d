package schema

// Selectable field_list entries per resource type.
var (
	CharacterFields = []string{
		"aliases", "api_detail_url", "birth", "character_enemies", "character_friends",
		"count_of_issue_appearances", "creators", "date_added", "date_last_updated",
		"deck", "description", "first_appeared_in_issue", "gender", "id", "image",
		"issues_died_in", "movies", "name", "origin", "powers", "publisher", "real_name",
		"team_enemies", "team_friends", "teams", "volume_credits",
	}

	IssueFields = []string{
		"aliases", "api_detail_url", "character_credits", "concept_credits",
		"cover_date", "date_added", "date_last_updated", "deck", "description",
		"first_appearance_characters", "first_appearance_concepts",
		"first_appearance_locations", "first_appearance_objects",
		"first_appearance_storyarcs", "first_appearance_teams", "has_staff_review",
		"id", "image", "issue_number", "location_credits", "name", "object_credits",
		"person_credits", "site_detail_url", "store_date", "story_arc_credits",
		"team_credits", "team_disbanded_in", "volume",
	}

	PublisherFields = []string{
		"aliases", "api_detail_url", "characters", "date_added", "date_last_updated",
		"deck", "description", "id", "image", "location_address", "location_city",
		"location_state", "location_country", "name", "site_detail_url", "story_arcs",
		"teams", "volumes", "email", "phone",
	}

	StoryArcFields = []string{
		"aliases", "api_detail_url", "count_of_issue_appearances", "date_added",
		"date_last_updated", "deck", "description", "first_appeared_in_issue", "id",
		"image", "issues", "movies", "name", "publisher", "site_detail_url",
	}

	VolumeFields = []string{
		"aliases", "api_detail_url", "characters", "concepts", "count_of_issues",
		"date_added", "date_last_updated", "deck", "description", "first_issue",
		"id", "image", "last_issue", "location_credits", "name", "publisher",
		"site_detail_url", "start_year", "objects", "people", "story_arcs", "teams",
	}

	// SearchResources restricts the search "resources" argument.
	SearchResources = []string{
		"character", "issue", "publisher", "story_arc", "volume",
		"team", "person", "concept", "object", "location",
	}
)
