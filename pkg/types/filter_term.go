package types

// SearchQueryType is the category of the synthetic term that represents the free-text query.
const SearchQueryType = "search_query"

type FilterTerm struct {
	Type  string `json:"type"`
	Query string `json:"query"`
	Name  string `json:"name"`
}

func (t FilterTerm) Valid() bool {
	return t.Type != "" && t.Query != "" && t.Name != ""
}

func (t FilterTerm) IsSearchQuery() bool {
	return t.Type == SearchQueryType
}

// QueryTerm builds the filter bar entry shown for an active free-text query.
func QueryTerm(query string) FilterTerm {
	return FilterTerm{
		Type:  SearchQueryType,
		Query: query,
		Name:  "\"" + query + "\"",
	}
}
