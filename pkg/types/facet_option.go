package types

type FacetOption struct {
	Facet string `json:"facet"`
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type FacetOptionKey struct {
	Facet string
	Term  string
}

func (o FacetOption) Key() FacetOptionKey {
	return FacetOptionKey{Facet: o.Facet, Term: o.Term}
}
