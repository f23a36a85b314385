package facet

import "github.com/matst80/slask-discovery/pkg/types"

// Predicate selects the documents of a page that stay visible and names the
// facet terms that lose their meaning once the others are hidden.
type Predicate interface {
	Include(card types.CourseCard) bool
	Strip(facet, term string) bool
}

type allDocuments struct{}

func (allDocuments) Include(types.CourseCard) bool { return true }
func (allDocuments) Strip(string, string) bool     { return false }

// AllDocuments keeps every document and every facet term.
var AllDocuments Predicate = allDocuments{}

type courseTypePredicate struct {
	courseType string
	only       bool
}

func (p courseTypePredicate) Include(card types.CourseCard) bool {
	return (card.CourseType == p.courseType) == p.only
}

func (p courseTypePredicate) Strip(facet, term string) bool {
	if facet != types.CourseTypeField {
		return false
	}
	// every visible document shares the type, the whole category is noise
	if p.only {
		return true
	}
	return term == p.courseType
}

// OnlyCourseType keeps documents of the given course type.
func OnlyCourseType(courseType string) Predicate {
	return courseTypePredicate{courseType: courseType, only: true}
}

// ExcludeCourseType hides documents of the given course type.
func ExcludeCourseType(courseType string) Predicate {
	return courseTypePredicate{courseType: courseType, only: false}
}

const VideoCourseType = "video"

// ForView returns the predicate used by a named listing view: "videos" lists
// only video courses, "courses" everything but videos, anything else is unfiltered.
func ForView(view string) Predicate {
	switch view {
	case "videos":
		return OnlyCourseType(VideoCourseType)
	case "courses":
		return ExcludeCourseType(VideoCourseType)
	}
	return AllDocuments
}

// Survivors returns the cards the predicate keeps, in order.
func Survivors(cards []types.CourseCard, p Predicate) []types.CourseCard {
	ret := make([]types.CourseCard, 0, len(cards))
	for _, card := range cards {
		if p.Include(card) {
			ret = append(ret, card)
		}
	}
	return ret
}
