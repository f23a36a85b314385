package types

import (
	"maps"
	"strconv"
)

const (
	IdField         = "id"
	CourseTypeField = "course_type"
)

// CourseCard is one result document as shown in the listing.
type CourseCard struct {
	Id         string         `json:"id"`
	CourseType string         `json:"course_type"`
	Attributes map[string]any `json:"attributes"`
}

func NewCourseCard(data map[string]any) CourseCard {
	return CourseCard{
		Id:         attributeString(data[IdField]),
		CourseType: attributeString(data[CourseTypeField]),
		Attributes: maps.Clone(data),
	}
}

// Values returns the string values of an attribute. Multi-valued attributes
// yield one entry per element, missing or nil attributes yield none.
func (c CourseCard) Values(field string) []string {
	v, ok := c.Attributes[field]
	if !ok || v == nil {
		return nil
	}
	switch list := v.(type) {
	case []any:
		ret := make([]string, 0, len(list))
		for _, item := range list {
			if s := attributeString(item); s != "" {
				ret = append(ret, s)
			}
		}
		return ret
	case []string:
		ret := make([]string, 0, len(list))
		for _, s := range list {
			if s != "" {
				ret = append(ret, s)
			}
		}
		return ret
	}
	if s := attributeString(v); s != "" {
		return []string{s}
	}
	return nil
}

func attributeString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint:
		return strconv.FormatUint(uint64(value), 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	}
	return ""
}
