package extract

import (
	"strings"

	"github.com/msto63/sessionkit/internal/literal"
)

const (
	resourcePrefix = "/resources/"
	resourceSuffix = ".pdf"
)

// Resource is one downloadable handout referenced by a session
type Resource struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
}

// IsResourceURL reports whether url has the form /resources/<name>.pdf
func IsResourceURL(url string) bool {
	return len(url) > len(resourcePrefix)+len(resourceSuffix) &&
		strings.HasPrefix(url, resourcePrefix) &&
		strings.HasSuffix(url, resourceSuffix)
}

// Resources returns every object element of arr that has a quoted title
// and a quoted url of the form /resources/<name>.pdf. Other elements are
// skipped.
func Resources(arr *literal.Array) []Resource {
	if arr == nil {
		return nil
	}
	var out []Resource
	for _, elem := range arr.Elems {
		obj, ok := elem.(*literal.Object)
		if !ok {
			continue
		}
		title, ok := String(obj, "title")
		if !ok {
			continue
		}
		url, ok := String(obj, "url")
		if !ok {
			continue
		}
		url = strings.TrimSpace(url)
		if !IsResourceURL(url) {
			continue
		}

		res := Resource{Title: strings.TrimSpace(title), URL: url}
		if desc, ok := String(obj, "description"); ok {
			desc = strings.TrimSpace(desc)
			res.Description = &desc
		}
		out = append(out, res)
	}
	return out
}
