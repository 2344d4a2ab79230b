package ghfetch

import (
	"fmt"
	"strings"
)

// parseLinkHeader extracts the page number of the given rel from a GitHub
// Link header such as:
//
//	<https://api.github.com/repos/o/r/commits?per_page=1&page=42>; rel="last"
//
// It returns false when the rel is missing or carries no page parameter.
func parseLinkHeader(linkHeader, rel string) (int, bool) {
	relPattern := fmt.Sprintf(`rel="%s"`, rel)
	for _, link := range strings.Split(linkHeader, ",") {
		if !strings.Contains(link, relPattern) {
			continue
		}
		target, _, _ := strings.Cut(link, ";")
		target = strings.Trim(strings.TrimSpace(target), "<>")
		query := target
		if _, q, ok := strings.Cut(target, "?"); ok {
			query = q
		}
		for _, param := range strings.Split(query, "&") {
			if key, val, ok := strings.Cut(param, "="); ok && key == "page" {
				var page int
				if _, err := fmt.Sscanf(val, "%d", &page); err == nil {
					return page, true
				}
			}
		}
	}
	return 0, false
}

// commitCountFrom infers a repository's commit count from a per_page=1
// listing. The last page number equals the total count. Without a usable
// Link header the count falls back to the entries on the returned page,
// which is exact only for repositories with zero or one commit.
func commitCountFrom(linkHeader string, pageLen int) int {
	if last, ok := parseLinkHeader(linkHeader, "last"); ok && last > 0 {
		return last
	}
	return pageLen
}
