package lexical

import (
	"strings"
)

// StyleMap represents parsed inline CSS of a text node
type StyleMap map[string]string

// annotatedStyles are kept in Markdown output, in this order
var annotatedStyles = []string{"color", "background-color"}

// ParseStyle parses a CSS style string into a map.
// Example: "color: #F97316; background-color: #BFDBFE;"
func ParseStyle(styleStr string) StyleMap {
	styles := make(StyleMap)
	if styleStr == "" {
		return styles
	}

	for _, part := range strings.Split(styleStr, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			styles[k] = v
		}
	}
	return styles
}

// BuildAnnotatedOpenTag returns an opening span carrying the highlight colors a cook
// applied to a step, or "" when there is nothing worth keeping.
func (s StyleMap) BuildAnnotatedOpenTag() string {
	var relevant []string
	for _, k := range annotatedStyles {
		if v, ok := s[k]; ok {
			relevant = append(relevant, k+":"+v)
		}
	}

	if len(relevant) == 0 {
		return ""
	}

	return "<span style=\"" + strings.Join(relevant, "; ") + "\">"
}
