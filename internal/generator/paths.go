package generator

import (
	"path"
	"strings"
)

const defaultPostsRoute = "posts"

// postRoute returns the site-relative route of a post detail page.
func postRoute(postsRoute, slug string) string {
	prefix := strings.Trim(strings.TrimSpace(postsRoute), "/")
	if prefix == "" {
		prefix = defaultPostsRoute
	}
	return "/" + path.Join(prefix, slug)
}

// buildOutputPath maps a route to the index.html file that serves it.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

func joinOutputPath(baseDir, rel string) string {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" || baseDir == "." {
		return path.Clean(rel)
	}
	return path.Join(baseDir, rel)
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

// absoluteURL prefixes route with the site base URL. Routes that already
// carry a scheme are returned untouched.
func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if strings.HasPrefix(normalized, "http://") || strings.HasPrefix(normalized, "https://") {
		return normalized
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}
