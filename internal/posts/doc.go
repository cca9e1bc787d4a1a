// Package posts loads blog posts from a directory of Markdown files with a
// YAML frontmatter block. The filename without its extension is the post
// slug. Loading is read-only and holds no state between calls, so a single
// Loader can serve concurrent callers.
package posts
