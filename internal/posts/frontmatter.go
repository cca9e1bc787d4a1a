package posts

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type frontMatter struct {
	Title         string     `yaml:"title" json:"title"`
	Date          string     `yaml:"date" json:"date"`
	Author        authorMeta `yaml:"author" json:"author"`
	CoverImage    string     `yaml:"coverImage" json:"coverImage"`
	CoverImageAlt string     `yaml:"coverImageAlt" json:"coverImageAlt"`
	Excerpt       string     `yaml:"excerpt" json:"excerpt"`
}

type authorMeta struct {
	Name    string `yaml:"name" json:"name"`
	Picture string `yaml:"picture" json:"picture"`
}

// Validate enforces the required frontmatter keys.
func (fm frontMatter) Validate() error {
	return validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required),
		validation.Field(&fm.Date, validation.Required, validation.By(isDate)),
		validation.Field(&fm.Author),
		validation.Field(&fm.CoverImage, validation.Required),
		validation.Field(&fm.CoverImageAlt, validation.Required),
		validation.Field(&fm.Excerpt, validation.Required),
	)
}

// Validate requires both author fields.
func (a authorMeta) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Picture, validation.Required),
	)
}

func isDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := ParseDate(s); err != nil {
		return validation.NewError("validation_is_iso_date", "must be an ISO-8601 date")
	}
	return nil
}

func (fm *frontMatter) trim() {
	fm.Title = strings.TrimSpace(fm.Title)
	fm.Date = strings.TrimSpace(fm.Date)
	fm.Author.Name = strings.TrimSpace(fm.Author.Name)
	fm.Author.Picture = strings.TrimSpace(fm.Author.Picture)
	fm.CoverImage = strings.TrimSpace(fm.CoverImage)
	fm.CoverImageAlt = strings.TrimSpace(fm.CoverImageAlt)
	fm.Excerpt = strings.TrimSpace(fm.Excerpt)
}

// parseFrontMatter splits source into a validated frontmatter block and the
// Markdown body. A missing block is an error.
func parseFrontMatter(source []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(source), &meta)
	if err != nil {
		return frontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	meta.trim()
	if err := meta.Validate(); err != nil {
		return frontMatter{}, nil, err
	}
	return meta, body, nil
}

// buildPost assembles a Post from validated frontmatter. The body is kept
// as raw Markdown.
func buildPost(slug, path string, meta frontMatter, body []byte) (*interfaces.Post, error) {
	published, err := ParseDate(meta.Date)
	if err != nil {
		return nil, err
	}
	return &interfaces.Post{
		Slug:          slug,
		Title:         meta.Title,
		Excerpt:       meta.Excerpt,
		Date:          meta.Date,
		Author:        interfaces.Author{Name: meta.Author.Name, Picture: meta.Author.Picture},
		CoverImage:    meta.CoverImage,
		CoverImageAlt: meta.CoverImageAlt,
		Content:       string(body),
		PublishedAt:   published,
		SourcePath:    path,
	}, nil
}
