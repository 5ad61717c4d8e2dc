package server

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"linkedin_post_automation/form"
)

//go:embed web/templates/*.tmpl
var templateFS embed.FS

// loadTemplates parses the embedded page templates, keyed by page name.
func loadTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"join":     strings.Join,
		"title":    titleCase,
		"selected": func(a, b string) bool { return a == b },
	}

	about, err := template.New("about").Funcs(funcs).ParseFS(templateFS, "web/templates/base.tmpl", "web/templates/about.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse about templates: %w", err)
	}
	composer, err := template.New("compose").Funcs(funcs).ParseFS(templateFS, "web/templates/base.tmpl", "web/templates/compose.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse compose templates: %w", err)
	}

	return map[string]*template.Template{
		"about":   about,
		"compose": composer,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type navLink struct {
	Href   string
	Label  string
	Active bool
}

func navigation(active string) []navLink {
	links := []navLink{{Href: "/", Label: "About", Active: active == ""}}
	for _, ct := range form.ContentTypes {
		links = append(links, navLink{
			Href:   "/" + string(ct),
			Label:  titleCase(string(ct)),
			Active: active == string(ct),
		})
	}
	return links
}
