package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"resume-studio/resume/model"
	"resume-studio/resume/theme"
)

// HTML serializes the rendered document fragment.
func HTML(data model.ResumeData, th theme.Theme) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, Render(data, th)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Page wraps the rendered document into a standalone printable HTML page.
func Page(data model.ResumeData, th theme.Theme) (string, error) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	root.Attr = []html.Attribute{{Key: "lang", Val: "zh-CN"}}

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)

	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: pageTitle(data.Basics)})
	head.AppendChild(title)

	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: pageCSS})
	head.AppendChild(style)

	body := element(atom.Body)
	body.AppendChild(Render(data, th))

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func pageTitle(basics model.Basics) string {
	name := strings.TrimSpace(basics.Name)
	if name == "" {
		return "简历"
	}
	return name + " - 简历"
}
