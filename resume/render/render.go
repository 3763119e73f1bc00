package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"resume-studio/resume/model"
	"resume-studio/resume/theme"
)

// Render maps a resume onto a document tree. It performs no I/O, never
// modifies data and returns a structurally identical tree for identical
// inputs. The theme only contributes its accent color. Every array field
// gets a titled section; an empty array leaves the section body empty.
func Render(data model.ResumeData, th theme.Theme) *html.Node {
	b := builder{color: th.PrimaryColor}

	doc := b.el(atom.Article, "document")
	doc.Attr = append(doc.Attr, html.Attribute{Key: "id", Val: "resume-content"})

	doc.AppendChild(b.header(data.Basics))
	if summary := strings.TrimSpace(data.Basics.Summary); summary != "" {
		sec := b.el(atom.Section, "summary")
		sec.AppendChild(b.textEl(atom.P, "", data.Basics.Summary))
		doc.AppendChild(sec)
	}

	doc.AppendChild(b.section("experience", TitleExperience, b.experience(data.Experience)...))
	doc.AppendChild(b.section("education", TitleEducation, b.education(data.Education)...))
	doc.AppendChild(b.section("projects", TitleProjects, b.projects(data.Projects)...))

	cols := b.el(atom.Div, "columns")
	cols.AppendChild(b.section("skills", TitleSkills, b.skills(data.Skills)...))
	cols.AppendChild(b.section("languages", TitleLanguages, b.languages(data.Languages)...))
	doc.AppendChild(cols)

	return doc
}

type builder struct {
	color string
}

func (b builder) el(a atom.Atom, role string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if role == "" {
		return n
	}
	style := StyleMap[role]
	if style.Class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: style.Class})
	}
	if decl := accentDeclaration(style.Accent, b.color); decl != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: decl})
	}
	return n
}

func (b builder) textEl(a atom.Atom, role, text string) *html.Node {
	n := b.el(a, role)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func (b builder) header(basics model.Basics) *html.Node {
	h := b.el(atom.Header, "header")
	h.AppendChild(b.textEl(atom.H1, "name", basics.Name))
	if strings.TrimSpace(basics.Title) != "" {
		h.AppendChild(b.textEl(atom.P, "title", basics.Title))
	}

	var contact []string
	for _, v := range []string{basics.Email, basics.Phone, basics.Location} {
		if strings.TrimSpace(v) != "" {
			contact = append(contact, v)
		}
	}
	if len(contact) > 0 {
		line := b.el(atom.Div, "contact")
		for i, v := range contact {
			if i > 0 {
				line.AppendChild(b.textEl(atom.Span, "separator", contactSeparator))
			}
			line.AppendChild(b.textEl(atom.Span, "", v))
		}
		h.AppendChild(line)
	}
	return h
}

func (b builder) section(key, title string, children ...*html.Node) *html.Node {
	sec := b.el(atom.Section, "section")
	sec.Attr = append(sec.Attr, html.Attribute{Key: "data-section", Val: key})

	rule := b.el(atom.Div, "sectionRule")
	rule.AppendChild(b.textEl(atom.H2, "sectionHeading", title))
	sec.AppendChild(rule)

	for _, c := range children {
		sec.AppendChild(c)
	}
	return sec
}

func (b builder) entryHead(name, meta string) *html.Node {
	head := b.el(atom.Div, "entryHead")
	head.AppendChild(b.textEl(atom.H3, "entryName", name))
	if meta != "" {
		head.AppendChild(b.textEl(atom.Span, "entryMeta", meta))
	}
	return head
}

func (b builder) experience(items []model.Experience) []*html.Node {
	out := make([]*html.Node, 0, len(items))
	for _, exp := range items {
		entry := b.el(atom.Div, "entry")
		entry.AppendChild(b.entryHead(exp.Company, dateRange(exp.StartDate, exp.EndDate)))
		if strings.TrimSpace(exp.Position) != "" {
			entry.AppendChild(b.textEl(atom.Div, "entrySub", exp.Position))
		}
		if len(exp.Responsibilities) > 0 {
			list := b.el(atom.Ul, "bullets")
			for _, r := range exp.Responsibilities {
				list.AppendChild(b.textEl(atom.Li, "", r))
			}
			entry.AppendChild(list)
		}
		out = append(out, entry)
	}
	return out
}

func (b builder) education(items []model.Education) []*html.Node {
	out := make([]*html.Node, 0, len(items))
	for _, edu := range items {
		entry := b.el(atom.Div, "entry")
		entry.AppendChild(b.entryHead(edu.School, dateRange(edu.StartDate, edu.EndDate)))
		if sub := joinNonEmpty(majorSeparator, edu.Degree, edu.Major); sub != "" {
			entry.AppendChild(b.textEl(atom.Div, "entrySub", sub))
		}
		if strings.TrimSpace(edu.Description) != "" {
			entry.AppendChild(b.textEl(atom.P, "entryText", edu.Description))
		}
		out = append(out, entry)
	}
	return out
}

func (b builder) projects(items []model.Project) []*html.Node {
	out := make([]*html.Node, 0, len(items))
	for _, project := range items {
		meta := ""
		if strings.TrimSpace(project.Role) != "" {
			meta = rolePrefix + project.Role
		}
		entry := b.el(atom.Div, "entry")
		entry.AppendChild(b.entryHead(project.Name, meta))
		if strings.TrimSpace(project.Description) != "" {
			entry.AppendChild(b.textEl(atom.P, "entryText", project.Description))
		}
		if len(project.Technologies) > 0 {
			tags := b.el(atom.Div, "tags")
			for _, tech := range project.Technologies {
				tags.AppendChild(b.textEl(atom.Span, "tag", tech))
			}
			entry.AppendChild(tags)
		}
		out = append(out, entry)
	}
	return out
}

func (b builder) skills(items []string) []*html.Node {
	if len(items) == 0 {
		return nil
	}
	chips := b.el(atom.Div, "chips")
	for _, s := range items {
		chips.AppendChild(b.textEl(atom.Span, "chip", s))
	}
	return []*html.Node{chips}
}

func (b builder) languages(items []string) []*html.Node {
	if len(items) == 0 {
		return nil
	}
	list := b.el(atom.Div, "languages")
	for _, lang := range items {
		item := b.el(atom.Div, "language")
		item.AppendChild(b.el(atom.Span, "languageBullet"))
		item.AppendChild(&html.Node{Type: html.TextNode, Data: lang})
		list.AppendChild(item)
	}
	return []*html.Node{list}
}

func dateRange(start, end string) string {
	return joinNonEmpty(dateSeparator, start, end)
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
