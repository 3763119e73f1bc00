package render

// Accent marks which CSS property of an element takes the theme color.
type Accent int

const (
	AccentNone Accent = iota
	AccentText
	AccentBorder
	AccentFill
)

// ElementStyle captures the class and accent behaviour of a document role.
type ElementStyle struct {
	Class  string
	Accent Accent
}

// Section titles, in render order.
const (
	TitleExperience = "工作经历"
	TitleEducation  = "教育背景"
	TitleProjects   = "项目经验"
	TitleSkills     = "核心技能"
	TitleLanguages  = "语言能力"

	contactSeparator = "•"
	rolePrefix       = "角色: "
	dateSeparator    = " - "
	majorSeparator   = " · "
)

// StyleMap centralizes the formatting for key resume elements. Only roles
// with an Accent change between themes.
var StyleMap = map[string]ElementStyle{
	"document":       {Class: "resume"},
	"header":         {Class: "resume-header"},
	"name":           {Class: "resume-name"},
	"title":          {Class: "resume-title", Accent: AccentText},
	"contact":        {Class: "resume-contact"},
	"separator":      {Class: "resume-contact-sep"},
	"summary":        {Class: "resume-summary"},
	"section":        {Class: "resume-section"},
	"sectionRule":    {Class: "section-title", Accent: AccentBorder},
	"sectionHeading": {Class: "section-heading", Accent: AccentText},
	"entry":          {Class: "entry"},
	"entryHead":      {Class: "entry-head"},
	"entryName":      {Class: "entry-name"},
	"entryMeta":      {Class: "entry-meta"},
	"entrySub":       {Class: "entry-sub"},
	"entryText":      {Class: "entry-text"},
	"bullets":        {Class: "entry-list"},
	"tags":           {Class: "tags"},
	"tag":            {Class: "tag"},
	"columns":        {Class: "resume-columns"},
	"chips":          {Class: "chips"},
	"chip":           {Class: "chip"},
	"languages":      {Class: "lang-list"},
	"language":       {Class: "lang-item"},
	"languageBullet": {Class: "lang-bullet", Accent: AccentFill},
}

func accentDeclaration(a Accent, color string) string {
	switch a {
	case AccentText:
		return "color:" + color
	case AccentBorder:
		return "border-color:" + color
	case AccentFill:
		return "background-color:" + color
	default:
		return ""
	}
}

const pageCSS = `@page { size: A4; margin: 12mm; }
* { box-sizing: border-box; }
body { margin: 0; background: #e2e8f0; color: #1e293b; font-family: 'Noto Sans SC', sans-serif; }
.resume { background: #fff; margin: 0 auto; padding: 40px; max-width: 800px; min-height: 1120px; }
.resume-header { text-align: center; margin-bottom: 32px; }
.resume-name { font-size: 36px; font-weight: 700; margin: 0 0 8px; }
.resume-title { font-size: 18px; font-weight: 500; margin: 0 0 12px; }
.resume-contact { display: flex; justify-content: center; gap: 16px; font-size: 14px; color: #64748b; }
.resume-summary p { font-size: 14px; line-height: 1.6; color: #475569; font-style: italic; }
.section-title { border-bottom: 2px solid; margin: 24px 0 16px; padding-bottom: 4px; }
.section-heading { font-size: 18px; font-weight: 700; letter-spacing: 0.05em; margin: 0; }
.entry { margin-bottom: 16px; }
.entry-head { display: flex; justify-content: space-between; align-items: baseline; }
.entry-name { font-size: 16px; font-weight: 700; color: #0f172a; margin: 0; }
.entry-meta { font-size: 12px; font-weight: 600; color: #64748b; }
.entry-sub { font-size: 14px; font-style: italic; color: #334155; margin: 4px 0 8px; }
.entry-text { font-size: 14px; color: #475569; margin: 0 0 4px; }
.entry-list { font-size: 14px; color: #475569; padding-left: 18px; margin: 0; }
.tags, .chips { display: flex; flex-wrap: wrap; gap: 8px; }
.tag { font-size: 10px; background: #f1f5f9; color: #475569; padding: 2px 8px; border: 1px solid #e2e8f0; border-radius: 4px; }
.chip { font-size: 14px; background: #f8fafc; color: #334155; padding: 4px 12px; border: 1px solid #e2e8f0; border-radius: 9999px; }
.resume-columns { display: grid; grid-template-columns: 1fr 1fr; gap: 32px; }
.lang-item { display: flex; align-items: center; gap: 8px; font-size: 14px; color: #334155; }
.lang-bullet { display: inline-block; width: 6px; height: 6px; border-radius: 9999px; }
@media print {
  body { background: #fff; }
  .resume { padding: 0; min-height: auto; max-width: none; }
}
`
