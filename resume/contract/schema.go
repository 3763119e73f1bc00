package contract

// Type is the JSON type of a schema node.
type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
)

// Schema is a provider-neutral description of the JSON the generation
// service must return. It is sent to the model and enforced locally by Decode.
type Schema struct {
	Type       Type
	Properties []Property
	Required   []string
	Items      *Schema
}

// Property is a named member of an object schema. Properties keep
// declaration order so requests and error reports are stable.
type Property struct {
	Name   string
	Schema *Schema
}

// IsRequired reports whether name is listed as required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ResumeSchema mirrors model.ResumeData field for field.
var ResumeSchema = object(
	[]string{"basics", "education", "experience", "projects", "skills", "languages"},
	prop("basics", object(
		[]string{"name", "email", "phone", "location", "title", "summary"},
		prop("name", str()),
		prop("email", str()),
		prop("phone", str()),
		prop("location", str()),
		prop("title", str()),
		prop("summary", str()),
	)),
	prop("education", array(object(
		[]string{"school", "degree", "major", "startDate", "endDate"},
		prop("school", str()),
		prop("degree", str()),
		prop("major", str()),
		prop("startDate", str()),
		prop("endDate", str()),
		prop("description", str()),
	))),
	prop("experience", array(object(
		[]string{"company", "position", "startDate", "endDate", "responsibilities"},
		prop("company", str()),
		prop("position", str()),
		prop("startDate", str()),
		prop("endDate", str()),
		prop("responsibilities", array(str())),
	))),
	prop("projects", array(object(
		[]string{"name", "role", "description", "technologies"},
		prop("name", str()),
		prop("role", str()),
		prop("description", str()),
		prop("technologies", array(str())),
	))),
	prop("skills", array(str())),
	prop("languages", array(str())),
)

func object(required []string, props ...Property) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

func array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func str() *Schema {
	return &Schema{Type: TypeString}
}

func prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}
