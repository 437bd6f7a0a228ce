package schema

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
)

var reMarkdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// RenderMarkdownLinks interprets the markdown-lite [text](url) syntax into
// anchor elements, escaping everything else. Both the builder preview and
// the public form go through here, so the two can never diverge.
func RenderMarkdownLinks(text string) template.HTML {
	var b strings.Builder
	last := 0
	for _, m := range reMarkdownLink.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(template.HTMLEscapeString(text[last:m[0]]))
		linkText := text[m[2]:m[3]]
		url := text[m[4]:m[5]]
		b.WriteString(`<a href="` + template.HTMLEscapeString(url) +
			`" target="_blank" rel="noopener noreferrer">` +
			template.HTMLEscapeString(linkText) + `</a>`)
		last = m[1]
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))
	return template.HTML(b.String())
}

func fontSizeClass(size string) string {
	switch size {
	case "small":
		return "text-sm"
	case "large":
		return "text-lg"
	case "xl":
		return "text-xl"
	}
	return "text-base"
}

func alignmentClass(alignment string) string {
	switch alignment {
	case "center":
		return "text-center"
	case "right":
		return "text-right"
	}
	return "text-left"
}

func buttonClass(style string) string {
	switch style {
	case "secondary":
		return "btn btn-secondary"
	case "outline":
		return "btn btn-outline"
	case "link":
		return "btn-link"
	}
	return "btn btn-primary"
}

var formTemplates = template.Must(template.
	New("form").
	Funcs(template.FuncMap{
		"str": func(p *string) string {
			if p == nil {
				return ""
			}
			return *p
		},
		"flag": func(p *bool) bool {
			return p != nil && *p
		},
		"mdlinks":    RenderMarkdownLinks,
		"fontClass":  fontSizeClass,
		"alignClass": alignmentClass,
		"btnClass":   buttonClass,
		"inputType":  func(k Kind) string { return k.inputType() },
		"checked": func(selected []string, option string) bool {
			for _, s := range selected {
				if s == option {
					return true
				}
			}
			return false
		},
	}).
	Parse(formTemplateText))

type fieldView struct {
	Field
	Value    string
	Selected []string
}

// RenderPublicForm materializes one interactive control per input field and
// one static display per content field, in schema order, pre-filled from
// the response map. Missing attributes (e.g. absent options) render an
// empty but working control.
func RenderPublicForm(s Schema, resp Responses) (template.HTML, error) {
	var b strings.Builder
	for _, f := range s {
		html, err := renderField(f, resp)
		if err != nil {
			return "", err
		}
		b.WriteString(string(html))
	}
	return template.HTML(b.String()), nil
}

// renderField dispatches on the kind partition first, then on the kind
// itself. The switch is exhaustive over Kind: a new kind will not render
// until it gets a case here.
func renderField(f Field, resp Responses) (template.HTML, error) {
	view := fieldView{Field: f}

	var name string
	switch f.Kind {
	case Label:
		name = "label"
	case Image:
		name = "image"
	case Link:
		name = "link"
	case Text, Email, Phone, Number, Date, Time, Url:
		name = "input"
		view.Value, _ = resp[f.ID].(string)
	case Textarea:
		name = "textarea"
		view.Value, _ = resp[f.ID].(string)
	case Select:
		name = "select"
		view.Value, _ = resp[f.ID].(string)
	case Radio:
		name = "radio"
		view.Value, _ = resp[f.ID].(string)
	case Checkbox:
		name = "checkbox"
		view.Selected = toStrings(resp[f.ID])
	case File:
		name = "file"
	default:
		return "", ErrInvalidKind
	}

	var buf bytes.Buffer
	err := formTemplates.ExecuteTemplate(&buf, name, view)
	return template.HTML(buf.String()), err
}

func toStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

const formTemplateText = `
{{define "required"}}{{if .Required}} <span class="required">*</span>{{end}}{{end}}

{{define "help"}}{{with str .HelpText}}<p class="help-text">{{.}}</p>{{end}}{{end}}

{{define "input"}}<div class="form-field"><label for="{{.ID}}">{{.Label}}{{template "required" .}}</label><input type="{{inputType .Kind}}" id="{{.ID}}" name="{{.ID}}" value="{{.Value}}"{{with str .Placeholder}} placeholder="{{.}}"{{end}}{{if .Required}} required{{end}}>{{template "help" .}}</div>{{end}}

{{define "textarea"}}<div class="form-field"><label for="{{.ID}}">{{.Label}}{{template "required" .}}</label><textarea id="{{.ID}}" name="{{.ID}}" rows="4"{{with str .Placeholder}} placeholder="{{.}}"{{end}}{{if .Required}} required{{end}}>{{.Value}}</textarea>{{template "help" .}}</div>{{end}}

{{define "select"}}<div class="form-field"><label for="{{.ID}}">{{.Label}}{{template "required" .}}</label><select id="{{.ID}}" name="{{.ID}}"{{if .Required}} required{{end}}><option value="">Select an option</option>{{range .Options}}<option value="{{.}}"{{if eq . $.Value}} selected{{end}}>{{.}}</option>{{end}}</select>{{template "help" .}}</div>{{end}}

{{define "radio"}}<div class="form-field"><span class="field-label">{{.Label}}{{template "required" .}}</span>{{range $i, $opt := .Options}}<div class="choice"><input type="radio" id="{{$.ID}}-{{$i}}" name="{{$.ID}}" value="{{$opt}}"{{if eq $opt $.Value}} checked{{end}}{{if $.Required}} required{{end}}><label for="{{$.ID}}-{{$i}}">{{$opt}}</label></div>{{end}}{{template "help" .}}</div>{{end}}

{{define "checkbox"}}<div class="form-field"><span class="field-label">{{.Label}}{{template "required" .}}</span>{{range $i, $opt := .Options}}<div class="choice"><input type="checkbox" id="{{$.ID}}-{{$i}}" name="{{$.ID}}" value="{{$opt}}"{{if checked $.Selected $opt}} checked{{end}}><label for="{{$.ID}}-{{$i}}">{{$opt}}</label></div>{{end}}{{template "help" .}}</div>{{end}}

{{define "file"}}<div class="form-field"><label for="{{.ID}}">{{.Label}}{{template "required" .}}</label><input type="file" id="{{.ID}}" name="{{.ID}}"{{with str .AcceptedFileTypes}} accept="{{.}}"{{end}}{{if .Required}} required{{end}}>{{template "help" .}}</div>{{end}}

{{define "label"}}<div class="form-content {{alignClass (str .Alignment)}}"><div class="{{fontClass (str .FontSize)}}">{{mdlinks (str .Content)}}</div></div>{{end}}

{{define "image"}}{{with str .ImageUrl}}<div class="form-content {{alignClass (str $.Alignment)}}"><img src="{{.}}" alt="{{str $.AltText}}"></div>{{end}}{{end}}

{{define "link"}}<div class="form-content"><a href="{{with str .LinkUrl}}{{.}}{{else}}#{{end}}" class="{{btnClass (str .ButtonStyle)}}"{{if flag .OpenInNewTab}} target="_blank" rel="noopener noreferrer"{{end}}>{{with str .LinkText}}{{.}}{{else}}Click here{{end}}</a></div>{{end}}
`
