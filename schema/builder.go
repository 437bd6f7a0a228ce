package schema

import (
	"bytes"
	"html/template"
)

// The builder surface: one editable card per field, in schema order, plus
// a picker of addable kinds grouped by category. Cards expose the same
// live preview for content kinds that RenderPublicForm produces, by
// executing the very same templates.

type builderCard struct {
	Field
	First   bool
	Last    bool
	Preview template.HTML
}

type pickerGroup struct {
	Title string
	Kinds []Kind
}

type builderView struct {
	Cards  []builderCard
	Picker []pickerGroup
}

func pickerGroups() []pickerGroup {
	return []pickerGroup{
		{"Form Fields", []Kind{Text, Textarea, Email, Phone, Number, File, Date, Time, Url}},
		{"Choice Fields", []Kind{Select, Radio, Checkbox}},
		{"Content Elements", []Kind{Label, Image, Link}},
	}
}

// RenderBuilder turns a schema into the editable authoring surface.
// Mutations flow back through the field endpoints; this renderer only
// reflects current values.
func RenderBuilder(s Schema) (template.HTML, error) {
	view := builderView{Picker: pickerGroups()}

	for i, f := range s {
		card := builderCard{
			Field: f,
			First: i == 0,
			Last:  i == len(s)-1,
		}
		if f.Kind.IsContent() {
			preview, err := renderField(f, nil)
			if err != nil {
				return "", err
			}
			card.Preview = preview
		}
		view.Cards = append(view.Cards, card)
	}

	var buf bytes.Buffer
	err := builderTemplates.ExecuteTemplate(&buf, "builder", view)
	return template.HTML(buf.String()), err
}

var builderTemplates = template.Must(template.Must(formTemplates.Clone()).Parse(builderTemplateText))

const builderTemplateText = `
{{define "card_actions"}}<div class="card-actions"><button type="button" class="move-up" data-field="{{.ID}}"{{if .First}} disabled{{end}}>↑</button><button type="button" class="move-down" data-field="{{.ID}}"{{if .Last}} disabled{{end}}>↓</button><button type="button" class="duplicate" data-field="{{.ID}}">⧉</button><button type="button" class="delete" data-field="{{.ID}}">🗑</button></div>{{end}}

{{define "options_editor"}}<div class="options-editor"><span class="field-label">Options</span>{{range $i, $opt := .Options}}<div class="option-row"><input type="text" name="option" value="{{$opt}}" data-index="{{$i}}"><button type="button" class="remove-option" data-field="{{$.ID}}" data-index="{{$i}}">🗑</button></div>{{end}}<button type="button" class="add-option" data-field="{{.ID}}">+ Add Option</button></div>{{end}}

{{define "input_card_body"}}<div class="card-body"><label>Field Label<input type="text" name="label" value="{{.Label}}"></label>{{if not .Kind.IsChoice}}<label>Placeholder Text<input type="text" name="placeholder" value="{{str .Placeholder}}"></label>{{end}}{{if .Kind.IsChoice}}{{template "options_editor" .}}{{end}}<label>Help Text<input type="text" name="helpText" value="{{str .HelpText}}"></label>{{if eq .Kind "file"}}<label>Accepted File Types<select name="acceptedFileTypes"><option value="*"{{if eq (str .AcceptedFileTypes) "*"}} selected{{end}}>All Files</option><option value="image/*"{{if eq (str .AcceptedFileTypes) "image/*"}} selected{{end}}>Images Only</option><option value=".pdf"{{if eq (str .AcceptedFileTypes) ".pdf"}} selected{{end}}>PDF Only</option><option value="image/*,.pdf"{{if eq (str .AcceptedFileTypes) "image/*,.pdf"}} selected{{end}}>Images and PDF</option><option value=".doc,.docx"{{if eq (str .AcceptedFileTypes) ".doc,.docx"}} selected{{end}}>Word Documents</option><option value=".xls,.xlsx"{{if eq (str .AcceptedFileTypes) ".xls,.xlsx"}} selected{{end}}>Excel Files</option></select></label>{{end}}<label class="required-toggle"><input type="checkbox" name="required"{{if .Required}} checked{{end}}> Required field</label></div>{{end}}

{{define "label_card_body"}}<div class="card-body"><label>Content/Description<textarea name="content" rows="4">{{str .Content}}</textarea></label><p class="help-text">You can include links using markdown: [Link Text](https://example.com)</p><label>Font Size<select name="fontSize"><option value="small"{{if eq (str .FontSize) "small"}} selected{{end}}>Small</option><option value="medium"{{if eq (str .FontSize) "medium"}} selected{{end}}>Medium</option><option value="large"{{if eq (str .FontSize) "large"}} selected{{end}}>Large</option><option value="xl"{{if eq (str .FontSize) "xl"}} selected{{end}}>Extra Large</option></select></label><label>Alignment<select name="alignment"><option value="left"{{if eq (str .Alignment) "left"}} selected{{end}}>Left</option><option value="center"{{if eq (str .Alignment) "center"}} selected{{end}}>Center</option><option value="right"{{if eq (str .Alignment) "right"}} selected{{end}}>Right</option></select></label></div>{{end}}

{{define "image_card_body"}}<div class="card-body"><label>Image URL<input type="url" name="imageUrl" value="{{str .ImageUrl}}"></label><label>Alt Text (Optional)<input type="text" name="altText" value="{{str .AltText}}"></label><label>Alignment<select name="alignment"><option value="left"{{if eq (str .Alignment) "left"}} selected{{end}}>Left</option><option value="center"{{if eq (str .Alignment) "center"}} selected{{end}}>Center</option><option value="right"{{if eq (str .Alignment) "right"}} selected{{end}}>Right</option></select></label><button type="button" class="upload-image" data-field="{{.ID}}">Upload Image</button></div>{{end}}

{{define "link_card_body"}}<div class="card-body"><label>Link URL<input type="url" name="linkUrl" value="{{str .LinkUrl}}"></label><label>Link Text<input type="text" name="linkText" value="{{str .LinkText}}"></label><label><input type="checkbox" name="openInNewTab"{{if flag .OpenInNewTab}} checked{{end}}> Open in new tab</label><label>Button Style<select name="buttonStyle"><option value="primary"{{if eq (str .ButtonStyle) "primary"}} selected{{end}}>Primary Button</option><option value="secondary"{{if eq (str .ButtonStyle) "secondary"}} selected{{end}}>Secondary Button</option><option value="outline"{{if eq (str .ButtonStyle) "outline"}} selected{{end}}>Outline Button</option><option value="link"{{if eq (str .ButtonStyle) "link"}} selected{{end}}>Text Link</option></select></label></div>{{end}}

{{define "card"}}<div class="builder-card" data-field="{{.ID}}" data-kind="{{.Kind}}"><div class="card-header"><span class="kind-icon">{{.Kind.Icon}}</span><span class="kind-name">{{.Kind.DisplayName}}</span>{{template "card_actions" .}}</div>{{if .Kind.IsContent}}{{if eq .Kind "label"}}{{template "label_card_body" .}}{{else if eq .Kind "image"}}{{template "image_card_body" .}}{{else}}{{template "link_card_body" .}}{{end}}<div class="card-preview">{{.Preview}}</div>{{else}}{{template "input_card_body" .}}{{end}}</div>{{end}}

{{define "builder"}}<div class="form-builder">{{range .Cards}}{{template "card" .}}{{end}}{{if not .Cards}}<div class="builder-empty"><p>No form fields added yet. Click "Add Field" to get started.</p></div>{{end}}<div class="field-picker">{{range .Picker}}<div class="picker-group"><h4>{{.Title}}</h4><div class="picker-kinds">{{range .Kinds}}<button type="button" class="add-field" data-kind="{{.}}"><span class="kind-icon">{{.Icon}}</span> {{.DisplayName}}</button>{{end}}</div></div>{{end}}</div></div>{{end}}
`
