package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownLinks(t *testing.T) {
	html := string(RenderMarkdownLinks("See [here](https://x.test) for details"))

	assert.Equal(t,
		`See <a href="https://x.test" target="_blank" rel="noopener noreferrer">here</a> for details`,
		html)
}

func TestRenderMarkdownLinks_EscapesEverythingElse(t *testing.T) {
	html := string(RenderMarkdownLinks(`<b>bold</b> & [docs](https://docs.test)`))

	assert.NotContains(t, html, "<b>")
	assert.Contains(t, html, "&lt;b&gt;")
	assert.Contains(t, html, `<a href="https://docs.test"`)
}

func TestRenderMarkdownLinks_PlainText(t *testing.T) {
	assert.Equal(t, "no links here", string(RenderMarkdownLinks("no links here")))
}

func TestRenderPublicForm_InputKinds(t *testing.T) {
	email := labeled(t, Email, "Email", true)
	html := renderOne(t, email, nil)

	assert.Contains(t, html, `type="email"`)
	assert.Contains(t, html, `name="`+email.ID+`"`)
	assert.Contains(t, html, `required`)
	assert.Contains(t, html, "Email")

	phone := labeled(t, Phone, "Phone", false)
	html = renderOne(t, phone, nil)
	assert.Contains(t, html, `type="tel"`)
	assert.NotContains(t, html, "required")
}

func TestRenderPublicForm_PrefillsValues(t *testing.T) {
	name := labeled(t, Text, "Full Name", true)
	html := renderOne(t, name, Responses{name.ID: "Ada Lovelace"})

	assert.Contains(t, html, `value="Ada Lovelace"`)
}

func TestRenderPublicForm_Select(t *testing.T) {
	f := labeled(t, Select, "Branch", true)
	f.Options = []string{"CSE", "ECE"}

	html := renderOne(t, f, Responses{f.ID: "ECE"})

	assert.Contains(t, html, `<option value="CSE">CSE</option>`)
	assert.Contains(t, html, `<option value="ECE" selected>ECE</option>`)
	assert.Contains(t, html, `<option value="">Select an option</option>`)
}

func TestRenderPublicForm_SelectWithoutOptions(t *testing.T) {
	f := labeled(t, Select, "Branch", false)
	f.Options = nil

	html := renderOne(t, f, nil)

	assert.Contains(t, html, "<select")
	assert.NotContains(t, html, `<option value="CSE"`)
}

func TestRenderPublicForm_Checkbox(t *testing.T) {
	f := labeled(t, Checkbox, "Interests", false)
	f.Options = []string{"Coding", "Chess"}

	html := renderOne(t, f, Responses{f.ID: []string{"Chess"}})

	assert.Contains(t, html, `value="Coding"`)
	assert.Contains(t, html, `value="Chess" checked`)
	assert.NotContains(t, html, `value="Coding" checked`)
}

func TestRenderPublicForm_ContentKinds(t *testing.T) {
	label := labeled(t, Label, "", false)
	label.Content = ptr("Read the [rules](https://club.test/rules) first")
	label.FontSize = ptr("large")
	label.Alignment = ptr("center")

	html := renderOne(t, label, nil)
	assert.Contains(t, html,
		`<a href="https://club.test/rules" target="_blank" rel="noopener noreferrer">rules</a>`)
	assert.Contains(t, html, "text-lg")
	assert.Contains(t, html, "text-center")

	image := DefaultField(Image)
	image.ImageUrl = ptr("https://cdn.test/banner.png")
	image.AltText = ptr("Banner")
	html = renderOne(t, image, nil)
	assert.Contains(t, html, `src="https://cdn.test/banner.png"`)
	assert.Contains(t, html, `alt="Banner"`)

	link := DefaultField(Link)
	link.LinkUrl = ptr("https://club.test/join")
	link.LinkText = ptr("Join us")
	link.OpenInNewTab = ptr(true)
	html = renderOne(t, link, nil)
	assert.Contains(t, html, `href="https://club.test/join"`)
	assert.Contains(t, html, ">Join us</a>")
	assert.Contains(t, html, `target="_blank"`)
	assert.Contains(t, html, "btn btn-primary")
}

func TestRenderPublicForm_SchemaOrder(t *testing.T) {
	s := Schema{
		labeled(t, Text, "FIRST-FIELD", false),
		labeled(t, Email, "SECOND-FIELD", false),
	}

	html, err := RenderPublicForm(s, nil)
	require.NoError(t, err)

	out := string(html)
	assert.Less(t, strings.Index(out, "FIRST-FIELD"), strings.Index(out, "SECOND-FIELD"))
}

func TestRenderBuilder(t *testing.T) {
	s := testSchema(t, Text, Select, Label)

	html, err := RenderBuilder(s)
	require.NoError(t, err)
	out := string(html)

	for _, f := range s {
		assert.Contains(t, out, `data-field="`+f.ID+`"`)
	}
	// the picker offers every kind
	for _, k := range Kinds {
		assert.Contains(t, out, `data-kind="`+string(k)+`"`)
	}
	assert.Contains(t, out, "Form Fields")
	assert.Contains(t, out, "Choice Fields")
	assert.Contains(t, out, "Content Elements")
}

// Content previews in the builder must match the public rendering exactly.
func TestRenderBuilder_PreviewMatchesPublicForm(t *testing.T) {
	label := DefaultField(Label)
	label.Content = ptr("Check the [schedule](https://club.test/schedule)")

	public, err := RenderPublicForm(Schema{label}, nil)
	require.NoError(t, err)

	builder, err := RenderBuilder(Schema{label})
	require.NoError(t, err)

	assert.Contains(t, string(builder), string(public))
}

func TestRenderBuilder_Empty(t *testing.T) {
	html, err := RenderBuilder(nil)
	require.NoError(t, err)

	assert.Contains(t, string(html), "No form fields added yet")
}

func renderOne(t *testing.T, f Field, resp Responses) string {
	t.Helper()

	html, err := RenderPublicForm(Schema{f}, resp)
	require.NoError(t, err)
	return string(html)
}
