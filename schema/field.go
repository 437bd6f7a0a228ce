package schema

import "github.com/gofrs/uuid"

// Field describes one entry of a form schema: either a fillable input or a
// static content element. Attributes that do not apply to a field's kind are
// left nil, so presence of an attribute doubles as a kind check.
type Field struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"type"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`

	// input kinds
	Placeholder       *string  `json:"placeholder,omitempty"`
	HelpText          *string  `json:"helpText,omitempty"`
	Options           []string `json:"options,omitempty"`
	AcceptedFileTypes *string  `json:"acceptedFileTypes,omitempty"`

	// content kinds
	Content      *string `json:"content,omitempty"`
	FontSize     *string `json:"fontSize,omitempty"`
	Alignment    *string `json:"alignment,omitempty"`
	ImageUrl     *string `json:"imageUrl,omitempty"`
	AltText      *string `json:"altText,omitempty"`
	LinkUrl      *string `json:"linkUrl,omitempty"`
	LinkText     *string `json:"linkText,omitempty"`
	OpenInNewTab *bool   `json:"openInNewTab,omitempty"`
	ButtonStyle  *string `json:"buttonStyle,omitempty"`
}

const placeholderImageUrl = "https://via.placeholder.com/600x200"

// DefaultField builds a descriptor with kind-appropriate defaults and a
// freshly generated id. Pure except for id generation.
func DefaultField(kind Kind) Field {
	f := Field{
		ID:    newFieldID(),
		Kind:  kind,
		Label: "New " + kind.DisplayName(),
	}

	switch kind {
	case Text, Textarea, Email, Phone, Number, Date, Time, Url:
		f.Placeholder = ptr("")
		f.HelpText = ptr("")
	case Select, Radio, Checkbox:
		f.Options = []string{"Option 1", "Option 2"}
		f.HelpText = ptr("")
	case File:
		f.AcceptedFileTypes = ptr("*")
		f.HelpText = ptr("")
	case Label:
		f.Label = ""
		f.Content = ptr("Add your description here...")
		f.FontSize = ptr("medium")
		f.Alignment = ptr("left")
	case Image:
		f.Label = ""
		f.ImageUrl = ptr(placeholderImageUrl)
		f.AltText = ptr("")
		f.Alignment = ptr("center")
	case Link:
		f.Label = ""
		f.LinkUrl = ptr("https://example.com")
		f.LinkText = ptr("Click here")
		f.OpenInNewTab = ptr(false)
		f.ButtonStyle = ptr("primary")
	}

	return f
}

// clone returns a deep copy, options included.
func (f Field) clone() Field {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	c.Placeholder = cloned(f.Placeholder)
	c.HelpText = cloned(f.HelpText)
	c.AcceptedFileTypes = cloned(f.AcceptedFileTypes)
	c.Content = cloned(f.Content)
	c.FontSize = cloned(f.FontSize)
	c.Alignment = cloned(f.Alignment)
	c.ImageUrl = cloned(f.ImageUrl)
	c.AltText = cloned(f.AltText)
	c.LinkUrl = cloned(f.LinkUrl)
	c.LinkText = cloned(f.LinkText)
	c.OpenInNewTab = cloned(f.OpenInNewTab)
	c.ButtonStyle = cloned(f.ButtonStyle)
	return c
}

// Patch carries a partial set of attributes to merge into a field.
// Nil members are left untouched.
type Patch struct {
	Label    *string `json:"label,omitempty"`
	Required *bool   `json:"required,omitempty"`

	Placeholder       *string   `json:"placeholder,omitempty"`
	HelpText          *string   `json:"helpText,omitempty"`
	Options           *[]string `json:"options,omitempty"`
	AcceptedFileTypes *string   `json:"acceptedFileTypes,omitempty"`

	Content      *string `json:"content,omitempty"`
	FontSize     *string `json:"fontSize,omitempty"`
	Alignment    *string `json:"alignment,omitempty"`
	ImageUrl     *string `json:"imageUrl,omitempty"`
	AltText      *string `json:"altText,omitempty"`
	LinkUrl      *string `json:"linkUrl,omitempty"`
	LinkText     *string `json:"linkText,omitempty"`
	OpenInNewTab *bool   `json:"openInNewTab,omitempty"`
	ButtonStyle  *string `json:"buttonStyle,omitempty"`
}

func (p Patch) apply(f Field) Field {
	f = f.clone()
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Required != nil {
		f.Required = *p.Required
	}
	if p.Placeholder != nil {
		f.Placeholder = cloned(p.Placeholder)
	}
	if p.HelpText != nil {
		f.HelpText = cloned(p.HelpText)
	}
	if p.Options != nil {
		f.Options = append([]string(nil), *p.Options...)
	}
	if p.AcceptedFileTypes != nil {
		f.AcceptedFileTypes = cloned(p.AcceptedFileTypes)
	}
	if p.Content != nil {
		f.Content = cloned(p.Content)
	}
	if p.FontSize != nil {
		f.FontSize = cloned(p.FontSize)
	}
	if p.Alignment != nil {
		f.Alignment = cloned(p.Alignment)
	}
	if p.ImageUrl != nil {
		f.ImageUrl = cloned(p.ImageUrl)
	}
	if p.AltText != nil {
		f.AltText = cloned(p.AltText)
	}
	if p.LinkUrl != nil {
		f.LinkUrl = cloned(p.LinkUrl)
	}
	if p.LinkText != nil {
		f.LinkText = cloned(p.LinkText)
	}
	if p.OpenInNewTab != nil {
		f.OpenInNewTab = cloned(p.OpenInNewTab)
	}
	if p.ButtonStyle != nil {
		f.ButtonStyle = cloned(p.ButtonStyle)
	}
	return f
}

func newFieldID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func ptr[T any](v T) *T {
	return &v
}

func cloned[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
