package schema

// Kind is the closed set of form field kinds. Input kinds collect a value
// from the visitor; content kinds render static content between inputs and
// are never part of a submission.
type Kind string

const (
	Text     Kind = "text"
	Textarea Kind = "textarea"
	Email    Kind = "email"
	Phone    Kind = "phone"
	Number   Kind = "number"
	Select   Kind = "select"
	Radio    Kind = "radio"
	Checkbox Kind = "checkbox"
	File     Kind = "file"
	Date     Kind = "date"
	Time     Kind = "time"
	Url      Kind = "url"

	Label Kind = "label"
	Image Kind = "image"
	Link  Kind = "link"
)

// Kinds lists every valid kind in picker order.
var Kinds = []Kind{
	Text, Textarea, Email, Phone, Number,
	Select, Radio, Checkbox,
	File, Date, Time, Url,
	Label, Image, Link,
}

func (k Kind) IsValid() bool {
	switch k {
	case Text, Textarea, Email, Phone, Number,
		Select, Radio, Checkbox,
		File, Date, Time, Url,
		Label, Image, Link:
		return true
	}
	return false
}

// IsContent reports whether the kind renders static content.
// Exactly one of IsContent and IsInput holds for every valid kind.
func (k Kind) IsContent() bool {
	switch k {
	case Label, Image, Link:
		return true
	}
	return false
}

func (k Kind) IsInput() bool {
	return k.IsValid() && !k.IsContent()
}

// IsChoice reports whether the kind presents a list of options.
func (k Kind) IsChoice() bool {
	switch k {
	case Select, Radio, Checkbox:
		return true
	}
	return false
}

func (k Kind) DisplayName() string {
	switch k {
	case Text:
		return "Short Text"
	case Textarea:
		return "Long Text"
	case Email:
		return "Email"
	case Phone:
		return "Phone Number"
	case Number:
		return "Number"
	case Select:
		return "Dropdown"
	case Radio:
		return "Multiple Choice"
	case Checkbox:
		return "Checkboxes"
	case File:
		return "File Upload"
	case Date:
		return "Date"
	case Time:
		return "Time"
	case Url:
		return "Website URL"
	case Label:
		return "Label/Description"
	case Image:
		return "Image Display"
	case Link:
		return "Link/Button"
	}
	return "Field"
}

func (k Kind) Icon() string {
	switch k {
	case Text:
		return "📝"
	case Textarea:
		return "📄"
	case Email:
		return "📧"
	case Phone:
		return "📞"
	case Number:
		return "🔢"
	case Select, Label:
		return "📋"
	case Radio:
		return "⚪"
	case Checkbox:
		return "☑️"
	case File:
		return "📎"
	case Date:
		return "📅"
	case Time:
		return "⏰"
	case Url:
		return "🌐"
	case Image:
		return "🖼️"
	case Link:
		return "🔗"
	}
	return ""
}

// inputType maps a kind to its HTML input type attribute.
func (k Kind) inputType() string {
	switch k {
	case Email:
		return "email"
	case Phone:
		return "tel"
	case Number:
		return "number"
	case Date:
		return "date"
	case Time:
		return "time"
	case Url:
		return "url"
	}
	return "text"
}
