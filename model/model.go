package model

import (
	"time"

	"github.com/mbolis/club-site/schema"
)

type Activity struct {
	ID                int            `json:"id,omitempty"`
	Version           int            `json:"version,omitempty"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	RegistrationStart time.Time      `json:"registrationStart"`
	RegistrationEnd   time.Time      `json:"registrationEnd"`
	EventDate         time.Time      `json:"eventDate"`
	MaxParticipants   *int           `json:"maxParticipants,omitempty"`
	IsPaid            bool           `json:"isPaid"`
	Fee               *float64       `json:"fee,omitempty"`
	PaymentDetails    PaymentDetails `json:"paymentDetails"`
	FormSchema        schema.Schema  `json:"formSchema"`
	CreatedAt         time.Time      `json:"createdAt,omitempty"`
	UpdatedAt         time.Time      `json:"updatedAt,omitempty"`
}

type PaymentDetails struct {
	PaymentUrl   string `json:"paymentUrl"`
	Instructions string `json:"instructions"`
}

// RegistrationOpen reports whether the registration window contains now.
func (a Activity) RegistrationOpen(now time.Time) bool {
	return !now.Before(a.RegistrationStart) && !now.After(a.RegistrationEnd)
}

// HasSpace reports whether another registration fits under maxParticipants.
func (a Activity) HasSpace(registered int) bool {
	return a.MaxParticipants == nil || registered < *a.MaxParticipants
}

// RegistrationStatus is the initial status of a new registration:
// paid activities start out awaiting payment.
func (a Activity) RegistrationStatus() Status {
	if a.IsPaid {
		return StatusPendingPayment
	}
	return StatusConfirmed
}

type Status string

const (
	StatusConfirmed      Status = "confirmed"
	StatusPendingPayment Status = "pending_payment"
)

// Registration is the finalized outcome of one visitor's submission.
// FormSchema is a frozen snapshot of the schema the submitter saw, so it
// never needs reconciling against the live activity.
type Registration struct {
	ID            int              `json:"id,omitempty"`
	ActivityID    int              `json:"activityId"`
	ActivityTitle string           `json:"activityTitle"`
	SubmittedAt   time.Time        `json:"submittedAt"`
	Status        Status           `json:"status"`
	FormSchema    schema.Schema    `json:"formSchema"`
	Responses     schema.Responses `json:"responses"`
}

type Event struct {
	ID            int       `json:"id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	EventDate     time.Time `json:"eventDate"`
	ImageUrl      string    `json:"imageUrl,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// MediaAsset is one image as seen by the admin media browser.
type MediaAsset struct {
	ID             string    `json:"id"`
	Url            string    `json:"url"`
	PublicID       string    `json:"publicId"`
	Name           string    `json:"name"`
	Folder         string    `json:"folder"`
	OriginalFolder string    `json:"originalFolder"`
	Size           int64     `json:"size"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Format         string    `json:"format"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DefaultFormSchema is the starter registration form attached to a new
// activity before the admin customizes it.
func DefaultFormSchema() schema.Schema {
	s := schema.Schema{}
	s = withDefault(s, schema.Text, "Full Name", "Enter your full name", nil)
	s = withDefault(s, schema.Text, "Roll Number", "Enter your roll number", nil)
	s = withDefault(s, schema.Email, "Email Address", "your.email@club.org", nil)
	s = withDefault(s, schema.Phone, "Phone Number", "+91 XXXXXXXXXX", nil)
	s = withDefault(s, schema.Select, "Academic Year", "", []string{
		"1st Year", "2nd Year", "3rd Year", "4th Year",
	})
	s = withDefault(s, schema.Select, "Branch", "", []string{
		"Computer Science Engineering",
		"Computer Science Engineering (AI & ML)",
		"Computer Science Engineering (Data Science)",
		"Computer Science Engineering (Cyber Security)",
		"Computer Science Engineering (IoT)",
		"Electronics and Communication Engineering",
		"Electrical and Electronics Engineering",
		"Mechanical Engineering",
	})
	return s
}

func withDefault(s schema.Schema, kind schema.Kind, label, placeholder string, options []string) schema.Schema {
	s, f, err := s.Add(kind)
	if err != nil {
		panic(err)
	}

	patch := schema.Patch{
		Label:    &label,
		Required: boolPtr(true),
	}
	if placeholder != "" {
		patch.Placeholder = &placeholder
	}
	if options != nil {
		patch.Options = &options
	}

	s, err = s.Update(f.ID, patch)
	if err != nil {
		panic(err)
	}
	return s
}

func boolPtr(b bool) *bool {
	return &b
}
