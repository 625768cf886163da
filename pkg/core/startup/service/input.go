package service

import (
	"time"

	"startup-directory/pkg/core/startup/model"
)

// Input carries client-supplied attributes. A nil field was not supplied;
// any non-nil value, including a zero value, was.
type Input struct {
	Name                   *string
	Tagline                *string
	Industry               *string
	Stage                  *string
	FoundedDate            *time.Time
	BusinessModel          *string
	FundingStatus          *string
	FundingAmount          *float64
	RevenueModel           *string
	YearsInOp              *int
	PreferredContactMethod *string // raw comma separated list
	NewsletterSubscription *bool
	CoverImage             *model.Attachment
	PitchDeck              *model.Attachment
}

// contactMethods reports the parsed list when a non-empty string was given.
func (in Input) contactMethods() (model.ContactMethods, bool) {
	if in.PreferredContactMethod == nil || *in.PreferredContactMethod == "" {
		return nil, false
	}
	return model.ParseContactMethods(*in.PreferredContactMethod), true
}

func pick[T any](supplied *T, current T) T {
	if supplied != nil {
		return *supplied
	}
	return current
}
