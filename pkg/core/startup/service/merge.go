package service

import (
	"slices"

	"startup-directory/pkg/core/startup/model"
)

// build materializes a new record from in with schema defaults applied.
func build(in Input, ownerID string) model.Startup {
	s := model.Startup{
		PreferredContactMethod: slices.Clone(model.DefaultContactMethods),
		OwnerID:                ownerID,
	}
	return merge(s, in)
}

// merge overlays every supplied field of in on existing. Attachments are
// replaced whole, never combined; the contact list is replaced only by a
// non-empty string. Ownership is left to the caller.
func merge(existing model.Startup, in Input) model.Startup {
	out := existing

	out.Name = pick(in.Name, existing.Name)
	out.Tagline = pick(in.Tagline, existing.Tagline)
	out.Industry = pick(in.Industry, existing.Industry)
	out.Stage = pick(in.Stage, existing.Stage)
	out.FoundedDate = pick(in.FoundedDate, existing.FoundedDate)
	out.BusinessModel = pick(in.BusinessModel, existing.BusinessModel)
	out.FundingStatus = pick(in.FundingStatus, existing.FundingStatus)
	out.FundingAmount = pick(in.FundingAmount, existing.FundingAmount)
	out.RevenueModel = pick(in.RevenueModel, existing.RevenueModel)
	out.YearsInOp = pick(in.YearsInOp, existing.YearsInOp)
	out.NewsletterSubscription = pick(in.NewsletterSubscription, existing.NewsletterSubscription)
	out.CoverImage = pick(in.CoverImage, existing.CoverImage)
	out.PitchDeck = pick(in.PitchDeck, existing.PitchDeck)

	if methods, ok := in.contactMethods(); ok {
		out.PreferredContactMethod = methods
	}
	return out
}
