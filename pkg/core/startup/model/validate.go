package model

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	apperr "startup-directory/pkg/common/errors"
)

const (
	nameMin, nameMax                 = 2, 20
	taglineMin, taglineMax           = 5, 160
	revenueModelMin, revenueModelMax = 10, 1000
	yearsInOpMax                     = 10000
)

// Validate checks every declared constraint and returns all violations,
// in field order. A nil result means the record may be persisted.
func (s *Startup) Validate() []apperr.Violation {
	var out []apperr.Violation
	add := func(field, format string, args ...interface{}) {
		out = append(out, apperr.Violation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	checkLength := func(field, value string, lo, hi int) {
		n := utf8.RuneCountInString(value)
		switch {
		case strings.TrimSpace(value) == "":
			add(field, "%s is required", field)
		case n < lo:
			add(field, "%s must be at least %d characters", field, lo)
		case n > hi:
			add(field, "%s must be at most %d characters", field, hi)
		}
	}
	checkEnum := func(field, value string, allowed []string) {
		switch {
		case value == "":
			add(field, "%s is required", field)
		case !slices.Contains(allowed, value):
			add(field, "%s must be one of %s", field, strings.Join(allowed, ", "))
		}
	}

	checkLength("name", s.Name, nameMin, nameMax)
	checkLength("tagline", s.Tagline, taglineMin, taglineMax)
	checkEnum("industry", s.Industry, Industries)
	checkEnum("stage", s.Stage, Stages)
	if s.FoundedDate.IsZero() {
		add("foundedDate", "foundedDate is required")
	}
	checkEnum("businessModel", s.BusinessModel, BusinessModels)
	checkEnum("fundingStatus", s.FundingStatus, FundingStatuses)
	if s.FundingAmount < 0 {
		add("fundingAmount", "fundingAmount must be at least 0")
	}
	checkLength("revenueModel", s.RevenueModel, revenueModelMin, revenueModelMax)
	if s.YearsInOp < 0 || s.YearsInOp > yearsInOpMax {
		add("yearsInOp", "yearsInOp must be between 0 and %d", yearsInOpMax)
	}
	for _, m := range s.PreferredContactMethod {
		if !slices.Contains(ContactOptions, m) {
			add("preferredContactMethod", "preferredContactMethod must be one of %s", strings.Join(ContactOptions, ", "))
			break
		}
	}
	if s.OwnerID == "" {
		add("startupOwner", "startupOwner is required")
	}
	return out
}
