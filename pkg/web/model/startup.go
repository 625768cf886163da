package model

import (
	"encoding/base64"
	"time"

	startupmodel "startup-directory/pkg/core/startup/model"
)

// AttachmentRes is an attachment in transport form: data is base64.
type AttachmentRes struct {
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
	Data        string `json:"data"`
}

// EncodeAttachment is the single place raw attachment bytes become text.
// A never-uploaded attachment encodes to nil (JSON null).
func EncodeAttachment(a startupmodel.Attachment) *AttachmentRes {
	if a.IsZero() {
		return nil
	}
	return &AttachmentRes{
		ContentType: a.ContentType,
		FileName:    a.FileName,
		Data:        base64.StdEncoding.EncodeToString(a.Data),
	}
}

type StartupRes struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	Tagline                string         `json:"tagline"`
	Industry               string         `json:"industry"`
	Stage                  string         `json:"stage"`
	FoundedDate            time.Time      `json:"foundedDate"`
	CoverImage             *AttachmentRes `json:"coverImage"`
	BusinessModel          string         `json:"businessModel"`
	FundingStatus          string         `json:"fundingStatus"`
	FundingAmount          float64        `json:"fundingAmount"`
	RevenueModel           string         `json:"revenueModel"`
	YearsInOp              int            `json:"yearsInOp"`
	PitchDeck              *AttachmentRes `json:"pitchDeck"`
	PreferredContactMethod []string       `json:"preferredContactMethod"`
	NewsletterSubscription bool           `json:"newsletterSubscription"`
	StartupOwner           string         `json:"startupOwner"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

func NewStartupRes(s startupmodel.Startup) StartupRes {
	contacts := []string(s.PreferredContactMethod)
	if contacts == nil {
		contacts = []string{}
	}
	return StartupRes{
		ID:                     s.ID,
		Name:                   s.Name,
		Tagline:                s.Tagline,
		Industry:               s.Industry,
		Stage:                  s.Stage,
		FoundedDate:            s.FoundedDate,
		CoverImage:             EncodeAttachment(s.CoverImage),
		BusinessModel:          s.BusinessModel,
		FundingStatus:          s.FundingStatus,
		FundingAmount:          s.FundingAmount,
		RevenueModel:           s.RevenueModel,
		YearsInOp:              s.YearsInOp,
		PitchDeck:              EncodeAttachment(s.PitchDeck),
		PreferredContactMethod: contacts,
		NewsletterSubscription: s.NewsletterSubscription,
		StartupOwner:           s.OwnerID,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

type StartupSummaryRes struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Industry      string    `json:"industry"`
	Stage         string    `json:"stage"`
	BusinessModel string    `json:"businessModel"`
	FoundedDate   time.Time `json:"foundedDate"`
}

func NewStartupSummaries(in []startupmodel.Summary) []StartupSummaryRes {
	out := make([]StartupSummaryRes, 0, len(in))
	for _, s := range in {
		out = append(out, StartupSummaryRes{
			ID:            s.ID,
			Name:          s.Name,
			Industry:      s.Industry,
			Stage:         s.Stage,
			BusinessModel: s.BusinessModel,
			FoundedDate:   s.FoundedDate,
		})
	}
	return out
}

type DashboardCardRes struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	FoundedDate time.Time      `json:"foundedDate"`
	CoverImage  *AttachmentRes `json:"coverImage"`
}

func NewDashboardCards(in []startupmodel.DashboardCard) []DashboardCardRes {
	out := make([]DashboardCardRes, 0, len(in))
	for _, c := range in {
		out = append(out, DashboardCardRes{
			ID:          c.ID,
			Name:        c.Name,
			FoundedDate: c.FoundedDate,
			CoverImage:  EncodeAttachment(c.CoverImage),
		})
	}
	return out
}
