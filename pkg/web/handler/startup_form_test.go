package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"

	"startup-directory/pkg/core/startup/service"
)

func TestParseStartupInputCoercesText(t *testing.T) {
	in, violations := parseStartupInput(multipartFields{
		"name":                   {"Acme"},
		"fundingAmount":          {"1000"},
		"yearsInOp":              {"0"},
		"newsletterSubscription": {"false"},
		"foundedDate":            {"2021-03-04"},
		"preferredContactMethod": {""},
	})
	assert.DeepEqual(t, 0, len(violations))
	assert.DeepEqual(t, "Acme", *in.Name)
	assert.DeepEqual(t, 1000.0, *in.FundingAmount)
	assert.DeepEqual(t, 0, *in.YearsInOp)
	assert.DeepEqual(t, false, *in.NewsletterSubscription)
	assert.DeepEqual(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), *in.FoundedDate)
	// supplied but empty is still supplied; the service decides what that means
	assert.DeepEqual(t, "", *in.PreferredContactMethod)
	assert.Assert(t, in.Tagline == nil)
	assert.Assert(t, in.Stage == nil)
}

func TestParseStartupInputReportsBadCoercions(t *testing.T) {
	in, violations := parseStartupInput(multipartFields{
		"fundingAmount":          {"a lot"},
		"yearsInOp":              {"2.5"},
		"newsletterSubscription": {"maybe"},
		"foundedDate":            {"yesterday"},
	})
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.DeepEqual(t, []string{"foundedDate", "fundingAmount", "yearsInOp", "newsletterSubscription"}, fields)
	assert.Assert(t, in.FundingAmount == nil)
	assert.Assert(t, in.YearsInOp == nil)
}

func TestJSONFieldsLookup(t *testing.T) {
	fields := jsonFields{
		"tagline":                nil,
		"newsletterSubscription": true,
		"preferredContactMethod": []interface{}{"Email", "Fax"},
	}

	_, ok := fields.lookup("tagline")
	assert.Assert(t, !ok)
	_, ok = fields.lookup("stage")
	assert.Assert(t, !ok)

	v, ok := fields.lookup("newsletterSubscription")
	assert.Assert(t, ok)
	assert.DeepEqual(t, "true", v)

	v, _ = fields.lookup("preferredContactMethod")
	assert.DeepEqual(t, "Email,Fax", v)
}

func buildForm(t *testing.T, parts map[string][2]string) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s.bin"`, field, field))
		h.Set("Content-Type", p[0])
		part, err := w.CreatePart(h)
		assert.Nil(t, err)
		_, err = part.Write([]byte(p[1]))
		assert.Nil(t, err)
	}
	assert.Nil(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	assert.Nil(t, err)
	return form
}

func TestReadUploads(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		var in service.Input
		form := buildForm(t, map[string][2]string{
			"coverImage": {"image/png; charset=binary", "img"},
			"pitchDeck":  {"application/pdf", "%PDF"},
		})
		violations, err := readUploads(form, 100, &in)
		assert.Nil(t, err)
		assert.DeepEqual(t, 0, len(violations))
		assert.DeepEqual(t, "image/png", in.CoverImage.ContentType)
		assert.DeepEqual(t, []byte("img"), in.CoverImage.Data)
		assert.DeepEqual(t, "pitchDeck.bin", in.PitchDeck.FileName)
	})

	t.Run("wrong types", func(t *testing.T) {
		var in service.Input
		form := buildForm(t, map[string][2]string{
			"coverImage": {"application/pdf", "%PDF"},
			"pitchDeck":  {"image/png", "img"},
		})
		violations, err := readUploads(form, 100, &in)
		assert.Nil(t, err)
		assert.DeepEqual(t, 2, len(violations))
		assert.Assert(t, in.CoverImage == nil)
		assert.Assert(t, in.PitchDeck == nil)
	})

	t.Run("too large", func(t *testing.T) {
		var in service.Input
		form := buildForm(t, map[string][2]string{
			"coverImage": {"image/gif", "0123456789"},
		})
		violations, err := readUploads(form, 4, &in)
		assert.Nil(t, err)
		assert.DeepEqual(t, 1, len(violations))
		assert.DeepEqual(t, "coverImage", violations[0].Field)
		assert.Assert(t, in.CoverImage == nil)
	})
}
