package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/startup/model"
	"startup-directory/pkg/core/startup/service"
)

// fieldSource looks up a request field; ok is false only when the field is absent.
type fieldSource interface {
	lookup(key string) (string, bool)
}

type multipartFields map[string][]string

func (f multipartFields) lookup(key string) (string, bool) {
	if vs, ok := f[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

type argsFields struct {
	args *protocol.Args
}

func (f argsFields) lookup(key string) (string, bool) {
	if !f.args.Has(key) {
		return "", false
	}
	return string(f.args.Peek(key)), true
}

// jsonFields treats an explicit null like an absent field.
type jsonFields map[string]interface{}

func (f jsonFields) lookup(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ","), true
	default:
		return fmt.Sprint(t), true
	}
}

// requestFields picks the field source from the content type. The form is
// non-nil only for multipart bodies, which are the only ones carrying files.
func requestFields(c *app.RequestContext) (fieldSource, *multipart.Form, error) {
	contentType := string(c.ContentType())
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, badBody(err)
		}
		return multipartFields(form.Value), form, nil
	case strings.HasPrefix(contentType, "application/json"):
		fields := jsonFields{}
		body := c.Request.Body()
		if len(bytes.TrimSpace(body)) == 0 {
			return fields, nil, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, nil, badBody(err)
		}
		return fields, nil, nil
	default:
		return argsFields{args: c.PostArgs()}, nil, nil
	}
}

// parseStartupInput coerces text fields into typed input. Fields that fail
// coercion are reported and left unset.
func parseStartupInput(src fieldSource) (service.Input, []apperr.Violation) {
	var (
		in         service.Input
		violations []apperr.Violation
	)
	invalid := func(field, message string) {
		violations = append(violations, apperr.Violation{Field: field, Message: message})
	}
	text := func(key string) *string {
		if v, ok := src.lookup(key); ok {
			return &v
		}
		return nil
	}

	in.Name = text("name")
	in.Tagline = text("tagline")
	in.Industry = text("industry")
	in.Stage = text("stage")
	in.BusinessModel = text("businessModel")
	in.FundingStatus = text("fundingStatus")
	in.RevenueModel = text("revenueModel")
	in.PreferredContactMethod = text("preferredContactMethod")

	if raw, ok := src.lookup("foundedDate"); ok {
		if t, err := parseDate(raw); err != nil {
			invalid("foundedDate", "foundedDate must be a date (YYYY-MM-DD or RFC 3339)")
		} else {
			in.FoundedDate = &t
		}
	}
	if raw, ok := src.lookup("fundingAmount"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			invalid("fundingAmount", "fundingAmount must be a number")
		} else {
			in.FundingAmount = &v
		}
	}
	if raw, ok := src.lookup("yearsInOp"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			invalid("yearsInOp", "yearsInOp must be an integer")
		} else {
			n := int(v)
			in.YearsInOp = &n
		}
	}
	if raw, ok := src.lookup("newsletterSubscription"); ok {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			invalid("newsletterSubscription", "newsletterSubscription must be true or false")
		} else {
			in.NewsletterSubscription = &v
		}
	}
	return in, violations
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

type uploadRule struct {
	field   string
	accept  func(mediaType string) bool
	message string
	assign  func(in *service.Input, a *model.Attachment)
}

var uploadRules = []uploadRule{
	{
		field:   "coverImage",
		accept:  func(mt string) bool { return strings.HasPrefix(mt, "image/") },
		message: "Only image files are allowed for coverImage",
		assign:  func(in *service.Input, a *model.Attachment) { in.CoverImage = a },
	},
	{
		field:   "pitchDeck",
		accept:  func(mt string) bool { return mt == "application/pdf" },
		message: "Only PDF files are allowed for pitchDeck",
		assign:  func(in *service.Input, a *model.Attachment) { in.PitchDeck = a },
	},
}

// readUploads checks type and size of every known file part before reading
// any of them into memory.
func readUploads(form *multipart.Form, maxSize int64, in *service.Input) ([]apperr.Violation, error) {
	var violations []apperr.Violation
	accepted := make(map[string]*multipart.FileHeader)

	for _, rule := range uploadRules {
		headers := form.File[rule.field]
		switch {
		case len(headers) == 0:
			continue
		case len(headers) > 1:
			violations = append(violations, apperr.Violation{Field: rule.field, Message: "only one " + rule.field + " file is allowed"})
			continue
		}
		fh := headers[0]
		if !rule.accept(mediaType(fh)) {
			violations = append(violations, apperr.Violation{Field: rule.field, Message: rule.message})
			continue
		}
		if fh.Size > maxSize {
			violations = append(violations, apperr.Violation{
				Field:   rule.field,
				Message: fmt.Sprintf("%s must be at most %d bytes", rule.field, maxSize),
			})
			continue
		}
		accepted[rule.field] = fh
	}
	if len(violations) > 0 {
		return violations, nil
	}

	for _, rule := range uploadRules {
		fh, ok := accepted[rule.field]
		if !ok {
			continue
		}
		data, err := readFile(fh, maxSize)
		if err != nil {
			return nil, apperr.Unexpected("unable to read upload", err)
		}
		rule.assign(in, &model.Attachment{
			Data:        data,
			ContentType: mediaType(fh),
			FileName:    fh.Filename,
		})
	}
	return nil, nil
}

func mediaType(fh *multipart.FileHeader) string {
	raw := fh.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(raw); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSize))
}
