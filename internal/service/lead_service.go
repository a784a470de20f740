package service

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

const maxLeadMessageLength = 5000

// LeadInput is a contact form submission.
type LeadInput struct {
	Name     string
	Email    string
	Company  string
	Phone    string
	Division string
	Message  string
	SourceIP string
}

// LeadService records contact form submissions.
type LeadService struct {
	db *gorm.DB
}

// NewLeadService creates a LeadService instance.
func NewLeadService(gdb *gorm.DB) *LeadService {
	return &LeadService{db: gdb}
}

// Submit validates and stores a lead, returning it with its reference id.
func (s *LeadService) Submit(ctx context.Context, input LeadInput) (*db.Lead, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}

	email := strings.TrimSpace(input.Email)
	addr, err := mail.ParseAddress(email)
	if email == "" || err != nil || addr.Address != email {
		return nil, invalid("email", "a valid email address is required")
	}

	message := strings.TrimSpace(input.Message)
	if utf8.RuneCountInString(message) > maxLeadMessageLength {
		return nil, invalid("message", "message is too long")
	}

	lead := db.Lead{
		Reference: uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(email),
		Company:   strings.TrimSpace(input.Company),
		Phone:     strings.TrimSpace(input.Phone),
		Division:  strings.TrimSpace(input.Division),
		Message:   message,
		SourceIP:  strings.TrimSpace(input.SourceIP),
	}
	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, eris.Wrap(err, "creating lead")
	}
	return &lead, nil
}

// List returns leads newest first.
func (s *LeadService) List(ctx context.Context, limit int) ([]db.Lead, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var leads []db.Lead
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&leads).Error; err != nil {
		return nil, eris.Wrap(err, "listing leads")
	}
	return leads, nil
}
