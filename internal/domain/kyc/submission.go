package kyc

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrInvalidDocumentURL  = errors.New("document url must be an absolute http(s) url")
	ErrEmptyBusinessName   = errors.New("business name is required")
	ErrInvalidStatus       = errors.New("invalid kyc status")
	ErrNotPending          = errors.New("only pending submissions can be reviewed")
	ErrReasonRequired      = errors.New("a reason is required to reject a submission")
)

type DocumentType string

const (
	DocumentCAC            DocumentType = "cac"
	DocumentNIN            DocumentType = "nin"
	DocumentPassport       DocumentType = "passport"
	DocumentDriversLicense DocumentType = "drivers_license"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch d := DocumentType(strings.ToLower(strings.TrimSpace(s))); d {
	case DocumentCAC, DocumentNIN, DocumentPassport, DocumentDriversLicense:
		return d, nil
	default:
		return "", ErrInvalidDocumentType
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string { return string(s) }

type Submission struct {
	id           uuid.UUID
	vendorID     uuid.UUID
	businessName string
	documentType DocumentType
	documentURL  string
	status       Status
	reviewerID   *uuid.UUID
	reason       string
	reviewedAt   *time.Time
	createdAt    time.Time
}

func NewSubmission(vendorID uuid.UUID, businessName string, documentType DocumentType, documentURL string, now time.Time) (*Submission, error) {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, ErrEmptyBusinessName
	}
	u, err := url.Parse(strings.TrimSpace(documentURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidDocumentURL
	}

	return &Submission{
		id:           uuid.New(),
		vendorID:     vendorID,
		businessName: businessName,
		documentType: documentType,
		documentURL:  u.String(),
		status:       StatusPending,
		createdAt:    now,
	}, nil
}

func ReconstructSubmission(
	id, vendorID uuid.UUID,
	businessName string,
	documentType DocumentType,
	documentURL string,
	status Status,
	reviewerID *uuid.UUID,
	reason string,
	reviewedAt *time.Time,
	createdAt time.Time,
) *Submission {
	return &Submission{
		id:           id,
		vendorID:     vendorID,
		businessName: businessName,
		documentType: documentType,
		documentURL:  documentURL,
		status:       status,
		reviewerID:   reviewerID,
		reason:       reason,
		reviewedAt:   reviewedAt,
		createdAt:    createdAt,
	}
}

func (s *Submission) Approve(reviewerID uuid.UUID, now time.Time) error {
	return s.review(StatusApproved, reviewerID, "", now)
}

func (s *Submission) Reject(reviewerID uuid.UUID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	return s.review(StatusRejected, reviewerID, reason, now)
}

func (s *Submission) review(to Status, reviewerID uuid.UUID, reason string, now time.Time) error {
	if s.status != StatusPending {
		return ErrNotPending
	}
	s.status = to
	s.reviewerID = &reviewerID
	s.reason = reason
	s.reviewedAt = &now
	return nil
}

func (s *Submission) ID() uuid.UUID              { return s.id }
func (s *Submission) VendorID() uuid.UUID        { return s.vendorID }
func (s *Submission) BusinessName() string       { return s.businessName }
func (s *Submission) DocumentType() DocumentType { return s.documentType }
func (s *Submission) DocumentURL() string        { return s.documentURL }
func (s *Submission) Status() Status             { return s.status }
func (s *Submission) ReviewerID() *uuid.UUID     { return s.reviewerID }
func (s *Submission) Reason() string             { return s.reason }
func (s *Submission) ReviewedAt() *time.Time     { return s.reviewedAt }
func (s *Submission) CreatedAt() time.Time       { return s.createdAt }
