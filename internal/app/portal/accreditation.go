package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/accreditationrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

var allowedAccreditationTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// AccreditationStatus returns the review state of a profile. Profiles that
// never uploaded anything report status "new".
func (s *Service) AccreditationStatus(ctx context.Context, subject domain.SubjectID, profileID domain.ProfileID) (domain.Accreditation, error) {
	if err := s.checkProfile(ctx, subject, profileID); err != nil {
		return domain.Accreditation{}, err
	}
	a, err := s.accreditations.Get(ctx, profileID)
	if errors.Is(err, accreditationrepo.ErrNotFound) {
		return domain.Accreditation{ProfileID: profileID, Subject: subject, Status: domain.AccreditationStatusNew}, nil
	}
	return a, err
}

// UploadAccreditation records supporting files and moves the review to pending.
func (s *Service) UploadAccreditation(ctx context.Context, subject domain.SubjectID, profileID domain.ProfileID, note string, files []domain.AccreditationFile) (domain.Accreditation, error) {
	if len(files) == 0 {
		return domain.Accreditation{}, validationError("no files uploaded", map[string]any{"files": "at least one file is required"})
	}
	details := map[string]any{}
	for i, f := range files {
		key := fmt.Sprintf("files[%d]", i)
		ct := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
		switch {
		case f.Size <= 0:
			details[key] = "file is empty"
		case f.Size > s.MaxFileSize:
			details[key] = fmt.Sprintf("file exceeds %d bytes", s.MaxFileSize)
		case !allowedAccreditationTypes[ct]:
			details[key] = "only PDF, PNG and JPEG files are accepted"
		}
	}
	if len(details) > 0 {
		return domain.Accreditation{}, validationError("invalid accreditation files", details)
	}

	current, err := s.AccreditationStatus(ctx, subject, profileID)
	if err != nil {
		return domain.Accreditation{}, err
	}
	if current.Status == domain.AccreditationStatusApproved {
		return domain.Accreditation{}, &Error{Status: http.StatusConflict, Code: "ALREADY_ACCREDITED", Message: "profile is already accredited"}
	}

	a := domain.Accreditation{
		ProfileID: profileID,
		Subject:   subject,
		Status:    domain.AccreditationStatusPending,
		Note:      note,
		Files:     append(current.Files, files...),
		UpdatedAt: s.clk.Now(),
	}
	if err := s.accreditations.Save(ctx, a); err != nil {
		return domain.Accreditation{}, err
	}
	_, err = s.Publish(ctx, subject, domain.NotificationTypeAccreditation,
		"Your accreditation documents were received and are under review",
		map[string]any{"profile_id": string(profileID)})
	return a, err
}

// checkProfile verifies subject owns profileID. Profile ownership is derived
// from the account record, falling back to the wallet bound to the profile.
func (s *Service) checkProfile(ctx context.Context, subject domain.SubjectID, profileID domain.ProfileID) error {
	if a, ok := s.Account(subject); ok && a.ProfileID == profileID {
		return nil
	}
	w, err := s.wallets.GetByProfile(ctx, profileID)
	if err == nil && w.Subject == subject {
		return nil
	}
	if err != nil && !errors.Is(err, walletrepo.ErrNotFound) {
		return err
	}
	return notFound("profile")
}
