package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/memberportal/internal/logging"
)

// ApplicationStatusPending is the status of a newly submitted application.
const ApplicationStatusPending = "pending"

// SubmitApplication validates every step, checks the identifier is still
// free and stores the application. The matching draft is removed in the same
// transaction. Returns the new application ID.
func (s *Service) SubmitApplication(ctx context.Context, mt MemberType, data *ApplicationData) (string, error) {
	def, err := Definition(mt)
	if err != nil {
		return "", err
	}
	if data == nil {
		data = &ApplicationData{}
	}

	if errs := ValidateAll(def, data); errs.HasErrors() {
		return "", &ValidationError{Fields: errs}
	}

	identifier := strings.TrimSpace(def.DraftKey(data))
	status, err := s.store.IdentifierStatus(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("submit %s: %w", mt, err)
	}
	if status != IdentifierAvailable {
		return "", fmt.Errorf("submit %s: %w (%s)", mt, ErrIdentifierTaken, status)
	}

	app := Application{
		ID:          uuid.NewString(),
		MemberType:  mt,
		Identifier:  identifier,
		DisplayName: data.DisplayName(),
		Data:        data.WithoutFiles(),
		Documents:   collectDocuments(data),
		Status:      ApplicationStatusPending,
		SubmittedAt: s.now(),
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return "", fmt.Errorf("submit %s: %w", mt, err)
	}

	s.LogAudit(ctx, ActionApplicationSubmit, app.ID, map[string]any{
		"memberType": string(mt),
		"identifier": maskIdentifier(identifier),
		"documents":  len(app.Documents),
	})
	logging.WithFields(ctx, "member_type", mt, "application_id", app.ID).Info("application submitted")
	return app.ID, nil
}

// SignatureDocKey is the key the authorized signatory's signature file is
// recorded under among an application's documents.
const SignatureDocKey = "authorizedSignature"

func collectDocuments(data *ApplicationData) map[string]DocumentRef {
	docs := make(map[string]DocumentRef, len(data.Documents)+1)
	for k, v := range data.Documents {
		if v.FileName != "" {
			docs[k] = v
		}
	}
	if sig := data.AuthorizedSignatory.Signature; sig != nil && sig.FileName != "" {
		docs[SignatureDocKey] = *sig
	}
	return docs
}
