package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// formInfo is the public description of one member type's wizard.
type formInfo struct {
	Type       core.MemberType `json:"type"`
	Label      string          `json:"label"`
	Juristic   bool            `json:"juristic"`
	TotalSteps int             `json:"totalSteps"`
	Steps      []string        `json:"steps"`
}

// handleListForms returns the member types with their step titles.
func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	defs := s.service.Forms()
	out := make([]formInfo, len(defs))
	for i, def := range defs {
		out[i] = formInfo{
			Type:       def.Type,
			Label:      def.Label,
			Juristic:   def.Type.IsJuristic(),
			TotalSteps: def.TotalSteps(),
			Steps:      def.StepTitles(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// formFromPath resolves the {type} URL parameter.
func formFromPath(r *http.Request) (core.FormDefinition, error) {
	mt, err := core.ParseMemberType(chi.URLParam(r, "type"))
	if err != nil {
		return core.FormDefinition{}, err
	}
	return core.Definition(mt)
}

// stepResult is the outcome of validating one step.
type stepResult struct {
	Step   int           `json:"step"`
	Valid  bool          `json:"valid"`
	Errors core.ErrorMap `json:"errors"`
}

// handleValidateStep validates one step of the posted form data. Field errors
// are a normal result, not a request failure.
func (s *Server) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	def, err := formFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: step %q", core.ErrInvalidStep, chi.URLParam(r, "step")))
		return
	}

	var data core.ApplicationData
	if err := decodeJSON(w, r, &data); err != nil {
		s.respondError(w, r, err)
		return
	}

	errs, err := core.ValidateStep(def, &data, step)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResult{Step: step, Valid: !errs.HasErrors(), Errors: errs})
}

// wizardRequest carries client-held wizard state and the navigation action.
type wizardRequest struct {
	Step       int                   `json:"step"`
	MaxVisited int                   `json:"maxVisited"`
	Action     core.WizardAction     `json:"action"`
	Target     int                   `json:"target"`
	Data       *core.ApplicationData `json:"data"`
}

// wizardResponse is the wizard state after an action.
type wizardResponse struct {
	*core.Wizard
	TotalSteps int    `json:"totalSteps"`
	StepTitle  string `json:"stepTitle"`
	IsLast     bool   `json:"isLast"`
}

func newWizardResponse(wz *core.Wizard) wizardResponse {
	resp := wizardResponse{Wizard: wz, TotalSteps: wz.TotalSteps(), IsLast: wz.IsLast()}
	if step, ok := wz.Definition().Step(wz.Step); ok {
		resp.StepTitle = step.Title
	}
	return resp
}

// handleWizard applies next, back or goto to the posted wizard state.
func (s *Server) handleWizard(w http.ResponseWriter, r *http.Request) {
	def, err := formFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req wizardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	wz := core.RestoreWizard(def, req.Step, req.MaxVisited, req.Data)
	if err := wz.Apply(req.Action, req.Target); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newWizardResponse(wz))
}

// handleSubmitApplication validates and stores a complete application.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	def, err := formFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var data core.ApplicationData
	if err := decodeJSON(w, r, &data); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	id, err := s.service.SubmitApplication(ctx, def.Type, &data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "status": core.ApplicationStatusPending})
}

// ----------------------------------------------------------------------------
// Drafts
// ----------------------------------------------------------------------------

type saveDraftRequest struct {
	Step int                   `json:"step"`
	Data *core.ApplicationData `json:"data"`
}

// draftResponse omits the form data; clients already hold it after a save.
type draftResponse struct {
	MemberType core.MemberType `json:"memberType"`
	Key        string          `json:"key"`
	Step       int             `json:"step"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

func toDraftResponse(d core.Draft) draftResponse {
	return draftResponse{
		MemberType: d.MemberType,
		Key:        d.Key,
		Step:       d.Step,
		UpdatedAt:  d.UpdatedAt,
		ExpiresAt:  d.ExpiresAt,
	}
}

// handleSaveDraft stores the posted form state under its tax ID or ID card.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	def, err := formFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req saveDraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	d, err := s.service.SaveDraft(ctx, def.Type, req.Data, req.Step)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(d))
}

// handleLoadDraft returns a wizard positioned at the draft's saved step.
func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request) {
	def, err := formFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	wz, err := s.service.ResumeDraft(r.Context(), def.Type, chi.URLParam(r, "key"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newWizardResponse(wz))
}

// handleDeleteDraft discards a draft.
func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	def, err := formFromPath(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.DeleteDraft(ctx, def.Type, chi.URLParam(r, "key")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListDrafts returns every unexpired draft saved under ?key=.
func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.service.ListDrafts(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := make([]draftResponse, len(drafts))
	for i, d := range drafts {
		out[i] = toDraftResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}
