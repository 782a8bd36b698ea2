package forms

import "github.com/JonMunkholm/memberportal/internal/core"

func init() {
	registerIC()
}

func registerIC() {
	core.Register(core.FormDefinition{
		Type:  core.MemberTypeIC,
		Label: "สมาชิกสมทบ (บุคคลธรรมดา)",
		Steps: []core.StepDefinition{
			{Number: 1, Title: titleApplicant, Validate: icApplicantStep},
			{Number: 2, Title: titleRepresentatives, Validate: representativesStep},
			{Number: 3, Title: titleBusiness, Validate: icBusinessStep},
			{Number: 4, Title: titleDocuments, Validate: icDocumentsStep},
			{Number: 5, Title: titleSummary, Validate: consent},
		},
		DraftKey: idCardKey,
	})
}

// icApplicantStep validates the individual applicant. Only the office
// address is required and group membership is optional.
func icApplicantStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	if errs.Require("idCardNumber", d.IDCardNumber, msgRequired) {
		errs.Check("idCardNumber", core.IsThirteenDigits(d.IDCardNumber), msgIDCard)
	}
	personName(errs, "", core.PersonName{
		PrenameTh:    d.PrenameTh,
		PrenameEn:    d.PrenameEn,
		PrenameOther: d.PrenameOther,
		FirstNameTh:  d.FirstNameTh,
		LastNameTh:   d.LastNameTh,
		FirstNameEn:  d.FirstNameEn,
		LastNameEn:   d.LastNameEn,
	})
	email(errs, "email", d.Email)
	phone(errs, "phone", d.Phone)
	optionalWebsite(errs, "website", d.Website)
	addresses(errs, d, core.AddressOffice)
	groups(errs, d, false)
	return errs
}

func icBusinessStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	businessTypes(errs, d)
	products(errs, d)
	return errs
}

func icDocumentsStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	document(errs, d, core.DocIDCard)
	return errs
}
