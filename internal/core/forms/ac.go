package forms

import "github.com/JonMunkholm/memberportal/internal/core"

func init() {
	registerAC()
}

func registerAC() {
	core.Register(core.FormDefinition{
		Type:  core.MemberTypeAC,
		Label: "สมาชิกสมทบ (นิติบุคคล)",
		Steps: []core.StepDefinition{
			{Number: 1, Title: titleCompany, Validate: juristicCompanyStep},
			{Number: 2, Title: titleRepresentatives, Validate: representativesStep},
			{Number: 3, Title: titleBusiness, Validate: acBusinessStep},
			{Number: 4, Title: titleDocuments, Validate: acDocumentsStep},
			{Number: 5, Title: titleSummary, Validate: consent},
		},
		DraftKey: taxIDKey,
	})
}

func acBusinessStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	businessTypes(errs, d)
	products(errs, d)
	employees(errs, d)
	capital(errs, d)
	return errs
}

func acDocumentsStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	document(errs, d, core.DocCompanyRegistration)
	signatory(errs, d)
	return errs
}
