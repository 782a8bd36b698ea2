package forms

import "github.com/JonMunkholm/memberportal/internal/core"

func init() {
	registerOC()
}

func registerOC() {
	core.Register(core.FormDefinition{
		Type:  core.MemberTypeOC,
		Label: "สมาชิกสามัญ (โรงงาน)",
		Steps: []core.StepDefinition{
			{Number: 1, Title: titleCompany, Validate: juristicCompanyStep},
			{Number: 2, Title: titleRepresentatives, Validate: representativesStep},
			{Number: 3, Title: titleBusiness, Validate: ocBusinessStep},
			{Number: 4, Title: titleDocuments, Validate: ocDocumentsStep},
			{Number: 5, Title: titleSummary, Validate: consent},
		},
		DraftKey: taxIDKey,
	})
}

// juristicCompanyStep validates step 1 of the OC and AC forms.
func juristicCompanyStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	companyNames(errs, d)
	email(errs, "email", d.Email)
	phone(errs, "phone", d.Phone)
	optionalWebsite(errs, "website", d.Website)
	addresses(errs, d, core.AddressTypes...)
	contactPerson(errs, d)
	groups(errs, d, true)
	return errs
}

func ocBusinessStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	businessTypes(errs, d)
	products(errs, d)
	employees(errs, d)
	capital(errs, d)

	switch d.FactoryType {
	case core.FactoryType1, core.FactoryType2:
	case "":
		errs.Add("factoryType", "กรุณาเลือกประเภทโรงงาน")
	default:
		errs.Add("factoryType", msgUnknownOption)
	}
	return errs
}

// ocDocumentsStep requires the company registration and, depending on the
// factory type, either a factory or industrial estate license (type 1) or
// production images (type 2).
func ocDocumentsStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	document(errs, d, core.DocCompanyRegistration)

	switch d.FactoryType {
	case core.FactoryType1:
		if !d.HasDocument(core.DocFactoryLicense) && !d.HasDocument(core.DocIndustrialEstateLicense) {
			errs.Add("documents."+core.DocFactoryLicense, "กรุณาแนบใบอนุญาตประกอบกิจการโรงงานหรือใบอนุญาตนิคมอุตสาหกรรม")
		}
	case core.FactoryType2:
		document(errs, d, core.DocProductionImages)
	}

	signatory(errs, d)
	return errs
}
