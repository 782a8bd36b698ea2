// Package formstest provides complete, valid applications for tests.
package formstest

import "github.com/JonMunkholm/memberportal/internal/core"

// Identifiers used by the fixtures.
const (
	TaxID  = "0105551234567"
	IDCard = "1101700203451"
)

func address() core.Address {
	return core.Address{
		AddressNumber: "99/1",
		Street:        "ถนนสุขุมวิท",
		SubDistrict:   "คลองเตย",
		District:      "คลองเตย",
		Province:      "กรุงเทพมหานคร",
		PostalCode:    "10110",
		Phone:         "02-123-4567",
	}
}

func person(firstTh, lastTh, firstEn, lastEn string) core.PersonName {
	return core.PersonName{
		PrenameTh:   "นาย",
		PrenameEn:   "Mr.",
		FirstNameTh: firstTh,
		LastNameTh:  lastTh,
		FirstNameEn: firstEn,
		LastNameEn:  lastEn,
	}
}

// Valid returns an application of type mt that passes every step.
func Valid(mt core.MemberType) *core.ApplicationData {
	d := &core.ApplicationData{
		Email:   "contact@example.co.th",
		Phone:   "02-123-4567",
		Website: "https://www.example.co.th",
		Representatives: []core.Representative{{
			PersonName: person("สมชาย", "ใจดี", "Somchai", "Jaidee"),
			Position:   "กรรมการผู้จัดการ",
			Email:      "somchai@example.co.th",
			Phone:      "081-234-5678",
			IsPrimary:  true,
		}},
		BusinessTypes:   map[string]bool{"manufacturer": true},
		Products:        []core.Product{{NameTh: "ชิ้นส่วนยานยนต์", NameEn: "Auto parts"}},
		ConsentAccepted: true,
	}

	switch mt {
	case core.MemberTypeIC:
		d.IDCardNumber = IDCard
		d.PrenameTh = "นาง"
		d.PrenameEn = "Mrs."
		d.FirstNameTh = "สมหญิง"
		d.LastNameTh = "รักไทย"
		d.FirstNameEn = "Somying"
		d.LastNameEn = "Rakthai"
		d.Addresses = map[core.AddressType]core.Address{core.AddressOffice: address()}
		d.Documents = map[string]core.DocumentRef{
			core.DocIDCard: {FileName: "id-card.pdf", ContentType: "application/pdf", Size: 1024},
		}
	default:
		d.CompanyName = "บริษัท ตัวอย่าง จำกัด"
		d.CompanyNameEn = "Example Co., Ltd."
		d.TaxID = TaxID
		d.Addresses = map[core.AddressType]core.Address{
			core.AddressOffice:     address(),
			core.AddressContact:    address(),
			core.AddressTaxInvoice: address(),
		}
		d.ContactPersons = []core.ContactPerson{{
			PersonName: person("วิชัย", "มั่นคง", "Wichai", "Mankong"),
			Position:   "ผู้จัดการฝ่ายบุคคล",
			Email:      "wichai@example.co.th",
			Phone:      "0812345678",
		}}
		d.IndustrialGroupIDs = []string{"010"}
		d.ProvincialChapterIDs = []string{"P10"}
		d.NumberOfEmployees = "120"
		d.RegisteredCapital = "5,000,000"
		d.Documents = map[string]core.DocumentRef{
			core.DocCompanyRegistration: {FileName: "registration.pdf", ContentType: "application/pdf", Size: 2048},
		}
		d.AuthorizedSignatory = core.Signatory{
			PrenameTh:   "นาย",
			FirstNameTh: "สมชาย",
			LastNameTh:  "ใจดี",
			PositionTh:  "กรรมการผู้จัดการ",
			Signature:   &core.DocumentRef{FileName: "signature.png", ContentType: "image/png", Size: 512},
		}
		if mt == core.MemberTypeOC {
			d.FactoryType = core.FactoryType1
			d.Documents[core.DocFactoryLicense] = core.DocumentRef{FileName: "factory-license.pdf"}
		}
	}
	return d
}
