package core

// AddressType identifies one of the addresses a juristic applicant provides.
type AddressType string

const (
	AddressOffice     AddressType = "1" // registered office
	AddressContact    AddressType = "2" // document delivery
	AddressTaxInvoice AddressType = "3" // tax invoice
)

// AddressTypes lists the address types in display order.
var AddressTypes = []AddressType{AddressOffice, AddressContact, AddressTaxInvoice}

// Label returns the Thai label of an address type.
func (t AddressType) Label() string {
	switch t {
	case AddressOffice:
		return "ที่อยู่สำนักงาน"
	case AddressContact:
		return "ที่อยู่จัดส่งเอกสาร"
	case AddressTaxInvoice:
		return "ที่อยู่ใบกำกับภาษี"
	default:
		return string(t)
	}
}

// Document keys used in ApplicationData.Documents.
const (
	DocCompanyRegistration     = "companyRegistration"
	DocCompanyStamp            = "companyStamp"
	DocFactoryLicense          = "factoryLicense"
	DocIndustrialEstateLicense = "industrialEstateLicense"
	DocProductionImages        = "productionImages"
	DocIDCard                  = "idCardDocument"
)

// Factory types for OC applicants.
const (
	FactoryType1 = "type1" // machinery of 50 horsepower or more
	FactoryType2 = "type2" // below 50 horsepower, no license
)

// ApplicationData is the form state of a membership application.
// JSON names follow the portal's client form object.
type ApplicationData struct {
	// Juristic applicants (OC, AC)
	CompanyName   string `json:"companyName,omitempty"`
	CompanyNameEn string `json:"companyNameEn,omitempty"`
	TaxID         string `json:"taxId,omitempty"`

	// Individual applicants (IC)
	IDCardNumber string `json:"idCardNumber,omitempty"`
	PrenameTh    string `json:"prenameTh,omitempty"`
	PrenameEn    string `json:"prenameEn,omitempty"`
	PrenameOther string `json:"prenameOther,omitempty"`
	FirstNameTh  string `json:"firstNameTh,omitempty"`
	LastNameTh   string `json:"lastNameTh,omitempty"`
	FirstNameEn  string `json:"firstNameEn,omitempty"`
	LastNameEn   string `json:"lastNameEn,omitempty"`

	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`

	Addresses       map[AddressType]Address `json:"addresses,omitempty"`
	ContactPersons  []ContactPerson         `json:"contactPersons,omitempty"`
	Representatives []Representative        `json:"representatives,omitempty"`

	BusinessTypes           map[string]bool `json:"businessTypes,omitempty"`
	OtherBusinessTypeDetail string          `json:"otherBusinessTypeDetail,omitempty"`
	Products                []Product       `json:"products,omitempty"`
	NumberOfEmployees       string          `json:"numberOfEmployees,omitempty"`
	RegisteredCapital       string          `json:"registeredCapital,omitempty"`
	FactoryType             string          `json:"factoryType,omitempty"`

	IndustrialGroupIDs   []string `json:"industrialGroupIds,omitempty"`
	ProvincialChapterIDs []string `json:"provincialChapterIds,omitempty"`

	Documents           map[string]DocumentRef `json:"documents,omitempty"`
	AuthorizedSignatory Signatory              `json:"authorizedSignatory"`
	ConsentAccepted     bool                   `json:"consentAccepted,omitempty"`
}

// Address is a Thai postal address.
type Address struct {
	AddressNumber string `json:"addressNumber,omitempty"`
	Building      string `json:"building,omitempty"`
	Moo           string `json:"moo,omitempty"`
	Soi           string `json:"soi,omitempty"`
	Street        string `json:"street,omitempty"`
	SubDistrict   string `json:"subDistrict,omitempty"`
	District      string `json:"district,omitempty"`
	Province      string `json:"province,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Line formats the address on one line in Thai postal order.
func (a Address) Line() string {
	var moo, soi string
	if a.Moo != "" {
		moo = "หมู่ " + a.Moo
	}
	if a.Soi != "" {
		soi = "ซอย " + a.Soi
	}
	return joinNonEmpty(" ", a.AddressNumber, a.Building, moo, soi, a.Street,
		a.SubDistrict, a.District, a.Province, a.PostalCode)
}

// PersonName holds a prefixed name in Thai and English.
type PersonName struct {
	PrenameTh    string `json:"prenameTh,omitempty"`
	PrenameEn    string `json:"prenameEn,omitempty"`
	PrenameOther string `json:"prenameOther,omitempty"`
	FirstNameTh  string `json:"firstNameTh,omitempty"`
	LastNameTh   string `json:"lastNameTh,omitempty"`
	FirstNameEn  string `json:"firstNameEn,omitempty"`
	LastNameEn   string `json:"lastNameEn,omitempty"`
}

// FullNameTh returns "first last" in Thai.
func (n PersonName) FullNameTh() string {
	return joinNonEmpty(" ", n.FirstNameTh, n.LastNameTh)
}

// ContactPerson is the applicant's main contact.
type ContactPerson struct {
	PersonName
	Position string `json:"position,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Representative is a person authorised to act for the member.
type Representative struct {
	PersonName
	Position  string `json:"position,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// Product is one product or service line.
type Product struct {
	NameTh string `json:"nameTh,omitempty"`
	NameEn string `json:"nameEn,omitempty"`
}

// DocumentRef points to an uploaded file. Drafts never carry these.
type DocumentRef struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
	StorageKey  string `json:"storageKey,omitempty"`
}

// Signatory is the person signing the application on behalf of a company.
type Signatory struct {
	PrenameTh   string       `json:"prenameTh,omitempty"`
	FirstNameTh string       `json:"firstNameTh,omitempty"`
	LastNameTh  string       `json:"lastNameTh,omitempty"`
	PositionTh  string       `json:"positionTh,omitempty"`
	Signature   *DocumentRef `json:"signature,omitempty"`
}

// WithoutFiles returns a copy of d with every file reference removed.
// The copy shares no mutable state with d.
func (d *ApplicationData) WithoutFiles() *ApplicationData {
	c := *d
	c.Documents = nil
	c.AuthorizedSignatory.Signature = nil

	if d.Addresses != nil {
		c.Addresses = make(map[AddressType]Address, len(d.Addresses))
		for k, v := range d.Addresses {
			c.Addresses[k] = v
		}
	}
	if d.BusinessTypes != nil {
		c.BusinessTypes = make(map[string]bool, len(d.BusinessTypes))
		for k, v := range d.BusinessTypes {
			c.BusinessTypes[k] = v
		}
	}
	c.ContactPersons = append([]ContactPerson(nil), d.ContactPersons...)
	c.Representatives = append([]Representative(nil), d.Representatives...)
	c.Products = append([]Product(nil), d.Products...)
	c.IndustrialGroupIDs = append([]string(nil), d.IndustrialGroupIDs...)
	c.ProvincialChapterIDs = append([]string(nil), d.ProvincialChapterIDs...)
	return &c
}

// HasDocument reports whether a file was attached under key.
func (d *ApplicationData) HasDocument(key string) bool {
	doc, ok := d.Documents[key]
	return ok && doc.FileName != ""
}

// DisplayName returns the Thai company name or the applicant's Thai name.
func (d *ApplicationData) DisplayName() string {
	if d.CompanyName != "" {
		return d.CompanyName
	}
	return joinNonEmpty(" ", d.PrenameTh, d.FirstNameTh, d.LastNameTh)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
