package forms

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/memberportal/internal/catalog"
	"github.com/JonMunkholm/memberportal/internal/core"
)

// Limits shared by every form.
const (
	MinRepresentatives = 1
	MaxRepresentatives = 3
	MinProducts        = 1
	MaxProducts        = 10
)

const otherPrename = "อื่นๆ"

// Thai messages.
const (
	msgRequired       = "กรุณากรอกข้อมูล"
	msgThaiOnly       = "กรุณากรอกเป็นภาษาไทยเท่านั้น"
	msgEnglishOnly    = "กรุณากรอกเป็นภาษาอังกฤษเท่านั้น"
	msgTaxID          = "เลขประจำตัวผู้เสียภาษีต้องเป็นตัวเลข 13 หลัก"
	msgIDCard         = "เลขบัตรประชาชนต้องเป็นตัวเลข 13 หลัก"
	msgEmail          = "รูปแบบอีเมลไม่ถูกต้อง"
	msgPhone          = "รูปแบบเบอร์โทรศัพท์ไม่ถูกต้อง"
	msgPostalCode     = "รหัสไปรษณีย์ต้องเป็นตัวเลข 5 หลัก"
	msgWebsite        = "รูปแบบเว็บไซต์ไม่ถูกต้อง"
	msgPositiveNumber = "กรุณากรอกตัวเลขที่มากกว่า 0"
	msgAmount         = "กรุณากรอกจำนวนเงินที่ถูกต้อง"
	msgFileRequired   = "กรุณาแนบไฟล์"
	msgSelectOne      = "กรุณาเลือกอย่างน้อย 1 รายการ"
	msgUnknownOption  = "ตัวเลือกไม่ถูกต้อง"
	msgDuplicateName  = "ชื่อผู้แทนซ้ำกัน"
	msgConsent        = "กรุณายอมรับเงื่อนไขการสมัครสมาชิก"
)

func cat() *catalog.Catalog {
	return catalog.Default()
}

func thaiName(errs core.ErrorMap, path, value string) {
	if errs.Require(path, value, msgRequired) {
		errs.Check(path, core.IsThaiName(value), msgThaiOnly)
	}
}

func englishName(errs core.ErrorMap, path, value string) {
	if errs.Require(path, value, msgRequired) {
		errs.Check(path, core.IsEnglishName(value), msgEnglishOnly)
	}
}

func email(errs core.ErrorMap, path, value string) {
	if errs.Require(path, value, msgRequired) {
		errs.Check(path, core.IsEmail(value), msgEmail)
	}
}

func phone(errs core.ErrorMap, path, value string) {
	if errs.Require(path, value, msgRequired) {
		errs.Check(path, core.IsPhone(value), msgPhone)
	}
}

func optionalWebsite(errs core.ErrorMap, path, value string) {
	if strings.TrimSpace(value) != "" {
		errs.Check(path, core.IsWebURL(value), msgWebsite)
	}
}

// companyNames validates the Thai and English company names and tax ID.
func companyNames(errs core.ErrorMap, d *core.ApplicationData) {
	if errs.Require("companyName", d.CompanyName, msgRequired) {
		errs.Check("companyName", core.IsThaiText(d.CompanyName), msgThaiOnly)
	}
	if errs.Require("companyNameEn", d.CompanyNameEn, msgRequired) {
		errs.Check("companyNameEn", core.IsEnglishText(d.CompanyNameEn), msgEnglishOnly)
	}
	if errs.Require("taxId", d.TaxID, msgRequired) {
		errs.Check("taxId", core.IsThirteenDigits(d.TaxID), msgTaxID)
	}
}

func address(errs core.ErrorMap, t core.AddressType, a core.Address) {
	p := "addresses." + string(t) + "."
	errs.Require(p+"addressNumber", a.AddressNumber, msgRequired)
	errs.Require(p+"subDistrict", a.SubDistrict, msgRequired)
	errs.Require(p+"district", a.District, msgRequired)
	errs.Require(p+"province", a.Province, msgRequired)
	if errs.Require(p+"postalCode", a.PostalCode, msgRequired) {
		errs.Check(p+"postalCode", core.IsPostalCode(a.PostalCode), msgPostalCode)
	}
	if strings.TrimSpace(a.Email) != "" {
		errs.Check(p+"email", core.IsEmail(a.Email), msgEmail)
	}
	if strings.TrimSpace(a.Phone) != "" {
		errs.Check(p+"phone", core.IsPhone(a.Phone), msgPhone)
	}
}

// addresses validates the given address types, all of which are required.
func addresses(errs core.ErrorMap, d *core.ApplicationData, types ...core.AddressType) {
	for _, t := range types {
		a, ok := d.Addresses[t]
		if !ok {
			errs.Add("addresses."+string(t), msgRequired)
			continue
		}
		address(errs, t, a)
	}
}

// prename validates a Thai/English prename pair. "อื่นๆ" requires the free-text
// prename.
func prename(errs core.ErrorMap, prefix string, n core.PersonName) {
	if !errs.Require(prefix+"prenameTh", n.PrenameTh, msgRequired) {
		return
	}
	if strings.TrimSpace(n.PrenameTh) == otherPrename {
		errs.Require(prefix+"prenameOther", n.PrenameOther, msgRequired)
	}
}

func personName(errs core.ErrorMap, prefix string, n core.PersonName) {
	prename(errs, prefix, n)
	thaiName(errs, prefix+"firstNameTh", n.FirstNameTh)
	thaiName(errs, prefix+"lastNameTh", n.LastNameTh)
	englishName(errs, prefix+"firstNameEn", n.FirstNameEn)
	englishName(errs, prefix+"lastNameEn", n.LastNameEn)
}

func contactPerson(errs core.ErrorMap, d *core.ApplicationData) {
	if len(d.ContactPersons) == 0 {
		errs.Add("contactPersons", msgRequired)
		return
	}
	for i, c := range d.ContactPersons {
		p := fmt.Sprintf("contactPersons.%d.", i)
		personName(errs, p, c.PersonName)
		errs.Require(p+"position", c.Position, msgRequired)
		email(errs, p+"email", c.Email)
		phone(errs, p+"phone", c.Phone)
	}
}

// groups validates the selected industrial groups and provincial chapters.
// Every id must exist; when required at least one must be selected.
func groups(errs core.ErrorMap, d *core.ApplicationData, required bool) {
	c := cat()
	if required && len(d.IndustrialGroupIDs) == 0 && len(d.ProvincialChapterIDs) == 0 {
		errs.Add("industrialGroupIds", msgSelectOne)
	}
	for i, id := range d.IndustrialGroupIDs {
		errs.Check(fmt.Sprintf("industrialGroupIds.%d", i), c.HasIndustrialGroup(id), msgUnknownOption)
	}
	for i, id := range d.ProvincialChapterIDs {
		errs.Check(fmt.Sprintf("provincialChapterIds.%d", i), c.HasProvincialChapter(id), msgUnknownOption)
	}
}

// representatives validates 1..3 representatives with distinct names.
func representatives(errs core.ErrorMap, d *core.ApplicationData) {
	n := len(d.Representatives)
	if n < MinRepresentatives {
		errs.Add("representatives", "กรุณาเพิ่มผู้แทนอย่างน้อย 1 คน")
		return
	}
	if n > MaxRepresentatives {
		errs.Add("representatives", fmt.Sprintf("เพิ่มผู้แทนได้ไม่เกิน %d คน", MaxRepresentatives))
	}

	seenTh := make(map[string]int, n)
	seenEn := make(map[string]int, n)
	for i, r := range d.Representatives {
		p := fmt.Sprintf("representatives.%d.", i)
		personName(errs, p, r.PersonName)
		errs.Require(p+"position", r.Position, msgRequired)
		email(errs, p+"email", r.Email)
		phone(errs, p+"phone", r.Phone)

		th := core.Normalize(r.FirstNameTh) + " " + core.Normalize(r.LastNameTh)
		if strings.TrimSpace(th) != "" {
			if _, dup := seenTh[th]; dup {
				errs.Add(p+"firstNameTh", msgDuplicateName)
			} else {
				seenTh[th] = i
			}
		}
		en := strings.ToLower(core.Normalize(r.FirstNameEn) + " " + core.Normalize(r.LastNameEn))
		if strings.TrimSpace(en) != "" {
			if _, dup := seenEn[en]; dup {
				errs.Add(p+"firstNameEn", msgDuplicateName)
			} else {
				seenEn[en] = i
			}
		}
	}
}

// businessTypes validates the selected business types. "other" requires a
// description.
func businessTypes(errs core.ErrorMap, d *core.ApplicationData) {
	c := cat()
	selected := 0
	for key, on := range d.BusinessTypes {
		if !on {
			continue
		}
		selected++
		errs.Check("businessTypes."+key, c.HasBusinessType(key), msgUnknownOption)
	}
	if selected == 0 {
		errs.Add("businessTypes", msgSelectOne)
	}
	if d.BusinessTypes["other"] {
		errs.Require("otherBusinessTypeDetail", d.OtherBusinessTypeDetail, msgRequired)
	}
}

// products validates 1..10 product lines with a Thai name and an optional
// English name.
func products(errs core.ErrorMap, d *core.ApplicationData) {
	n := len(d.Products)
	if n < MinProducts {
		errs.Add("products", "กรุณาเพิ่มผลิตภัณฑ์อย่างน้อย 1 รายการ")
		return
	}
	if n > MaxProducts {
		errs.Add("products", fmt.Sprintf("เพิ่มผลิตภัณฑ์ได้ไม่เกิน %d รายการ", MaxProducts))
	}
	for i, p := range d.Products {
		path := fmt.Sprintf("products.%d.", i)
		if errs.Require(path+"nameTh", p.NameTh, msgRequired) {
			errs.Check(path+"nameTh", core.IsThaiText(p.NameTh), msgThaiOnly)
		}
		if strings.TrimSpace(p.NameEn) != "" {
			errs.Check(path+"nameEn", core.IsEnglishText(p.NameEn), msgEnglishOnly)
		}
	}
}

func employees(errs core.ErrorMap, d *core.ApplicationData) {
	if errs.Require("numberOfEmployees", d.NumberOfEmployees, msgRequired) {
		errs.Check("numberOfEmployees", core.IsPositiveInt(d.NumberOfEmployees), msgPositiveNumber)
	}
}

func capital(errs core.ErrorMap, d *core.ApplicationData) {
	if errs.Require("registeredCapital", d.RegisteredCapital, msgRequired) {
		errs.Check("registeredCapital", core.IsNonNegativeAmount(d.RegisteredCapital), msgAmount)
	}
}

func document(errs core.ErrorMap, d *core.ApplicationData, key string) {
	errs.Check("documents."+key, d.HasDocument(key), msgFileRequired)
}

// signatory validates the authorized signatory of a company.
func signatory(errs core.ErrorMap, d *core.ApplicationData) {
	s := d.AuthorizedSignatory
	const p = "authorizedSignatory."
	errs.Require(p+"prenameTh", s.PrenameTh, msgRequired)
	thaiName(errs, p+"firstNameTh", s.FirstNameTh)
	thaiName(errs, p+"lastNameTh", s.LastNameTh)
	if errs.Require(p+"positionTh", s.PositionTh, msgRequired) {
		errs.Check(p+"positionTh", core.IsThaiText(s.PositionTh), msgThaiOnly)
	}
	errs.Check(p+"signature", s.Signature != nil && s.Signature.FileName != "", msgFileRequired)
}

func consent(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	errs.Check("consentAccepted", d.ConsentAccepted, msgConsent)
	return errs
}

// Step titles shared by every form.
const (
	titleApplicant       = "ข้อมูลผู้สมัคร"
	titleCompany         = "ข้อมูลบริษัท"
	titleRepresentatives = "ข้อมูลผู้แทน"
	titleBusiness        = "ข้อมูลธุรกิจ"
	titleDocuments       = "เอกสารแนบ"
	titleSummary         = "ยืนยันข้อมูล"
)

func representativesStep(d *core.ApplicationData) core.ErrorMap {
	errs := core.ErrorMap{}
	representatives(errs, d)
	return errs
}

func taxIDKey(d *core.ApplicationData) string {
	return d.TaxID
}

func idCardKey(d *core.ApplicationData) string {
	return d.IDCardNumber
}
