package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) bool
		input string
		want  bool
	}{
		{"thai name", IsThaiName, "สมชาย ใจดี", true},
		{"thai name rejects latin", IsThaiName, "สมชาย A", false},
		{"thai name rejects digits", IsThaiName, "สมชาย1", false},
		{"thai name rejects blank", IsThaiName, "   ", false},
		{"thai name trims", IsThaiName, "  สมหญิง  ", true},
		{"thai text allows company punctuation", IsThaiText, "บริษัท เอบีซี (ประเทศไทย) จำกัด 2", true},
		{"thai text rejects latin", IsThaiText, "บริษัท ABC", false},
		{"english name", IsEnglishName, "Mary-Jane O'Neil", true},
		{"english name rejects thai", IsEnglishName, "Mary สม", false},
		{"english name rejects digits", IsEnglishName, "John2", false},
		{"english text", IsEnglishText, "ABC (Thailand) Co., Ltd.", true},
		{"english text rejects thai", IsEnglishText, "ABC จำกัด", false},
		{"13 digits", IsThirteenDigits, "0105551234567", true},
		{"12 digits", IsThirteenDigits, "010555123456", false},
		{"13 with dash", IsThirteenDigits, "0-105551234567", false},
		{"postal code", IsPostalCode, "10110", true},
		{"postal code short", IsPostalCode, "1011", false},
		{"postal code letters", IsPostalCode, "10a10", false},
		{"email", IsEmail, "info@example.co.th", true},
		{"email no tld", IsEmail, "info@example", false},
		{"email spaces", IsEmail, "in fo@example.com", false},
		{"phone 10 digits", IsPhone, "081-234-5678", true},
		{"phone 9 digits landline", IsPhone, "02 123 4567", true},
		{"phone with extension", IsPhone, "02-123-4567#105", true},
		{"phone +66", IsPhone, "+66 81 234 5678", true},
		{"phone parentheses", IsPhone, "(02) 1234567", true},
		{"phone too short", IsPhone, "12345", false},
		{"phone empty extension", IsPhone, "021234567#", false},
		{"phone letters", IsPhone, "02-ABC-4567", false},
		{"positive int", IsPositiveInt, "1,250", true},
		{"positive int zero", IsPositiveInt, "0", false},
		{"positive int decimal", IsPositiveInt, "1.5", false},
		{"amount", IsNonNegativeAmount, "5,000,000.50", true},
		{"amount zero", IsNonNegativeAmount, "0", true},
		{"amount negative", IsNonNegativeAmount, "-1", false},
		{"web url", IsWebURL, "https://www.example.co.th", true},
		{"web url no scheme", IsWebURL, "www.example.co.th", false},
		{"web url ftp", IsWebURL, "ftp://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.want {
				t.Errorf("%s(%q) = %v, want %v", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  สมชาย  ", "สมชาย"},
		{"e\u0301", "\u00e9"},
		{"\tABC\n", "ABC"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorMap(t *testing.T) {
	errs := ErrorMap{}
	errs.Add("a", "first")
	errs.Add("a", "second")
	if errs["a"] != "first" {
		t.Errorf("Add overwrote: got %q", errs["a"])
	}

	if errs.Require("b", "  ", "required") {
		t.Error("Require returned true for blank value")
	}
	if !errs.Require("c", "x", "required") {
		t.Error("Require returned false for present value")
	}
	errs.Check("d", true, "never")
	errs.Check("e", false, "bad")
	errs.Merge(ErrorMap{"a": "merged", "f": "merged"})

	want := ErrorMap{"a": "first", "b": "required", "e": "bad", "f": "merged"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("ErrorMap mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "e", "f"}, errs.Fields()); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStep(t *testing.T) {
	def := FormDefinition{
		Type: "XX",
		Steps: []StepDefinition{
			{Number: 1, Validate: func(d *ApplicationData) ErrorMap {
				errs := ErrorMap{}
				errs.Require("email", d.Email, "required")
				return errs
			}},
			{Number: 2, Validate: func(*ApplicationData) ErrorMap { return nil }},
		},
	}

	errs, err := ValidateStep(def, &ApplicationData{}, 1)
	if err != nil {
		t.Fatalf("ValidateStep: %v", err)
	}
	if errs["email"] != "required" {
		t.Errorf("step 1 errors = %v", errs)
	}

	errs, err = ValidateStep(def, &ApplicationData{}, 2)
	if err != nil || errs == nil || errs.HasErrors() {
		t.Errorf("step 2 = %v, %v; want empty non-nil map", errs, err)
	}

	if _, err := ValidateStep(def, &ApplicationData{}, 3); err == nil {
		t.Error("ValidateStep(3) succeeded on a two-step form")
	}

	all := ValidateAll(def, &ApplicationData{})
	if diff := cmp.Diff(ErrorMap{"email": "required"}, all); diff != "" {
		t.Errorf("ValidateAll mismatch (-want +got):\n%s", diff)
	}
}

func TestWithoutFiles(t *testing.T) {
	d := &ApplicationData{
		TaxID:     "0105551234567",
		Addresses: map[AddressType]Address{AddressOffice: {PostalCode: "10110"}},
		Documents: map[string]DocumentRef{DocCompanyRegistration: {FileName: "reg.pdf"}},
		AuthorizedSignatory: Signatory{
			FirstNameTh: "สมชาย",
			Signature:   &DocumentRef{FileName: "sig.png"},
		},
		Products: []Product{{NameTh: "เหล็ก"}},
	}

	c := d.WithoutFiles()
	if c.Documents != nil {
		t.Errorf("Documents = %v, want nil", c.Documents)
	}
	if c.AuthorizedSignatory.Signature != nil {
		t.Error("signature kept")
	}
	if c.AuthorizedSignatory.FirstNameTh != "สมชาย" || c.TaxID != d.TaxID {
		t.Error("non-file fields lost")
	}

	c.Addresses[AddressOffice] = Address{PostalCode: "99999"}
	c.Products[0].NameTh = "changed"
	if d.Addresses[AddressOffice].PostalCode != "10110" || d.Products[0].NameTh != "เหล็ก" {
		t.Error("copy shares state with original")
	}
	if !d.HasDocument(DocCompanyRegistration) || d.AuthorizedSignatory.Signature == nil {
		t.Error("original was modified")
	}
}
