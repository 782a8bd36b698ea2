// Package core provides the business logic of the member portal.
//
// This package holds all domain logic independent of any transport: web
// handlers, the CLI and tests use it without modification.
//
// # Architecture
//
//   - Form Definitions: one [FormDefinition] per member type (OC, AC, IC) is
//     registered at init time by package forms. A definition lists the wizard
//     steps and the pure validator of each step.
//   - Wizard: [Wizard] gates step transitions on validation.
//   - Service: the entry point for drafts, submissions, lookups, member detail,
//     guest messages and admin sessions. Persistence goes through the store
//     interfaces in store.go, implemented by package database.
//
// # Form Registry
//
//	core.Register(core.FormDefinition{
//	    Type:  core.MemberTypeOC,
//	    Label: "สมาชิกสามัญ (โรงงาน)",
//	    Steps: []core.StepDefinition{
//	        {Number: 1, Title: "ข้อมูลบริษัท", Validate: validateCompany},
//	    },
//	    DraftKey: func(d *core.ApplicationData) string { return d.TaxID },
//	})
//
// # Drafts
//
// A draft is the non-file part of an application, upserted on
// (member_type, draft_key) where the key is the tax ID or ID-card number.
// Expired drafts are purged by the maintenance scheduler.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages by [MapError]. Each
// category has a code for support reference:
//
//   - DB001-DB006: Database errors
//   - VAL001-VAL004: Validation errors
//   - DRF001-DRF002: Draft errors
//   - LKP001-LKP003: Lookup errors
//   - MEM001-MEM003: Member detail errors
//   - MSG001-MSG002: Guest message errors
//   - AUTH001-AUTH003: Admin sign-in errors
//   - UPL001-UPL002: Upload errors
package core
