// Package forms registers the OC, AC and IC application forms with the core
// registry. Import it for side effects to make the forms available.
package forms

// Each form file uses init() to register its definition.
