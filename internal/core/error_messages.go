package core

// error_messages.go defines the portal's sentinel errors and maps any error to
// a user-friendly message with a support code.
//
// Codes are grouped by category:
//
//	DB001   Duplicate record          "duplicate key", "unique constraint"
//	DB002   Connection refused        "connection refused"
//	DB003   Connection reset          "connection reset"
//	DB004   Timeout                   "timeout", "deadline exceeded"
//	DB005   Deadlock                  "deadlock"
//	DB006   Record not found          "no rows in result set"
//
//	VAL001  Invalid form data         *ValidationError
//	VAL002  Unknown member type       ErrUnknownMemberType
//	VAL003  Invalid wizard step       ErrInvalidStep
//	VAL004  Malformed request body    "invalid request body"
//
//	DRF001  Draft not found           ErrDraftNotFound
//	DRF002  Invalid draft key         ErrInvalidDraftKey
//
//	LKP001  Identifier taken          ErrIdentifierTaken
//	LKP002  Lookup superseded         ErrSuperseded
//	LKP003  Lookup query too short    ErrQueryTooShort
//
//	MEM001  Member not found          ErrMemberNotFound
//	MEM002  Invalid social link       ErrInvalidSocialLink
//	MEM003  Logo not found            ErrLogoNotFound
//
//	MSG001  Message not found         ErrMessageNotFound
//	MSG002  Invalid message update    ErrInvalidMessageUpdate
//
//	AUTH001 Invalid credentials       ErrInvalidCredentials
//	AUTH002 Session expired           ErrSessionExpired
//	AUTH003 Not signed in             ErrNotAuthenticated
//
//	UPL001  Too many uploads          ErrTooManyUploads
//	UPL002  Invalid logo file         ErrInvalidLogo
//
//	RATE001 Rate limited              "rate limit"
//	ERR000  Unknown error
//
// Sentinels are matched with errors.Is / errors.As first. Errors coming from
// drivers are then matched case-insensitively by substring; the first matching
// pattern wins.

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors returned by the service.
var (
	ErrUnknownMemberType    = errors.New("unknown member type")
	ErrInvalidStep          = errors.New("invalid wizard step")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrInvalidDraftKey      = errors.New("invalid draft key")
	ErrIdentifierTaken      = errors.New("identifier already registered")
	ErrSuperseded           = errors.New("lookup superseded by a newer request")
	ErrQueryTooShort        = errors.New("lookup query too short")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInvalidSocialLink    = errors.New("invalid social media link")
	ErrLogoNotFound         = errors.New("logo not found")
	ErrMessageNotFound      = errors.New("guest message not found")
	ErrInvalidMessageUpdate = errors.New("invalid guest message update")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionExpired       = errors.New("session expired")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInvalidLogo          = errors.New("invalid logo file")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is checked in order with errors.Is.
var sentinelMessages = []sentinelMessage{
	{ErrUnknownMemberType, UserMessage{"ประเภทสมาชิกไม่ถูกต้อง", "Choose OC, AC or IC", "VAL002"}},
	{ErrInvalidStep, UserMessage{"ขั้นตอนไม่ถูกต้อง", "Reload the application form", "VAL003"}},
	{ErrDraftNotFound, UserMessage{"ไม่พบข้อมูลฉบับร่าง", "Start a new application", "DRF001"}},
	{ErrInvalidDraftKey, UserMessage{"ต้องระบุเลขประจำตัวผู้เสียภาษีหรือเลขบัตรประชาชน 13 หลักก่อนบันทึกร่าง", "Fill in the 13-digit identifier first", "DRF002"}},
	{ErrIdentifierTaken, UserMessage{"หมายเลขนี้ได้สมัครสมาชิกแล้ว", "Contact the federation if you believe this is wrong", "LKP001"}},
	{ErrSuperseded, UserMessage{"คำขอถูกแทนที่ด้วยคำขอใหม่", "No action needed", "LKP002"}},
	{ErrQueryTooShort, UserMessage{"กรุณาพิมพ์อย่างน้อย 2 ตัวอักษร", "Type more characters", "LKP003"}},
	{ErrMemberNotFound, UserMessage{"ไม่พบข้อมูลสมาชิก", "Check the member code", "MEM001"}},
	{ErrInvalidSocialLink, UserMessage{"ข้อมูลโซเชียลมีเดียไม่ถูกต้อง", "Use a supported platform and a full URL", "MEM002"}},
	{ErrLogoNotFound, UserMessage{"ไม่พบโลโก้", "Upload a logo first", "MEM003"}},
	{ErrMessageNotFound, UserMessage{"ไม่พบข้อความ", "Refresh the message list", "MSG001"}},
	{ErrInvalidMessageUpdate, UserMessage{"ไม่สามารถแก้ไขข้อความได้", "Check the status, priority or reply text", "MSG002"}},
	{ErrInvalidCredentials, UserMessage{"อีเมลหรือรหัสผ่านไม่ถูกต้อง", "Check your e-mail and password", "AUTH001"}},
	{ErrSessionExpired, UserMessage{"เซสชันหมดอายุ", "Sign in again", "AUTH002"}},
	{ErrNotAuthenticated, UserMessage{"กรุณาเข้าสู่ระบบ", "Sign in to continue", "AUTH003"}},
	{ErrTooManyUploads, UserMessage{"ระบบกำลังประมวลผลไฟล์จำนวนมาก", "Please wait a moment and try again", "UPL001"}},
	{ErrInvalidLogo, UserMessage{"ไฟล์โลโก้ไม่ถูกต้อง", "Upload a PNG, JPEG or WebP image within the size limit", "UPL002"}},
}

// errorPattern maps a technical error substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched in order, so specific patterns come first.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{"มีข้อมูลนี้อยู่แล้ว", "Review the data for duplicates", "DB001"}},
	{"unique constraint", UserMessage{"มีข้อมูลนี้อยู่แล้ว", "Review the data for duplicates", "DB001"}},
	{"connection refused", UserMessage{"ไม่สามารถเชื่อมต่อฐานข้อมูลได้", "Please try again in a few moments", "DB002"}},
	{"connection reset", UserMessage{"การเชื่อมต่อฐานข้อมูลถูกตัด", "Please try again", "DB003"}},
	{"deadline exceeded", UserMessage{"หมดเวลาการทำงาน", "Please try again", "DB004"}},
	{"timeout", UserMessage{"หมดเวลาการทำงาน", "Please try again", "DB004"}},
	{"deadlock", UserMessage{"ระบบไม่ว่างชั่วคราว", "Please try again", "DB005"}},
	{"no rows in result set", UserMessage{"ไม่พบข้อมูล", "Check the identifier and try again", "DB006"}},
	{"invalid request body", UserMessage{"รูปแบบข้อมูลไม่ถูกต้อง", "Send a valid JSON body", "VAL004"}},
	{"rate limit", UserMessage{"มีคำขอมากเกินไป", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when no sentinel or pattern matches.
var defaultMessage = UserMessage{
	Message: "เกิดข้อผิดพลาดที่ไม่คาดคิด",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return UserMessage{
			Message: "ข้อมูลไม่ครบถ้วนหรือไม่ถูกต้อง",
			Action:  "Correct the highlighted fields",
			Code:    "VAL001",
		}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return UserMessage{"หมดเวลาการทำงาน", "Please try again", "DB004"}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// IsUserError reports whether err is caused by the caller rather than the system.
func IsUserError(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.err != ErrTooManyUploads
		}
	}
	return false
}
